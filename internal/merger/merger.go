// Package merger combines per-quarter CSVs into a single dataset file. The
// body column is dropped and the remaining columns are laid out in the
// canonical artifact order regardless of how individual inputs order them,
// so the merged file is stable across runs and input layouts.
package merger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"l10nminer/pkg/logger"
	"l10nminer/pkg/models"

	"l10nminer/internal/cleaner"
)

// OutputName is the merged dataset file.
const OutputName = "merged_issues.csv"

// Options configures a merge run.
type Options struct {
	InputDir  string
	OutputDir string
}

// Result summarizes a merge run.
type Result struct {
	FilesMerged int
	Rows        int
	Columns     []string
}

// Merger combines quarter CSVs into one file.
type Merger struct {
	opts   Options
	logger logger.Logger
}

// New creates a merger. The output directory defaults to the input
// directory.
func New(opts Options, log logger.Logger) *Merger {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.InputDir
	}
	return &Merger{
		opts:   opts,
		logger: log.WithField("component", "merger"),
	}
}

// Run merges every CSV in the input directory into the output file. Earlier
// merge output and cleaning artifacts are skipped so reruns are safe.
func (m *Merger) Run() (*Result, error) {
	files, err := m.inputFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV files to merge in %s", m.opts.InputDir)
	}

	if err := os.MkdirAll(m.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	type table struct {
		name   string
		header []string
		rows   [][]string
	}

	var tables []table
	present := make(map[string]bool)
	var extras []string

	for _, file := range files {
		header, rows, err := readCSV(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(file), err)
		}

		for _, col := range header {
			if col == "body" || present[col] {
				continue
			}
			present[col] = true
			if !canonicalColumns[col] {
				extras = append(extras, col)
			}
		}

		m.logger.InfoWithFields("Merging file", map[string]interface{}{
			"file": filepath.Base(file),
			"rows": len(rows),
		})

		tables = append(tables, table{name: filepath.Base(file), header: header, rows: rows})
	}

	// Canonical columns first, in artifact order, then any extras in the
	// order they were first seen.
	columns := make([]string, 0, len(present))
	for _, col := range models.CSVHeader() {
		if col != "body" && present[col] {
			columns = append(columns, col)
		}
	}
	columns = append(columns, extras...)

	out := make([][]string, 0, 1)
	out = append(out, columns)
	for _, tbl := range tables {
		cols := columnIndex(tbl.header)
		for _, row := range tbl.rows {
			outRow := make([]string, len(columns))
			for i, col := range columns {
				outRow[i] = field(row, cols, col)
			}
			out = append(out, outRow)
		}
	}

	outPath := filepath.Join(m.opts.OutputDir, OutputName)
	if err := writeCSVFile(outPath, out); err != nil {
		return nil, err
	}

	result := &Result{
		FilesMerged: len(tables),
		Rows:        len(out) - 1,
		Columns:     columns,
	}

	m.logger.InfoWithFields("Merge finished", map[string]interface{}{
		"files":   result.FilesMerged,
		"rows":    result.Rows,
		"columns": len(result.Columns),
		"output":  outPath,
	})

	return result, nil
}

var canonicalColumns = func() map[string]bool {
	cols := make(map[string]bool)
	for _, col := range models.CSVHeader() {
		cols[col] = true
	}
	return cols
}()

func (m *Merger) inputFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(m.opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		if name == OutputName || name == cleaner.LogFileName || name == cleaner.StatsFileName {
			continue
		}
		files = append(files, filepath.Join(m.opts.InputDir, name))
	}

	sort.Strings(files)
	return files, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV has no header row")
	}

	return records[0], records[1:], nil
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	if i, ok := cols[name]; ok && i < len(row) {
		return row[i]
	}
	return ""
}
