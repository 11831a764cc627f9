// Package cleaner post-filters harvested quarter CSVs, removing rows that
// are not localization bug reports with real screenshots. It applies three
// rules in order: the row must mention a bug keyword, it must mention a
// recognized search term, and at least one of its image links must resolve
// to an image larger than the minimum size. Every decision is written to a
// cleaning log so removals can be audited.
package cleaner

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"l10nminer/pkg/logger"
	"l10nminer/pkg/ratelimit"
)

// Removal reasons recorded in the cleaning log.
const (
	RemovedBugKeyword = "bug_keyword"
	RemovedSearchTerm = "search_term"
	RemovedImage      = "image"
	Kept              = "kept"
)

// Output artifact names.
const (
	LogFileName   = "cleaning_log.csv"
	StatsFileName = "cleaning_stats.csv"
	CleanedPrefix = "cleaned_"
)

// cdnRequestsPerSecond bounds how fast probe workers hit image hosts.
const cdnRequestsPerSecond = 10

// Options configures a cleaning run.
type Options struct {
	InputDir       string
	OutputDir      string
	Workers        int
	MinImageSize   int
	RequestTimeout time.Duration
}

// Stats summarizes a cleaning run across all input files.
type Stats struct {
	FilesProcessed    int
	TotalScanned      int
	Kept              int
	RemovedBugKeyword int
	RemovedSearchTerm int
	RemovedImage      int
}

// LogEntry records the outcome for one input row.
type LogEntry struct {
	IssueID   string
	CSVFile   string
	RemovedBy string
	Title     string
}

// Cleaner filters harvested quarter CSVs.
type Cleaner struct {
	opts    Options
	prober  ImageProber
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// New creates a cleaner. Zero option fields fall back to defaults.
func New(opts Options, log logger.Logger) *Cleaner {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.MinImageSize <= 0 {
		opts.MinImageSize = 80
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.InputDir
	}

	return &Cleaner{
		opts:    opts,
		prober:  NewProber(opts.MinImageSize, opts.RequestTimeout, log),
		limiter: ratelimit.NewSlidingWindow(cdnRequestsPerSecond, time.Second),
		logger:  log.WithField("component", "cleaner"),
	}
}

// Run cleans every quarter CSV in the input directory and writes the
// cleaned files, the per-row cleaning log and the aggregate stats file.
func (c *Cleaner) Run(ctx context.Context) (*Stats, error) {
	files, err := c.inputFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no quarter CSV files found in %s", c.opts.InputDir)
	}

	if err := os.MkdirAll(c.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	c.logger.InfoWithFields("Starting cleaning run", map[string]interface{}{
		"files":          len(files),
		"workers":        c.opts.Workers,
		"min_image_size": c.opts.MinImageSize,
	})

	stats := &Stats{}
	var entries []LogEntry

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		fileEntries, err := c.processFile(ctx, file, stats)
		if err != nil {
			return stats, fmt.Errorf("failed to clean %s: %w", filepath.Base(file), err)
		}
		entries = append(entries, fileEntries...)
		stats.FilesProcessed++
	}

	if err := c.writeLog(entries); err != nil {
		return stats, err
	}
	if err := c.writeStats(stats); err != nil {
		return stats, err
	}

	c.logger.InfoWithFields("Cleaning run finished", map[string]interface{}{
		"files":   stats.FilesProcessed,
		"scanned": stats.TotalScanned,
		"kept":    stats.Kept,
	})

	return stats, nil
}

// inputFiles lists the quarter CSVs to clean, skipping earlier cleaning and
// merge artifacts so reruns do not feed on their own output.
func (c *Cleaner) inputFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(c.opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		if strings.HasPrefix(name, CleanedPrefix) ||
			name == LogFileName || name == StatsFileName ||
			name == "merged_issues.csv" {
			continue
		}
		files = append(files, filepath.Join(c.opts.InputDir, name))
	}

	sort.Strings(files)
	return files, nil
}

// processFile runs the three rules over one quarter CSV. Text rules are
// checked inline; surviving rows go through the probe pool for the image
// rule. Results are keyed by row index so output order matches input order.
func (c *Cleaner) processFile(ctx context.Context, path string, stats *Stats) ([]LogEntry, error) {
	name := filepath.Base(path)

	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	c.logger.InfoWithFields("Cleaning file", map[string]interface{}{
		"file": name,
		"rows": len(rows),
	})

	cols := columnIndex(header)

	outcomes := make([]string, len(rows))
	var jobs []ProbeJob
	for i, row := range rows {
		title := field(row, cols, "title")
		body := field(row, cols, "body")
		labels := field(row, cols, "labels")
		combined := title + " " + body + " " + labels

		switch {
		case !ContainsBugKeyword(combined):
			outcomes[i] = RemovedBugKeyword
		case !ContainsSearchTerm(combined):
			outcomes[i] = RemovedSearchTerm
		default:
			jobs = append(jobs, ProbeJob{
				RowIndex: i,
				IssueID:  field(row, cols, "issue_id"),
				CSVFile:  name,
				URLs:     splitURLs(field(row, cols, "image_urls")),
			})
		}
	}

	valid := c.probeImages(jobs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var kept [][]string
	entries := make([]LogEntry, 0, len(rows))
	for i, row := range rows {
		outcome := outcomes[i]
		if outcome == "" {
			if valid[i] {
				outcome = Kept
			} else {
				outcome = RemovedImage
			}
		}

		stats.TotalScanned++
		switch outcome {
		case RemovedBugKeyword:
			stats.RemovedBugKeyword++
		case RemovedSearchTerm:
			stats.RemovedSearchTerm++
		case RemovedImage:
			stats.RemovedImage++
		case Kept:
			stats.Kept++
			kept = append(kept, row)
		}

		entries = append(entries, LogEntry{
			IssueID:   field(row, cols, "issue_id"),
			CSVFile:   name,
			RemovedBy: outcome,
			Title:     field(row, cols, "title"),
		})
	}

	c.logger.InfoWithFields("File cleaned", map[string]interface{}{
		"file":    name,
		"scanned": len(rows),
		"kept":    len(kept),
	})

	if len(kept) == 0 {
		c.logger.WarnWithFields("No rows survived cleaning", map[string]interface{}{
			"file": name,
		})
		return entries, nil
	}

	outPath := filepath.Join(c.opts.OutputDir, CleanedPrefix+name)
	if err := writeCleaned(outPath, header, kept); err != nil {
		return nil, err
	}

	return entries, nil
}

// probeImages runs the image rule for the given jobs through the worker
// pool and returns validity keyed by row index.
func (c *Cleaner) probeImages(jobs []ProbeJob) map[int]bool {
	valid := make(map[int]bool, len(jobs))
	if len(jobs) == 0 {
		return valid
	}

	pool := NewWorkerPool(c.opts.Workers, c.prober, c.limiter, c.logger)
	pool.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range pool.Results() {
			valid[result.Job.RowIndex] = result.Valid
		}
	}()

	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			break
		}
	}

	pool.Stop()
	<-done

	return valid
}

func (c *Cleaner) writeLog(entries []LogEntry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"issue_id", "csv_file", "removed_by", "title"})
	for _, e := range entries {
		rows = append(rows, []string{e.IssueID, e.CSVFile, e.RemovedBy, e.Title})
	}
	return writeCSVFile(filepath.Join(c.opts.OutputDir, LogFileName), rows)
}

func (c *Cleaner) writeStats(stats *Stats) error {
	rows := [][]string{
		{"total_scanned", "kept", "removed_bug_keyword", "removed_search_term", "removed_image"},
		{
			strconv.Itoa(stats.TotalScanned),
			strconv.Itoa(stats.Kept),
			strconv.Itoa(stats.RemovedBugKeyword),
			strconv.Itoa(stats.RemovedSearchTerm),
			strconv.Itoa(stats.RemovedImage),
		},
	}
	return writeCSVFile(filepath.Join(c.opts.OutputDir, StatsFileName), rows)
}

// readCSV returns the header row and data rows. Field counts are not
// enforced so hand-edited files still parse.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV has no header row")
	}

	return records[0], records[1:], nil
}

// writeCleaned writes surviving rows without the body column. The body is
// the bulkiest field and has served its purpose once filtering is done.
func writeCleaned(path string, header []string, rows [][]string) error {
	bodyCol := -1
	for i, name := range header {
		if name == "body" {
			bodyCol = i
			break
		}
	}

	out := make([][]string, 0, len(rows)+1)
	out = append(out, dropColumn(header, bodyCol))
	for _, row := range rows {
		out = append(out, dropColumn(row, bodyCol))
	}

	return writeCSVFile(path, out)
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

func splitURLs(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

func dropColumn(fields []string, col int) []string {
	if col < 0 || col >= len(fields) {
		return append([]string(nil), fields...)
	}
	out := make([]string, 0, len(fields)-1)
	out = append(out, fields[:col]...)
	out = append(out, fields[col+1:]...)
	return out
}
