package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"l10nminer/pkg/metadata"
	"l10nminer/pkg/models"
)

// Manager handles quarter artifact files and knows which quarters already
// have output on disk
type Manager struct {
	outputDir   string
	filePattern string
	written     map[string]bool
	mu          sync.RWMutex
}

// NewManager creates a storage manager rooted at outputDir. The file pattern
// names quarter artifacts and expands {year} and {quarter}, e.g.
// "l10n_i18n_issues_{year}_Q{quarter}".
func NewManager(outputDir, filePattern string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:   outputDir,
		filePattern: filePattern,
		written:     make(map[string]bool),
	}

	if err := manager.scanExistingArtifacts(); err != nil {
		return nil, fmt.Errorf("failed to scan existing artifacts: %w", err)
	}

	return manager, nil
}

// scanExistingArtifacts records the quarter reports already present in the
// output directory. A quarter counts as written once its JSON report exists;
// the JSON is renamed last during SaveQuarter.
func (m *Manager) scanExistingArtifacts() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".json")
		m.written[base] = true
	}

	return nil
}

// ArtifactBase expands the file pattern for one quarter, without extension
func (m *Manager) ArtifactBase(year, quarter int) string {
	base := strings.ReplaceAll(m.filePattern, "{year}", strconv.Itoa(year))
	return strings.ReplaceAll(base, "{quarter}", strconv.Itoa(quarter))
}

// CSVPath returns the CSV artifact path for a quarter
func (m *Manager) CSVPath(year, quarter int) string {
	return filepath.Join(m.outputDir, m.ArtifactBase(year, quarter)+".csv")
}

// JSONPath returns the JSON report path for a quarter
func (m *Manager) JSONPath(year, quarter int) string {
	return filepath.Join(m.outputDir, m.ArtifactBase(year, quarter)+".json")
}

// HasQuarter checks whether a quarter's report already exists
func (m *Manager) HasQuarter(year, quarter int) bool {
	base := m.ArtifactBase(year, quarter)

	m.mu.RLock()
	cached := m.written[base]
	m.mu.RUnlock()
	if cached {
		return true
	}

	if _, err := os.Stat(m.JSONPath(year, quarter)); err == nil {
		m.mu.Lock()
		m.written[base] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// SaveQuarter persists one quarter's CSV and JSON artifacts. Both writes go
// through a temporary file and rename; the JSON report lands last, so its
// presence marks the quarter complete.
func (m *Manager) SaveQuarter(year, quarter int, report *metadata.Report) error {
	if err := m.writeAtomic(m.CSVPath(year, quarter), func(w io.Writer) error {
		return writeCSV(w, report.Issues)
	}); err != nil {
		return fmt.Errorf("failed to write CSV artifact: %w", err)
	}

	if err := m.writeAtomic(m.JSONPath(year, quarter), func(w io.Writer) error {
		data, err := report.Encode()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}

	m.mu.Lock()
	m.written[m.ArtifactBase(year, quarter)] = true
	m.mu.Unlock()

	return nil
}

// writeAtomic writes a file through a temporary sibling and rename
func (m *Manager) writeAtomic(path string, write func(io.Writer) error) error {
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// writeCSV renders records in the artifact column order. The header row is
// always written, even for an empty quarter.
func writeCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.CSVHeader()); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(records[i].CSVRow()); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFiles lists the quarter CSV artifacts currently in the output directory
func (m *Manager) CSVFiles() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		files = append(files, filepath.Join(m.outputDir, entry.Name()))
	}

	return files, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetQuarterCount returns the number of quarters with a report on disk
func (m *Manager) GetQuarterCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.written)
}
