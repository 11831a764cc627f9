package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"l10nminer/pkg/metadata"
	"l10nminer/pkg/models"
)

func testReport() *metadata.Report {
	records := []models.Record{
		{
			IssueID:      42,
			RepoFull:     "acme/webapp",
			Repo:         "webapp",
			Title:        "Truncated label, see screenshot",
			Body:         "German string overflows the button",
			URL:          "https://github.com/acme/webapp/issues/42",
			Labels:       []string{"bug", "i18n"},
			ImageURLs:    []string{"https://example.com/a.png", "https://example.com/b.png"},
			BugTypes:     []string{"truncation"},
			MatchedTerms: []string{"i18n"},
			CreatedAt:    "2021-02-10T08:30:00Z",
		},
	}
	return metadata.NewReport(records, 3, []string{"i18n", "l10n"}, 30)
}

func TestManager(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir, "l10n_i18n_issues_{year}_Q{quarter}")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Initial state
	if manager.GetQuarterCount() != 0 {
		t.Error("Expected initial quarter count to be 0")
	}
	if manager.HasQuarter(2021, 1) {
		t.Error("Expected HasQuarter to return false before any write")
	}

	// Path expansion
	if got := manager.ArtifactBase(2021, 1); got != "l10n_i18n_issues_2021_Q1" {
		t.Errorf("ArtifactBase = %q", got)
	}
	if got := manager.CSVPath(2021, 1); got != filepath.Join(tempDir, "l10n_i18n_issues_2021_Q1.csv") {
		t.Errorf("CSVPath = %q", got)
	}
	if got := manager.JSONPath(2021, 1); got != filepath.Join(tempDir, "l10n_i18n_issues_2021_Q1.json") {
		t.Errorf("JSONPath = %q", got)
	}

	// Save a quarter
	if err := manager.SaveQuarter(2021, 1, testReport()); err != nil {
		t.Fatalf("Failed to save quarter: %v", err)
	}

	for _, path := range []string{manager.CSVPath(2021, 1), manager.JSONPath(2021, 1)} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Expected artifact %s to exist", path)
		}
	}
	if _, err := os.Stat(manager.JSONPath(2021, 1) + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be gone after rename")
	}

	if !manager.HasQuarter(2021, 1) {
		t.Error("Expected HasQuarter to return true after save")
	}
	if manager.GetQuarterCount() != 1 {
		t.Errorf("Expected quarter count 1, got %d", manager.GetQuarterCount())
	}

	// A fresh manager over the same directory detects the artifact
	manager2, err := NewManager(tempDir, "l10n_i18n_issues_{year}_Q{quarter}")
	if err != nil {
		t.Fatalf("Failed to create second manager: %v", err)
	}
	if !manager2.HasQuarter(2021, 1) {
		t.Error("Expected existing report to be detected by scan")
	}
	if manager2.HasQuarter(2021, 2) {
		t.Error("Expected unwritten quarter to be absent")
	}
}

func TestSaveQuarterCSVContent(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir, "l10n_i18n_issues_{year}_Q{quarter}")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SaveQuarter(2021, 1, testReport()); err != nil {
		t.Fatalf("Failed to save quarter: %v", err)
	}

	f, err := os.Open(manager.CSVPath(2021, 1))
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 row, got %d rows", len(rows))
	}

	header := rows[0]
	wantHeader := models.CSVHeader()
	for i := range wantHeader {
		if header[i] != wantHeader[i] {
			t.Errorf("Header column %d = %q, want %q", i, header[i], wantHeader[i])
		}
	}

	row := rows[1]
	if row[0] != "42" {
		t.Errorf("issue_id column = %q", row[0])
	}
	// CSV puts body before url
	if row[4] != "German string overflows the button" {
		t.Errorf("body column = %q", row[4])
	}
	if row[5] != "https://github.com/acme/webapp/issues/42" {
		t.Errorf("url column = %q", row[5])
	}
	if row[7] != "https://example.com/a.png, https://example.com/b.png" {
		t.Errorf("image_urls column = %q", row[7])
	}
}

func TestSaveQuarterEmptyStillWritesHeader(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir, "l10n_i18n_issues_{year}_Q{quarter}")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	report := metadata.NewReport(nil, 0, []string{"i18n"}, 30)
	if err := manager.SaveQuarter(2020, 4, report); err != nil {
		t.Fatalf("Failed to save empty quarter: %v", err)
	}

	content, err := os.ReadFile(manager.CSVPath(2020, 4))
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if !strings.HasPrefix(string(content), "issue_id,repo_full,repo,title,body,url") {
		t.Errorf("Expected header row, got %q", string(content))
	}

	jsonContent, err := os.ReadFile(manager.JSONPath(2020, 4))
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}
	if !strings.Contains(string(jsonContent), `"issues": []`) {
		t.Error("Expected empty issues array in report")
	}
}

func TestCSVFiles(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir, "l10n_i18n_issues_{year}_Q{quarter}")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SaveQuarter(2021, 1, testReport()); err != nil {
		t.Fatalf("Failed to save quarter: %v", err)
	}
	if err := manager.SaveQuarter(2021, 2, testReport()); err != nil {
		t.Fatalf("Failed to save quarter: %v", err)
	}

	// Non-CSV noise should be ignored
	if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write noise file: %v", err)
	}

	files, err := manager.CSVFiles()
	if err != nil {
		t.Fatalf("CSVFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 CSV files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".csv" {
			t.Errorf("Unexpected non-CSV file %q", f)
		}
	}
}
