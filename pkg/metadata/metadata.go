package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"l10nminer/pkg/models"
)

const (
	// ScriptVersion is recorded in every report's search_setup
	ScriptVersion = "v3"

	// SearchTypeDateBased identifies the windowed crawl strategy
	SearchTypeDateBased = "date-based"

	// FetchedAtLayout is local ISO-8601 with seconds precision and offset,
	// e.g. 2021-03-15T18:22:33+02:00
	FetchedAtLayout = "2006-01-02T15:04:05-07:00"
)

// Report is the JSON artifact for one crawled quarter
type Report struct {
	Summary Summary         `json:"summary"`
	Issues  []models.Record `json:"issues"`
}

// Summary describes how and when a quarter was crawled
type Summary struct {
	FetchedAt   string      `json:"fetched_at"`
	Counts      Counts      `json:"counts"`
	SearchSetup SearchSetup `json:"search_setup"`
}

// Counts carries the quarter's collection statistics. TotalCollected is the
// dedup count before the image post-filter; TotalSaved is what survived it.
type Counts struct {
	TotalCollected int            `json:"total_collected"`
	TotalSaved     int            `json:"total_saved"`
	BugTypeCounts  map[string]int `json:"bugtype_counts"`
}

// SearchSetup records the crawl parameters so a report is reproducible
type SearchSetup struct {
	Script           string   `json:"script"`
	SearchType       string   `json:"search_type"`
	SearchTerms      []string `json:"search_terms"`
	DateIntervalDays int      `json:"date_interval_days"`
}

// BugTypeCount is one taxonomy category with its occurrence count
type BugTypeCount struct {
	Name  string
	Count int
}

// NewReport assembles the artifact document for one quarter. The records are
// the post-filter survivors; totalCollected is the pre-filter dedup count.
// An empty quarter still encodes issues as [], never null.
func NewReport(records []models.Record, totalCollected int, searchTerms []string, intervalDays int) *Report {
	if records == nil {
		records = []models.Record{}
	}
	for i := range records {
		records[i].Normalize()
	}

	return &Report{
		Summary: Summary{
			FetchedAt: time.Now().Format(FetchedAtLayout),
			Counts: Counts{
				TotalCollected: totalCollected,
				TotalSaved:     len(records),
				BugTypeCounts:  CountBugTypes(records),
			},
			SearchSetup: SearchSetup{
				Script:           ScriptVersion,
				SearchType:       SearchTypeDateBased,
				SearchTerms:      searchTerms,
				DateIntervalDays: intervalDays,
			},
		},
		Issues: records,
	}
}

// CountBugTypes tallies taxonomy categories across records. Every record
// contributes each of its categories once.
func CountBugTypes(records []models.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		for _, bt := range r.BugTypes {
			counts[bt]++
		}
	}
	return counts
}

// Top returns the n most frequent bug types, ties broken by name so the
// order is stable across runs
func (c Counts) Top(n int) []BugTypeCount {
	ranked := make([]BugTypeCount, 0, len(c.BugTypeCounts))
	for name, count := range c.BugTypeCounts {
		ranked = append(ranked, BugTypeCount{Name: name, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// FetchedTime parses the summary's fetched_at timestamp
func (s *Summary) FetchedTime() (time.Time, error) {
	return time.Parse(FetchedAtLayout, s.FetchedAt)
}

// Encode renders the report as indented JSON, the artifact's on-disk form
func (r *Report) Encode() ([]byte, error) {
	if r.Issues == nil {
		r.Issues = []models.Record{}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// Save writes the report to a JSON file. The quarter artifact path comes
// from the storage layer; Save itself is not atomic, the storage writer
// wraps it with a tmp+rename when persisting crawl output.
func (r *Report) Save(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// Load reads a quarter report from a JSON file
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}
