package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"l10nminer/pkg/metadata"
)

// StatusTracker accumulates campaign-wide totals across quarters
type StatusTracker struct {
	mu             sync.Mutex
	QuartersDone   int
	TotalCollected int
	TotalSaved     int
	StartTime      time.Time
	bugTypeCounts  map[string]int
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime:     time.Now(),
		bugTypeCounts: make(map[string]int),
	}
}

// RecordQuarter folds one finished quarter into the totals
func (st *StatusTracker) RecordQuarter(year, quarter, collected, saved int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.QuartersDone++
	st.TotalCollected += collected
	st.TotalSaved += saved
}

// AddBugTypes folds a quarter's bug type counts into the running totals
func (st *StatusTracker) AddBugTypes(counts map[string]int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for name, count := range counts {
		st.bugTypeCounts[name] += count
	}
}

// SetTotals seeds the totals from a checkpoint (used for resuming)
func (st *StatusTracker) SetTotals(collected, saved int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.TotalCollected = collected
	st.TotalSaved = saved
}

// GetQuarterCount returns the number of quarters finished this run
func (st *StatusTracker) GetQuarterCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.QuartersDone
}

// GetCollectedCount returns the total number of unique issues collected
func (st *StatusTracker) GetCollectedCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.TotalCollected
}

// GetSavedCount returns the total number of issues saved to artifacts
func (st *StatusTracker) GetSavedCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.TotalSaved
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetHarvestRate returns the average harvest rate (saved issues per minute)
func (st *StatusTracker) GetHarvestRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.GetSavedCount()) / elapsed
}

// BugTypeCounts returns a copy of the accumulated bug type counts
func (st *StatusTracker) BugTypeCounts() map[string]int {
	st.mu.Lock()
	defer st.mu.Unlock()
	counts := make(map[string]int, len(st.bugTypeCounts))
	for name, count := range st.bugTypeCounts {
		counts[name] = count
	}
	return counts
}

// PrintSummary renders the campaign totals and the bug type breakdown as
// tables
func (st *StatusTracker) PrintSummary() {
	if IsQuietMode() {
		return
	}

	totals := table.NewWriter()
	totals.SetOutputMirror(os.Stdout)
	totals.SetStyle(table.StyleLight)
	totals.AppendHeader(table.Row{"Quarters", "Collected", "Saved", "Elapsed"})
	totals.AppendRow(table.Row{
		st.GetQuarterCount(),
		st.GetCollectedCount(),
		st.GetSavedCount(),
		st.GetElapsedTime().Round(time.Second),
	})
	totals.Render()

	counts := metadata.Counts{BugTypeCounts: st.BugTypeCounts()}
	top := counts.Top(10)
	if len(top) == 0 {
		return
	}

	fmt.Println()
	breakdown := table.NewWriter()
	breakdown.SetOutputMirror(os.Stdout)
	breakdown.SetStyle(table.StyleLight)
	breakdown.AppendHeader(table.Row{"Bug Type", "Issues"})
	for _, bc := range top {
		breakdown.AppendRow(table.Row{bc.Name, bc.Count})
	}
	breakdown.Render()
}
