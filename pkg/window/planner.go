// Package window plans the date windows a quarter is crawled in. Search
// results are capped per query, so each quarter is split into short
// created-date ranges that are queried independently.
package window

import (
	"fmt"
	"time"
)

// Window is an inclusive date range used in a created: search qualifier.
// Both endpoints are UTC midnights.
type Window struct {
	Since time.Time
	Until time.Time
}

// Days returns the inclusive length of the window in days
func (w Window) Days() int {
	return int(w.Until.Sub(w.Since).Hours()/24) + 1
}

// Qualifier returns the window formatted for a created: search qualifier,
// e.g. "2021-01-31..2021-03-01"
func (w Window) Qualifier() string {
	return fmt.Sprintf("%s..%s", w.Since.Format("2006-01-02"), w.Until.Format("2006-01-02"))
}

func (w Window) String() string {
	return w.Qualifier()
}

// Planner splits quarters into date windows of at most intervalDays days
type Planner struct {
	intervalDays int
}

// NewPlanner creates a planner with the given maximum window length in days
func NewPlanner(intervalDays int) *Planner {
	return &Planner{intervalDays: intervalDays}
}

// Windows partitions the quarter into inclusive windows, newest first. Every
// day of the quarter belongs to exactly one window; all windows span
// intervalDays days except possibly the last (oldest), which is clipped to
// the quarter start.
func (p *Planner) Windows(year, quarter int) []Window {
	qStart := QuarterStart(year, quarter)
	qEnd := QuarterEnd(year, quarter)

	var windows []Window
	cur := qEnd
	for !cur.Before(qStart) {
		wStart := cur.AddDate(0, 0, -(p.intervalDays - 1))
		if wStart.Before(qStart) {
			wStart = qStart
		}
		windows = append(windows, Window{Since: wStart, Until: cur})
		cur = wStart.AddDate(0, 0, -1)
	}
	return windows
}

// quarterMonths maps a quarter to its first and last month
var quarterMonths = [4]struct{ first, last time.Month }{
	{time.January, time.March},
	{time.April, time.June},
	{time.July, time.September},
	{time.October, time.December},
}

// QuarterStart returns the first day of the quarter as a UTC midnight
func QuarterStart(year, quarter int) time.Time {
	return time.Date(year, quarterMonths[quarter-1].first, 1, 0, 0, 0, 0, time.UTC)
}

// QuarterEnd returns the last day of the quarter as a UTC midnight
func QuarterEnd(year, quarter int) time.Time {
	last := quarterMonths[quarter-1].last
	return time.Date(year, last, LastDayOfMonth(year, last), 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the number of days in the given month
func LastDayOfMonth(year int, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// IsLeapYear reports whether year is a Gregorian leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
