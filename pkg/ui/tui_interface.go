package ui

import "time"

// TUI is an interface for terminal user interfaces
type TUI interface {
	StartQuarter(year, quarter int)
	UpdateWindowProgress(year, quarter, done, total int)
	CompleteQuarter(year, quarter, collected, saved int)
	UpdateThrottle(term string, page int, resumeAt time.Time)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	IsPaused() bool
}
