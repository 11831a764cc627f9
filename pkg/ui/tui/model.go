package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// QuarterState represents the state of a quarter crawl
type QuarterState int

const (
	QuarterActive QuarterState = iota
	QuarterCompleted
)

// QuarterItem represents a single quarter being harvested
type QuarterItem struct {
	Year         int
	Quarter      int
	WindowsDone  int
	WindowsTotal int
	Collected    int
	Saved        int
	State        QuarterState
	StartTime    time.Time
}

// Model represents the TUI model
type Model struct {
	// UI components
	spinner   spinner.Model
	windowBar progress.Model

	// Quarter state
	quarters      map[string]*QuarterItem
	quarterOrder  []string
	totalQuarters int
	quartersDone  int

	// Stats
	totalCollected   int
	totalSaved       int
	sessionStartTime time.Time

	// Throttling
	throttleTerm     string
	throttlePage     int
	throttleResumeAt time.Time
	throttleCooldown time.Duration
	throttleCount    int

	// UI state
	width          int
	height         int
	showHelp       bool
	isPaused       bool
	logMessages    []LogMessage
	maxLogMessages int

	// Mutex for thread safety
	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new TUI model
func NewModel(totalQuarters int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		spinner:          s,
		windowBar:        bar,
		quarters:         make(map[string]*QuarterItem),
		quarterOrder:     []string{},
		totalQuarters:    totalQuarters,
		sessionStartTime: time.Now(),
		logMessages:      []LogMessage{},
		maxLogMessages:   50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// StartQuarter marks a quarter as active
func (m *Model) StartQuarter(year, quarter int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := QuarterLabel(year, quarter)
	if _, ok := m.quarters[key]; !ok {
		m.quarterOrder = append(m.quarterOrder, key)
	}
	m.quarters[key] = &QuarterItem{
		Year:      year,
		Quarter:   quarter,
		State:     QuarterActive,
		StartTime: time.Now(),
	}
}

// UpdateWindowProgress updates the window sweep progress of a quarter
func (m *Model) UpdateWindowProgress(year, quarter, done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item, ok := m.quarters[QuarterLabel(year, quarter)]; ok {
		item.WindowsDone = done
		item.WindowsTotal = total
	}
}

// CompleteQuarter marks a quarter as completed
func (m *Model) CompleteQuarter(year, quarter, collected, saved int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item, ok := m.quarters[QuarterLabel(year, quarter)]; ok {
		item.State = QuarterCompleted
		item.Collected = collected
		item.Saved = saved
		item.WindowsDone = item.WindowsTotal
		m.quartersDone++
		m.totalCollected += collected
		m.totalSaved += saved
	}
}

// RecordThrottle records a rate limit cooldown
func (m *Model) RecordThrottle(term string, page int, resumeAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.throttleTerm = term
	m.throttlePage = page
	m.throttleResumeAt = resumeAt
	m.throttleCooldown = time.Until(resumeAt)
	m.throttleCount++
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = lipgloss.Color("#FF0000")
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// GetActiveQuarter returns the quarter currently being crawled, or nil
func (m *Model) GetActiveQuarter() *QuarterItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, key := range m.quarterOrder {
		if item := m.quarters[key]; item != nil && item.State == QuarterActive {
			return item
		}
	}
	return nil
}

// GetCompletedQuarters returns completed quarters in crawl order
func (m *Model) GetCompletedQuarters() []*QuarterItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var completed []*QuarterItem
	for _, key := range m.quarterOrder {
		if item := m.quarters[key]; item != nil && item.State == QuarterCompleted {
			completed = append(completed, item)
		}
	}
	return completed
}

// GetHarvestStats returns the save rate and an ETA for the campaign
func (m *Model) GetHarvestStats() (rate float64, eta time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elapsed := time.Since(m.sessionStartTime)
	if m.totalSaved > 0 && elapsed > 0 {
		rate = float64(m.totalSaved) / elapsed.Minutes()
	}

	remaining := m.totalQuarters - m.quartersDone
	if m.quartersDone > 0 && remaining > 0 {
		avgQuarterTime := elapsed / time.Duration(m.quartersDone)
		eta = avgQuarterTime * time.Duration(remaining)
	}

	return
}

// QuarterLabel formats a year and quarter as a display key
func QuarterLabel(year, quarter int) string {
	return fmt.Sprintf("%d-Q%d", year, quarter)
}

// FormatRate formats a per-minute harvest rate
func FormatRate(perMinute float64) string {
	if perMinute <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f issues/min", perMinute)
}
