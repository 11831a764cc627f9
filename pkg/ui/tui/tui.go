package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI represents the terminal user interface
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a new TUI instance for a campaign of the given size
func NewTUI(totalQuarters int) *TUI {
	model := NewModel(totalQuarters)
	program := tea.NewProgram(&model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Start starts the TUI
func (t *TUI) Start() error {
	go func() {
		// Send initial tick to start the spinner
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// StartQuarter notifies the TUI that a quarter crawl has started
func (t *TUI) StartQuarter(year, quarter int) {
	t.Send(SendQuarterStart(year, quarter))
}

// UpdateWindowProgress advances the window sweep within a quarter
func (t *TUI) UpdateWindowProgress(year, quarter, done, total int) {
	t.Send(SendWindowProgress(year, quarter, done, total))
}

// CompleteQuarter notifies the TUI that a quarter has been saved
func (t *TUI) CompleteQuarter(year, quarter, collected, saved int) {
	t.Send(SendQuarterComplete(year, quarter, collected, saved))
}

// UpdateThrottle notifies the TUI of a rate limit cooldown
func (t *TUI) UpdateThrottle(term string, page int, resumeAt time.Time) {
	t.Send(SendThrottle(term, page, resumeAt))
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.Send(SendLog(level, message))
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

// LogSuccess logs a success message
func (t *TUI) LogSuccess(format string, args ...interface{}) {
	t.Log("SUCCESS", format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}

// IsPaused returns whether the harvest is paused
func (t *TUI) IsPaused() bool {
	t.model.mu.RLock()
	defer t.model.mu.RUnlock()
	return t.model.isPaused
}
