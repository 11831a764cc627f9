package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// QuarterStartMsg is sent when a quarter crawl starts
type QuarterStartMsg struct {
	Year    int
	Quarter int
}

// WindowProgressMsg is sent as date windows complete within a quarter
type WindowProgressMsg struct {
	Year    int
	Quarter int
	Done    int
	Total   int
}

// QuarterCompleteMsg is sent when a quarter has been crawled and saved
type QuarterCompleteMsg struct {
	Year      int
	Quarter   int
	Collected int
	Saved     int
}

// ThrottleMsg is sent when the search API rate limits a request
type ThrottleMsg struct {
	Term     string
	Page     int
	ResumeAt time.Time
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// Regular UI update tick
		return m, tea.Batch(
			tickCmd(),
			m.spinner.Tick,
		)

	case QuarterStartMsg:
		m.StartQuarter(msg.Year, msg.Quarter)
		m.AddLogMessage("INFO", "Crawling "+QuarterLabel(msg.Year, msg.Quarter))
		return m, nil

	case WindowProgressMsg:
		m.UpdateWindowProgress(msg.Year, msg.Quarter, msg.Done, msg.Total)
		return m, nil

	case QuarterCompleteMsg:
		m.CompleteQuarter(msg.Year, msg.Quarter, msg.Collected, msg.Saved)
		m.AddLogMessage("SUCCESS", fmt.Sprintf("Completed %s: saved %d of %d collected",
			QuarterLabel(msg.Year, msg.Quarter), msg.Saved, msg.Collected))
		return m, nil

	case ThrottleMsg:
		m.RecordThrottle(msg.Term, msg.Page, msg.ResumeAt)
		m.AddLogMessage("WARN", fmt.Sprintf("Rate limit hit on %q page %d", msg.Term, msg.Page))
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "P":
		// IsPaused reads this from another goroutine, so flip it under the lock.
		m.mu.Lock()
		m.isPaused = !m.isPaused
		paused := m.isPaused
		m.mu.Unlock()
		if paused {
			m.AddLogMessage("WARN", "Harvest paused by user")
		} else {
			m.AddLogMessage("INFO", "Harvest resumed by user")
		}
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		// Clear logs
		m.mu.Lock()
		m.logMessages = []LogMessage{}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// Commands

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Helper functions for external use

// SendQuarterStart creates a message announcing a quarter crawl
func SendQuarterStart(year, quarter int) tea.Msg {
	return QuarterStartMsg{Year: year, Quarter: quarter}
}

// SendWindowProgress creates a message advancing the window sweep
func SendWindowProgress(year, quarter, done, total int) tea.Msg {
	return WindowProgressMsg{
		Year:    year,
		Quarter: quarter,
		Done:    done,
		Total:   total,
	}
}

// SendQuarterComplete creates a message when a quarter is saved
func SendQuarterComplete(year, quarter, collected, saved int) tea.Msg {
	return QuarterCompleteMsg{
		Year:      year,
		Quarter:   quarter,
		Collected: collected,
		Saved:     saved,
	}
}

// SendThrottle creates a message when the search API rate limits
func SendThrottle(term string, page int, resumeAt time.Time) tea.Msg {
	return ThrottleMsg{Term: term, Page: page, ResumeAt: resumeAt}
}

// SendLog creates a log message
func SendLog(level, message string) tea.Msg {
	return LogMsg{Level: level, Message: message}
}
