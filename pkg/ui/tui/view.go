package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Build the UI layout
	var sections []string

	// Logo
	sections = append(sections, m.renderLogo())

	// Main content area with two columns
	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	// Help
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	// Join all sections vertically
	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderLogo renders the banner
func (m *Model) renderLogo() string {
	logo := `
╔══════════════════════════════════════════════════════════════╗
║ ██╗     ███╗ ██████╗ ███╗   ██╗███╗   ███╗██╗███╗   ██╗██████╗ ║
║ ██║    ████║██╔═████╗████╗  ██║████╗ ████║██║████╗  ██║██╔══██╗║
║ ██║    ╚██╔╝██║██╔██║██╔██╗ ██║██╔████╔██║██║██╔██╗ ██║██████╔╝║
║ ██║     ██║ ████╔╝██║██║╚██╗██║██║╚██╔╝██║██║██║╚██╗██║██╔══██╗║
║ ███████╗██║ ╚██████╔╝██║ ╚████║██║ ╚═╝ ██║██║██║ ╚████║██║  ██║║
║ ╚══════╝╚═╝  ╚═════╝ ╚═╝  ╚═══╝╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝║
║          LOCALIZATION BUG REPORT HARVESTER v3                  ║
╚══════════════════════════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

// renderLeftColumn renders the left side of the UI
func (m *Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Stats panel
	sections = append(sections, m.renderStatsPanel(width))

	// Current quarter panel
	sections = append(sections, m.renderCurrentQuarterPanel(width))

	// Completed quarters panel
	sections = append(sections, m.renderCompletedPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m *Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Throttle panel
	sections = append(sections, m.renderThrottlePanel(width))

	// Logs panel
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsPanel renders the statistics panel
func (m *Model) renderStatsPanel(width int) string {
	m.mu.RLock()
	elapsed := time.Since(m.sessionStartTime)
	done := m.quartersDone
	total := m.totalQuarters
	collected := m.totalCollected
	saved := m.totalSaved
	paused := m.isPaused
	m.mu.RUnlock()

	title := titleStyle.Render(" HARVEST STATS ")

	rate, eta := m.GetHarvestStats()

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Quarters:"), statsValueStyle.Render(fmt.Sprintf("%d/%d", done, total))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Issues Collected:"), statsValueStyle.Render(fmt.Sprintf("%d", collected))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Issues Saved:"), statsValueStyle.Render(fmt.Sprintf("%d", saved))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Harvest Rate:"), rateStyle.Render(FormatRate(rate))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"), statsValueStyle.Render(formatDuration(eta))),
	}

	if paused {
		stats = append(stats, warningStyle.Render("⏸  PAUSED"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderCurrentQuarterPanel renders the quarter being crawled
func (m *Model) renderCurrentQuarterPanel(width int) string {
	title := titleStyle.Render(" CURRENT QUARTER ")

	active := m.GetActiveQuarter()

	if active == nil {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("Waiting for next quarter...")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	header := fmt.Sprintf("%s %s", m.spinner.View(),
		queueItemActiveStyle.Render(QuarterLabel(active.Year, active.Quarter)))

	windows := fmt.Sprintf("%s %s",
		statsLabelStyle.Render("Windows:"),
		statsValueStyle.Render(fmt.Sprintf("%d/%d", active.WindowsDone, active.WindowsTotal)))

	frac := 0.0
	if active.WindowsTotal > 0 {
		frac = float64(active.WindowsDone) / float64(active.WindowsTotal)
	}
	if frac > 1.0 {
		frac = 1.0
	}

	bar := m.windowBar
	bar.Width = width - 8
	content := lipgloss.JoinVertical(lipgloss.Left, header, windows, bar.ViewAs(frac))

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderCompletedPanel renders the quarters harvested so far
func (m *Model) renderCompletedPanel(width int) string {
	title := titleStyle.Render(" COMPLETED QUARTERS ")

	m.mu.RLock()
	remaining := m.totalQuarters - m.quartersDone
	m.mu.RUnlock()

	completed := m.GetCompletedQuarters()

	var items []string

	if remaining > 0 {
		items = append(items, warningStyle.Render(fmt.Sprintf("⏳ %d quarters remaining", remaining)))
	}

	completedCount := len(completed)
	if completedCount > 0 {
		items = append(items, "", successStyle.Render(fmt.Sprintf("✓ %d completed", completedCount)))
		start := completedCount - 5
		if start < 0 {
			start = 0
		}
		for i := start; i < completedCount; i++ {
			item := completed[i]
			items = append(items, queueItemCompletedStyle.Render(
				fmt.Sprintf("✓ %s: %d saved", QuarterLabel(item.Year, item.Quarter), item.Saved)))
		}
	}

	if len(items) == 0 {
		items = append(items, lipgloss.NewStyle().Foreground(dimWhite).Render("Nothing harvested yet"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderThrottlePanel renders the rate limit status
func (m *Model) renderThrottlePanel(width int) string {
	m.mu.RLock()
	term := m.throttleTerm
	page := m.throttlePage
	resumeAt := m.throttleResumeAt
	cooldown := m.throttleCooldown
	count := m.throttleCount
	m.mu.RUnlock()

	title := titleStyle.Render(" RATE LIMIT STATUS ")

	if count == 0 {
		content := successStyle.Render("No throttling so far")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	remaining := time.Until(resumeAt)
	if remaining < 0 {
		remaining = 0
	}

	percent := 0.0
	if cooldown > 0 {
		percent = float64(remaining) / float64(cooldown) * 100
	}

	// Countdown bar drains as the cooldown elapses
	barWidth := width - 8
	filled := int(percent * float64(barWidth) / 100)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	barStyle := GetThrottleStyle(percent)
	bar := barStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", empty))

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Last hit:"),
			statsValueStyle.Render(fmt.Sprintf("%q page %d", term, page))),
		bar,
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Resume in:"),
			barStyle.Render(formatDuration(remaining))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Total throttles:"),
			statsValueStyle.Render(fmt.Sprintf("%d", count))),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SYSTEM LOGS ")

	// Get recent logs
	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := logMessageStyle.Render(log.Message)

		// Truncate message if too long
		maxMsgLen := width - 25
		if len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	// Calculate height for logs panel to fill remaining space
	logsHeight := m.height - 30
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit the application
    p/P      - Pause/Resume the harvest
    ?        - Toggle this help
    ctrl+l   - Clear the log panel

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Active/Healthy
    ` + warningStyle.Render("Orange") + `   - Warning/Throttled
    ` + errorStyle.Render("Red") + `      - Error/Critical

  Icons:
    ⏳       - Quarters remaining
    ✓        - Completed quarter
    ⏸        - Paused
    █        - Progress indicator
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
