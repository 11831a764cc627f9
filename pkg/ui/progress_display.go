package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay provides a clean, minimal crawl progress display
type ProgressDisplay struct {
	mu             sync.Mutex
	campaign       string
	totalQuarters  int
	quartersDone   int
	currentQuarter string
	windowsDone    int
	windowsTotal   int
	savedCount     int
	collectedCount int
	startTime      time.Time
	lastUpdate     time.Time
	throttles      int
	isDebug        bool
}

// NewProgressDisplay creates a new progress display for a campaign span
// like "2015-2025"
func NewProgressDisplay(campaign string, totalQuarters int, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		campaign:      campaign,
		totalQuarters: totalQuarters,
		startTime:     time.Now(),
		lastUpdate:    time.Now(),
		isDebug:       debug,
	}
}

// StartQuarter marks the start of a quarter sweep
func (p *ProgressDisplay) StartQuarter(year, quarter int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.currentQuarter = fmt.Sprintf("%d Q%d", year, quarter)
	p.windowsDone = 0
	p.windowsTotal = 0
	p.lastUpdate = time.Now()

	if !p.isDebug {
		p.printProgress()
	} else {
		fmt.Printf("\n%s Sweeping %s...\n", Magenta("→"), p.currentQuarter)
	}
}

// WindowTick records one finished date window of the current quarter
func (p *ProgressDisplay) WindowTick(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.windowsDone = done
	p.windowsTotal = total
	p.lastUpdate = time.Now()

	if !p.isDebug {
		p.printProgress()
	}
}

// CompleteQuarter marks a quarter as persisted
func (p *ProgressDisplay) CompleteQuarter(year, quarter, collected, saved int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.quartersDone++
	p.collectedCount += collected
	p.savedCount += saved
	p.currentQuarter = ""
	p.lastUpdate = time.Now()

	if !p.isDebug {
		p.printProgress()
	} else {
		fmt.Printf("\n%s %d Q%d • %d collected • %d saved\n",
			Green("✓"), year, quarter, collected, saved)
	}
}

// printProgress prints the minimal progress line
func (p *ProgressDisplay) printProgress() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.savedCount) / elapsed.Minutes()
	eta := p.calculateETA()

	// Build progress bar over quarters
	barWidth := 20
	filled := 0
	if p.totalQuarters > 0 {
		filled = int(float64(p.quartersDone) / float64(p.totalQuarters) * float64(barWidth))
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("\r%s [%s] %d/%d quarters • %d saved • %.1f/min • %s",
		Cyan(p.campaign),
		bar,
		p.quartersDone,
		p.totalQuarters,
		p.savedCount,
		rate,
		eta,
	)

	if p.currentQuarter != "" {
		line += fmt.Sprintf(" • %s", p.currentQuarter)
		if p.windowsTotal > 0 {
			line += fmt.Sprintf(" %d/%d", p.windowsDone, p.windowsTotal)
		}
	}

	if p.throttles > 0 {
		line += fmt.Sprintf(" • %s", Yellow(fmt.Sprintf("%d throttles", p.throttles)))
	}

	// Clear line and print
	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 120), line)
}

// Complete marks the entire campaign as complete
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Printf("\n\n%s Harvested %d illustrated issues across %d quarters (%s)\n",
		Green("✓"),
		p.savedCount,
		p.quartersDone,
		p.campaign,
	)

	fmt.Printf("  %s %d collected in %s (%.1f saved/min)\n",
		Dim("•"),
		p.collectedCount,
		p.formatDuration(elapsed),
		float64(p.savedCount)/elapsed.Minutes(),
	)

	if p.throttles > 0 {
		fmt.Printf("  %s %d throttle cooldowns served\n",
			Dim("•"),
			p.throttles,
		)
	}
}

// calculateETA estimates time remaining
func (p *ProgressDisplay) calculateETA() string {
	if p.quartersDone == 0 {
		return "calculating..."
	}

	remaining := p.totalQuarters - p.quartersDone
	elapsed := time.Since(p.startTime)
	rate := float64(p.quartersDone) / elapsed.Seconds()

	if rate == 0 {
		return "calculating..."
	}

	etaSeconds := float64(remaining) / rate
	eta := time.Duration(etaSeconds) * time.Second

	return p.formatDuration(eta)
}

// formatDuration formats a duration in a human-readable way
func (p *ProgressDisplay) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// ThrottleWarning shows a throttle cooldown notice
func (p *ProgressDisplay) ThrottleWarning(term string, page int, waitTime time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.throttles++
	fmt.Printf("\n%s Rate limit hit on %q page %d. Waiting %s...\n",
		Yellow("⚠"),
		term,
		page,
		p.formatDuration(waitTime),
	)
}

// SkippedQuarter notes a quarter satisfied from the checkpoint
func (p *ProgressDisplay) SkippedQuarter(year, quarter int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.quartersDone++
	if p.isDebug {
		fmt.Printf("\n%s Skipping %d Q%d (already done)\n", Dim("→"), year, quarter)
	} else {
		p.printProgress()
	}
}

// UpdateTotal updates the planned quarter count
func (p *ProgressDisplay) UpdateTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalQuarters = total
}

// SetCompletedCount seeds the finished quarter count (for resume)
func (p *ProgressDisplay) SetCompletedCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.quartersDone = count
}
