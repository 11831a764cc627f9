package tui_test

import (
	"fmt"
	"time"

	"l10nminer/pkg/ui/tui"
)

func ExampleTUI() {
	// Create a new TUI for a campaign of 8 quarters
	terminal := tui.NewTUI(8)

	// Start the TUI in a goroutine
	go func() {
		if err := terminal.Start(); err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
	}()

	// Simulate a harvest
	for year := 2022; year >= 2021; year-- {
		for quarter := 1; quarter <= 4; quarter++ {
			terminal.StartQuarter(year, quarter)

			// Simulate the window sweep
			for done := 1; done <= 3; done++ {
				time.Sleep(100 * time.Millisecond)
				terminal.UpdateWindowProgress(year, quarter, done, 3)
			}

			terminal.CompleteQuarter(year, quarter, 40, 12)
			time.Sleep(200 * time.Millisecond)
		}
	}

	// Report a rate limit cooldown
	terminal.UpdateThrottle("i18n", 2, time.Now().Add(time.Minute))

	// Add some logs
	terminal.LogInfo("Starting harvest session")
	terminal.LogWarning("Rate limit approaching")
	terminal.LogError("Failed to reach the search API")
	terminal.LogSuccess("Quarter saved successfully")

	// Keep running for demo
	time.Sleep(10 * time.Second)
	terminal.Stop()
}
