// Package ui provides terminal UI components for the issue harvester
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintLogo()                                    // Print ASCII logo
ui.PrintInfo("Output directory", "output")       // Cyan label, yellow value
ui.PrintSuccess("Harvest complete!")             // Green success message
ui.PrintError("Crawl failed", err)               // Red error message
ui.PrintWarning("Rate limit approaching")        // Yellow warning message
ui.PrintHighlight("[STARTING HARVEST]")          // Magenta highlight message
ui.SetQuietMode(true)                            // Silence decorative output

// Campaign totals
tracker := ui.NewStatusTracker()
tracker.RecordQuarter(2021, 1, 120, 37)          // Fold in one quarter
tracker.AddBugTypes(map[string]int{"truncation": 12})
tracker.PrintSummary()                           // Render totals + bug type tables

// Per-quarter progress line
display := ui.NewProgressDisplay("2015-2025", 44, false)
display.StartQuarter(2025, 1)
display.WindowTick(1, 3)
display.CompleteQuarter(2025, 1, 120, 37)
display.Complete()

// Notifications (cross-platform, gated by config)
notifier := ui.NewNotifier(&cfg.Notifications)
notifier.SendSuccess("HARVEST COMPLETE", "1,204 issues saved across 44 quarters")
notifier.SendError("HARVEST FAILED", "context deadline exceeded")
notifier.SendThrottle("RATE LIMIT", "Cooling down 1m0s before retrying \"i18n\" page 2")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Campaign"), ui.Yellow("2015-2025"))
fmt.Println(ui.Green("✓ Saved"))
fmt.Println(ui.Red("✗ Failed"))
*/
