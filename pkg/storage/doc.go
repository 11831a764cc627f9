// Package storage persists quarter artifacts for the issue crawler.
//
// The storage package handles:
//   - Creating and managing the output directory
//   - Writing per-quarter CSV and JSON artifacts atomically
//   - Detecting quarters that already have output on disk
//   - Thread-safe file operations
//
// The Manager type is the primary interface. Every write goes through a
// temporary file and rename, and within a quarter the JSON report is renamed
// after the CSV, so a JSON file on disk always means the quarter finished.
// On startup the manager scans the output directory, which lets a resumed
// campaign skip quarters it has already produced.
//
// Usage:
//
//	manager, err := storage.NewManager("output", "l10n_i18n_issues_{year}_Q{quarter}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !manager.HasQuarter(2021, 1) {
//	    err = manager.SaveQuarter(2021, 1, report)
//	    if err != nil {
//	        log.Printf("Failed to save quarter: %v", err)
//	    }
//	}
package storage
