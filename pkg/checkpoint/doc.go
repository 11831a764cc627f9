// Package checkpoint provides functionality for saving and resuming crawl
// campaigns.
//
// A campaign over a decade of quarters takes hours against a throttled
// search API, so the driver records every persisted quarter. After an
// interruption the campaign can resume and skip quarters whose artifacts
// were already written. The checkpoint tracks:
//   - The campaign parameters (year range, start quarter, window interval)
//   - Completed quarters
//   - Running collection totals
//
// Checkpoints are stored in platform-specific data directories:
//   - Linux: ~/.local/share/l10nminer/checkpoints/
//   - macOS: ~/Library/Application Support/l10nminer/checkpoints/
//   - Windows: %APPDATA%/l10nminer/checkpoints/
//
// The checkpoint files are saved atomically to prevent corruption and include
// versioning for future compatibility. A checkpoint only resumes a campaign
// with matching parameters; see Checkpoint.Matches.
package checkpoint
