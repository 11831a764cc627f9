package checkpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"l10nminer/pkg/logger"
)

// Checkpoint represents the state of a crawl campaign
type Checkpoint struct {
	CampaignID        string       `json:"campaign_id"`
	StartYear         int          `json:"start_year"`
	EndYear           int          `json:"end_year"`
	StartQuarter      int          `json:"start_quarter"`
	IntervalDays      int          `json:"interval_days"`
	CompletedQuarters []QuarterKey `json:"completed_quarters"`
	TotalCollected    int          `json:"total_collected"`
	TotalSaved        int          `json:"total_saved"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Version           int          `json:"version"`
}

// QuarterKey identifies one crawled quarter
type QuarterKey struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// Manager handles checkpoint operations for one campaign
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a checkpoint manager. The name keys the checkpoint
// file, so two campaigns with different names never clobber each other.
func NewManager(name string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	checkpointsDir := filepath.Join(dataDir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	checkpointPath := filepath.Join(checkpointsDir, fmt.Sprintf("%s.checkpoint.json", name))

	return &Manager{
		checkpointPath: checkpointPath,
		logger:         logger.GetLogger(),
	}, nil
}

// Create creates a new checkpoint for a campaign
func (m *Manager) Create(campaignID string, startYear, endYear, startQuarter, intervalDays int) (*Checkpoint, error) {
	checkpoint := &Checkpoint{
		CampaignID:        campaignID,
		StartYear:         startYear,
		EndYear:           endYear,
		StartQuarter:      startQuarter,
		IntervalDays:      intervalDays,
		CompletedQuarters: []QuarterKey{},
		TotalCollected:    0,
		TotalSaved:        0,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
		Version:           1,
	}

	if err := m.Save(checkpoint); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint created", map[string]interface{}{
		"campaign_id": campaignID,
		"path":        m.checkpointPath,
	})

	return checkpoint, nil
}

// Load loads an existing checkpoint. A missing file is not an error; it
// returns (nil, nil).
func (m *Manager) Load() (*Checkpoint, error) {
	file, err := os.Open(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"campaign_id":        checkpoint.CampaignID,
		"completed_quarters": len(checkpoint.CompletedQuarters),
		"total_saved":        checkpoint.TotalSaved,
		"updated_at":         checkpoint.UpdatedAt,
	})

	return &checkpoint, nil
}

// Save saves the checkpoint to disk atomically
func (m *Manager) Save(checkpoint *Checkpoint) error {
	checkpoint.UpdatedAt = time.Now()

	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	// Ensure data is written to disk
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"campaign_id":        checkpoint.CampaignID,
		"completed_quarters": len(checkpoint.CompletedQuarters),
	})

	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Info("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// MarkQuarterDone records a persisted quarter and folds its counts into the
// campaign totals
func (m *Manager) MarkQuarterDone(checkpoint *Checkpoint, year, quarter, collected, saved int) error {
	if !checkpoint.IsQuarterDone(year, quarter) {
		checkpoint.CompletedQuarters = append(checkpoint.CompletedQuarters, QuarterKey{Year: year, Quarter: quarter})
	}
	checkpoint.TotalCollected += collected
	checkpoint.TotalSaved += saved
	return m.Save(checkpoint)
}

// IsQuarterDone checks if a quarter has already been crawled and persisted
func (checkpoint *Checkpoint) IsQuarterDone(year, quarter int) bool {
	for _, q := range checkpoint.CompletedQuarters {
		if q.Year == year && q.Quarter == quarter {
			return true
		}
	}
	return false
}

// Matches reports whether the checkpoint was written by a campaign with the
// same parameters. Resuming over a different year range or interval would
// silently skip quarters, so the caller must check this first.
func (checkpoint *Checkpoint) Matches(startYear, endYear, startQuarter, intervalDays int) bool {
	return checkpoint.StartYear == startYear &&
		checkpoint.EndYear == endYear &&
		checkpoint.StartQuarter == startQuarter &&
		checkpoint.IntervalDays == intervalDays
}

// GetCheckpointInfo returns a summary of the checkpoint
func (m *Manager) GetCheckpointInfo() (map[string]interface{}, error) {
	checkpoint, err := m.Load()
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return nil, nil
	}

	return map[string]interface{}{
		"campaign_id":        checkpoint.CampaignID,
		"completed_quarters": len(checkpoint.CompletedQuarters),
		"total_collected":    checkpoint.TotalCollected,
		"total_saved":        checkpoint.TotalSaved,
		"created_at":         checkpoint.CreatedAt,
		"updated_at":         checkpoint.UpdatedAt,
		"age":                time.Since(checkpoint.UpdatedAt),
	}, nil
}

// BackupCheckpoint creates a backup of the current checkpoint
func (m *Manager) BackupCheckpoint() error {
	if !m.Exists() {
		return nil
	}

	backupPath := m.checkpointPath + ".backup"

	src, err := os.Open(m.checkpointPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy checkpoint to backup: %w", err)
	}

	m.logger.Debug("Checkpoint backed up")
	return nil
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		// Use XDG_DATA_HOME if set, otherwise ~/.local/share
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "l10nminer")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "l10nminer")
		}
	case "darwin":
		// macOS: ~/Library/Application Support
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "l10nminer")
	case "windows":
		// Windows: %APPDATA%
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "l10nminer")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
