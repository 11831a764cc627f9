package checkpoint

import (
	"os"
	"testing"
)

func TestCheckpointManager(t *testing.T) {
	// Create a temporary directory for testing
	tempDir, err := os.MkdirTemp("", "checkpoint_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Set environment variable to use temp directory
	os.Setenv("XDG_DATA_HOME", tempDir)
	defer os.Unsetenv("XDG_DATA_HOME")

	name := "2015-2025"

	t.Run("CreateAndLoad", func(t *testing.T) {
		mgr, err := NewManager(name)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create("run-1234", 2015, 2025, 1, 30)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if cp.CampaignID != "run-1234" {
			t.Errorf("Expected campaign ID run-1234, got %s", cp.CampaignID)
		}
		if cp.StartYear != 2015 || cp.EndYear != 2025 {
			t.Errorf("Expected year range 2015-2025, got %d-%d", cp.StartYear, cp.EndYear)
		}
		if len(cp.CompletedQuarters) != 0 {
			t.Errorf("Expected no completed quarters, got %d", len(cp.CompletedQuarters))
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if loaded == nil {
			t.Fatal("Expected checkpoint, got nil")
		}
		if loaded.CampaignID != "run-1234" {
			t.Errorf("Expected loaded campaign ID run-1234, got %s", loaded.CampaignID)
		}
		if loaded.CompletedQuarters == nil {
			t.Error("Expected completed quarters to decode as empty slice")
		}
	})

	t.Run("LoadMissingIsNil", func(t *testing.T) {
		mgr, err := NewManager("never-created")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Expected no error for missing checkpoint, got %v", err)
		}
		if loaded != nil {
			t.Error("Expected nil checkpoint for missing file")
		}
	})

	t.Run("MarkQuarterDone", func(t *testing.T) {
		mgr, err := NewManager(name)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create("run-1234", 2015, 2025, 1, 30)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if err := mgr.MarkQuarterDone(cp, 2025, 1, 120, 37); err != nil {
			t.Fatalf("Failed to mark quarter done: %v", err)
		}
		if err := mgr.MarkQuarterDone(cp, 2025, 2, 80, 22); err != nil {
			t.Fatalf("Failed to mark quarter done: %v", err)
		}

		if !cp.IsQuarterDone(2025, 1) {
			t.Error("Expected 2025 Q1 to be done")
		}
		if !cp.IsQuarterDone(2025, 2) {
			t.Error("Expected 2025 Q2 to be done")
		}
		if cp.IsQuarterDone(2024, 4) {
			t.Error("Expected 2024 Q4 to not be done")
		}
		if cp.TotalCollected != 200 {
			t.Errorf("Expected total collected 200, got %d", cp.TotalCollected)
		}
		if cp.TotalSaved != 59 {
			t.Errorf("Expected total saved 59, got %d", cp.TotalSaved)
		}

		// Re-marking the same quarter keeps the list deduplicated
		if err := mgr.MarkQuarterDone(cp, 2025, 1, 0, 0); err != nil {
			t.Fatalf("Failed to re-mark quarter: %v", err)
		}
		if len(cp.CompletedQuarters) != 2 {
			t.Errorf("Expected 2 completed quarters, got %d", len(cp.CompletedQuarters))
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if !loaded.IsQuarterDone(2025, 2) {
			t.Error("Expected persisted checkpoint to remember 2025 Q2")
		}
	})

	t.Run("Matches", func(t *testing.T) {
		mgr, err := NewManager(name)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create("run-1234", 2015, 2025, 1, 30)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if !cp.Matches(2015, 2025, 1, 30) {
			t.Error("Expected checkpoint to match its own parameters")
		}
		if cp.Matches(2016, 2025, 1, 30) {
			t.Error("Expected mismatch on start year")
		}
		if cp.Matches(2015, 2025, 1, 14) {
			t.Error("Expected mismatch on interval")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		mgr, err := NewManager(name)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		_, err = mgr.Create("run-1234", 2015, 2025, 1, 30)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if !mgr.Exists() {
			t.Error("Expected checkpoint to exist")
		}

		if err := mgr.Delete(); err != nil {
			t.Fatalf("Failed to delete checkpoint: %v", err)
		}

		if mgr.Exists() {
			t.Error("Expected checkpoint to not exist after deletion")
		}
	})

	t.Run("AtomicWrite", func(t *testing.T) {
		mgr, err := NewManager(name)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create("run-1234", 2015, 2025, 1, 30)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Simulate multiple concurrent saves
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func(n int) {
				cp.TotalCollected = n
				mgr.Save(cp)
				done <- true
			}(i)
		}

		for i := 0; i < 10; i++ {
			<-done
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint after concurrent saves: %v", err)
		}
		if loaded == nil {
			t.Fatal("Checkpoint corrupted after concurrent saves")
		}
	})

	t.Run("BackupCheckpoint", func(t *testing.T) {
		mgr, err := NewManager(name)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create("run-1234", 2015, 2025, 1, 30)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		cp.TotalSaved = 42
		mgr.Save(cp)

		if err := mgr.BackupCheckpoint(); err != nil {
			t.Fatalf("Failed to backup checkpoint: %v", err)
		}

		backupPath := mgr.checkpointPath + ".backup"
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			t.Error("Backup file not created")
		}
	})
}

func TestGetDataDirectory(t *testing.T) {
	dir, err := getDataDirectory()
	if err != nil {
		t.Fatalf("Failed to get data directory: %v", err)
	}

	if dir == "" {
		t.Error("Data directory is empty")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Errorf("Cannot create data directory: %v", err)
	}
}
