package integration

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"l10nminer/pkg/checkpoint"
	"l10nminer/pkg/config"
	"l10nminer/pkg/logger"
)

// TestHelper provides common test utilities
type TestHelper struct {
	t            *testing.T
	mockServer   *MockGitHubServer
	tempDir      string
	cleanupFuncs []func()
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	tempDir, err := ioutil.TempDir("", "l10nminer_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	return &TestHelper{
		t:            t,
		tempDir:      tempDir,
		cleanupFuncs: []func(){},
	}
}

// SetupMockServer initializes the mock GitHub API server
func (h *TestHelper) SetupMockServer() *MockGitHubServer {
	h.mockServer = NewMockGitHubServer()
	h.AddCleanup(h.mockServer.Close)
	return h.mockServer
}

// SandboxDataDir points the XDG data directory at a temp subdir so checkpoint
// files written during the test never touch the real user data directory
func (h *TestHelper) SandboxDataDir() string {
	dir := h.CreateTempSubDir("data")
	h.t.Setenv("XDG_DATA_HOME", dir)
	return dir
}

// GetTempDir returns the temporary directory for test files
func (h *TestHelper) GetTempDir() string {
	return h.tempDir
}

// CreateTempSubDir creates a subdirectory in the temp directory
func (h *TestHelper) CreateTempSubDir(name string) string {
	dir := filepath.Join(h.tempDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		h.t.Fatalf("Failed to create temp subdir: %v", err)
	}
	return dir
}

// AddCleanup adds a cleanup function to be called when test ends
func (h *TestHelper) AddCleanup(fn func()) {
	h.cleanupFuncs = append(h.cleanupFuncs, fn)
}

// Cleanup runs all cleanup functions
func (h *TestHelper) Cleanup() {
	for i := len(h.cleanupFuncs) - 1; i >= 0; i-- {
		h.cleanupFuncs[i]()
	}
	os.RemoveAll(h.tempDir)
}

// CreateTestLogger creates a test logger
func (h *TestHelper) CreateTestLogger() logger.Logger {
	return logger.NewTestLogger()
}

// CreateTestConfig creates a test configuration with millisecond-scale delays
// and notifications disabled. The caller points GitHub.BaseURL at the mock.
func (h *TestHelper) CreateTestConfig() *config.Config {
	cfg := config.DefaultConfig()

	// Override for testing
	cfg.Campaign.StartYear = 2021
	cfg.Campaign.EndYear = 2021
	cfg.Campaign.StartQuarter = 1
	cfg.Campaign.IntervalDays = 30

	cfg.Search.MaxPages = 3
	cfg.Search.PerPage = 10

	cfg.GitHub.Token = "test_token"
	cfg.GitHub.UserAgent = "TestMiner/1.0"
	cfg.GitHub.Timeout = 5 * time.Second

	cfg.RateLimit.PageDelay = time.Millisecond
	cfg.RateLimit.ThrottleCooldown = 10 * time.Millisecond
	cfg.RateLimit.ThrottleWaitBudget = 50 * time.Millisecond

	cfg.Output.Directory = h.CreateTempSubDir("output")

	cfg.Clean.Workers = 2
	cfg.Clean.RequestTimeout = 2 * time.Second

	cfg.Notifications.Enabled = false

	cfg.Logging.Level = "error"

	return cfg
}

// AssertFileExists checks if a file exists
func (h *TestHelper) AssertFileExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		h.t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func (h *TestHelper) AssertFileNotExists(path string) {
	if _, err := os.Stat(path); err == nil {
		h.t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains expected content
func (h *TestHelper) AssertFileContains(path string, expected string) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		h.t.Errorf("Failed to read file %s: %v", path, err)
		return
	}

	if !strings.Contains(string(content), expected) {
		h.t.Errorf("File %s does not contain %q", path, expected)
	}
}

// AssertDirContainsFiles checks if directory contains expected number of files
func (h *TestHelper) AssertDirContainsFiles(dir string, expectedCount int) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		h.t.Errorf("Failed to read directory %s: %v", dir, err)
		return
	}

	actualCount := 0
	for _, f := range files {
		if !f.IsDir() {
			actualCount++
		}
	}

	if actualCount != expectedCount {
		h.t.Errorf("Directory %s contains %d files, expected %d", dir, actualCount, expectedCount)
	}
}

// CreateCheckpoint creates a test checkpoint with the given completed quarters
func (h *TestHelper) CreateCheckpoint(name string, startYear, endYear, startQuarter, intervalDays int, completed []checkpoint.QuarterKey) error {
	manager, err := checkpoint.NewManager(name)
	if err != nil {
		return err
	}

	cp := &checkpoint.Checkpoint{
		CampaignID:        "test-campaign",
		StartYear:         startYear,
		EndYear:           endYear,
		StartQuarter:      startQuarter,
		IntervalDays:      intervalDays,
		CompletedQuarters: completed,
		TotalCollected:    len(completed) * 10,
		TotalSaved:        len(completed) * 8,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
		Version:           1,
	}

	return manager.Save(cp)
}

// LoadCheckpoint loads a checkpoint for testing
func (h *TestHelper) LoadCheckpoint(name string) (*checkpoint.Checkpoint, error) {
	manager, err := checkpoint.NewManager(name)
	if err != nil {
		return nil, err
	}
	return manager.Load()
}

// WaitForCondition waits for a condition to be true with timeout
func (h *TestHelper) WaitForCondition(condition func() bool, timeout time.Duration, message string) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	h.t.Errorf("Timeout waiting for condition: %s", message)
}

// GenerateLocalizationIssues generates issues mentioning a search term, one
// per day starting at the given date. Every issue body carries a screenshot
// link so the records survive the image post-filter.
func GenerateLocalizationIssues(count int, term, repo, startDate string) []MockIssue {
	start, _ := time.Parse("2006-01-02", startDate)

	issues := make([]MockIssue, count)
	for i := 0; i < count; i++ {
		created := start.AddDate(0, 0, i)
		issues[i] = MockIssue{
			ID:        int64(1000 + i),
			Number:    100 + i,
			Repo:      repo,
			Title:     fmt.Sprintf("Button label shows %s bug %d", term, i),
			Body:      fmt.Sprintf("Seen on the settings page.\n![screen](https://img.example.com/shot_%d.png)", i),
			Labels:    []string{"bug"},
			CreatedAt: created.Format("2006-01-02T15:04:05Z"),
		}
	}
	return issues
}

// AssertNoError fails the test if err is not nil
func (h *TestHelper) AssertNoError(err error) {
	if err != nil {
		h.t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func (h *TestHelper) AssertError(err error) {
	if err == nil {
		h.t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks if error contains expected substring
func (h *TestHelper) AssertErrorContains(err error, substr string) {
	if err == nil {
		h.t.Fatal("Expected error but got nil")
	}
	if !strings.Contains(err.Error(), substr) {
		h.t.Errorf("Error message '%s' does not contain '%s'", err.Error(), substr)
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(expected, actual interface{}) {
	if expected != actual {
		h.t.Errorf("Expected %v, got %v", expected, actual)
	}
}
