package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the issue miner.
//
// A Config is assembled once by Load and is treated as immutable afterwards:
// no public mutators exist, and components copy the values they need at
// construction time rather than holding live references they might change.
type Config struct {
	// Campaign year range and quarter selection
	Campaign CampaignConfig `yaml:"campaign" json:"campaign"`

	// Search API paging
	Search SearchConfig `yaml:"search" json:"search"`

	// GitHub API access
	GitHub GitHubConfig `yaml:"github" json:"github"`

	// Rate limiting and throttle handling
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Dataset cleaning settings
	Clean CleanConfig `yaml:"clean" json:"clean"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CampaignConfig holds the year range and quarter selection for a crawl
type CampaignConfig struct {
	StartYear    int `yaml:"start_year" json:"start_year"`
	EndYear      int `yaml:"end_year" json:"end_year"`
	StartQuarter int `yaml:"start_quarter" json:"start_quarter"`
	IntervalDays int `yaml:"interval_days" json:"interval_days"`
}

// SearchConfig holds search API paging configuration
type SearchConfig struct {
	MaxPages int `yaml:"max_pages" json:"max_pages"`
	PerPage  int `yaml:"per_page" json:"per_page"`
}

// GitHubConfig holds GitHub API access configuration
type GitHubConfig struct {
	Token     string        `yaml:"token" json:"token"`
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds courtesy delays and throttle recovery configuration
type RateLimitConfig struct {
	// PageDelay is the pause between consecutive search page fetches
	PageDelay time.Duration `yaml:"page_delay" json:"page_delay"`

	// ThrottleCooldown is how long to wait before retrying a throttled page
	ThrottleCooldown time.Duration `yaml:"throttle_cooldown" json:"throttle_cooldown"`

	// ThrottleWaitBudget caps the total time spent in cooldowns for a single
	// page before the fetch is abandoned as throttled
	ThrottleWaitBudget time.Duration `yaml:"throttle_wait_budget" json:"throttle_wait_budget"`
}

// OutputConfig holds artifact output configuration
type OutputConfig struct {
	Directory   string `yaml:"directory" json:"directory"`
	FilePattern string `yaml:"file_pattern" json:"file_pattern"`
}

// CleanConfig holds dataset cleaning configuration
type CleanConfig struct {
	Workers        int           `yaml:"workers" json:"workers"`
	MinImageSize   int           `yaml:"min_image_size" json:"min_image_size"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	OnComplete       bool   `yaml:"on_complete" json:"on_complete"`
	OnError          bool   `yaml:"on_error" json:"on_error"`
	OnThrottle       bool   `yaml:"on_throttle" json:"on_throttle"`
	NotificationType string `yaml:"notification_type" json:"notification_type"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Campaign: CampaignConfig{
			StartYear:    2015,
			EndYear:      2025,
			StartQuarter: 1,
			IntervalDays: 30,
		},
		Search: SearchConfig{
			MaxPages: 1,
			PerPage:  10,
		},
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com",
			UserAgent: "l10nminer/1.0",
			Timeout:   30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			PageDelay:          1 * time.Second,
			ThrottleCooldown:   60 * time.Second,
			ThrottleWaitBudget: 10 * time.Minute,
		},
		Output: OutputConfig{
			Directory:   "output",
			FilePattern: "l10n_i18n_issues_{year}_Q{quarter}",
		},
		Clean: CleanConfig{
			Workers:        3,
			MinImageSize:   80,
			RequestTimeout: 10 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled:          true,
			OnComplete:       true,
			OnError:          true,
			OnThrottle:       true,
			NotificationType: "terminal",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
	}
}

// loadFromEnv overrides configuration from environment variables
func (c *Config) loadFromEnv() error {
	// GitHub token: the project-scoped name wins over the conventional one
	if token := os.Getenv("L10NMINER_GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if userAgent := os.Getenv("L10NMINER_USER_AGENT"); userAgent != "" {
		c.GitHub.UserAgent = userAgent
	}
	if baseURL := os.Getenv("L10NMINER_API_BASE_URL"); baseURL != "" {
		c.GitHub.BaseURL = baseURL
	}

	// Campaign range
	if startYear := os.Getenv("L10NMINER_START_YEAR"); startYear != "" {
		var val int
		fmt.Sscanf(startYear, "%d", &val)
		if val > 0 {
			c.Campaign.StartYear = val
		}
	}
	if endYear := os.Getenv("L10NMINER_END_YEAR"); endYear != "" {
		var val int
		fmt.Sscanf(endYear, "%d", &val)
		if val > 0 {
			c.Campaign.EndYear = val
		}
	}
	if interval := os.Getenv("L10NMINER_INTERVAL_DAYS"); interval != "" {
		var val int
		fmt.Sscanf(interval, "%d", &val)
		if val > 0 {
			c.Campaign.IntervalDays = val
		}
	}

	// Paging
	if maxPages := os.Getenv("L10NMINER_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Search.MaxPages = val
		}
	}
	if perPage := os.Getenv("L10NMINER_PER_PAGE"); perPage != "" {
		var val int
		fmt.Sscanf(perPage, "%d", &val)
		if val > 0 {
			c.Search.PerPage = val
		}
	}

	// Output directory
	if outputDir := os.Getenv("L10NMINER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	// Notifications
	if notifEnabled := os.Getenv("L10NMINER_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging level
	if logLevel := os.Getenv("L10NMINER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// loadFromFile loads configuration from a YAML file
func (c *Config) loadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".l10nminer.yaml",
		".l10nminer.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "l10nminer", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "l10nminer", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".l10nminer.yaml"),
		filepath.Join(os.Getenv("HOME"), ".l10nminer.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
//
// A missing GitHub token is deliberately not a validation error: unauthenticated
// search works, just with tighter rate limits. Callers warn about it instead.
func (c *Config) Validate() error {
	var errs []error

	// Validate campaign range
	if c.Campaign.StartYear <= 0 {
		errs = append(errs, errors.New("start year must be positive"))
	}
	if c.Campaign.EndYear <= 0 {
		errs = append(errs, errors.New("end year must be positive"))
	}
	if c.Campaign.StartYear > 0 && c.Campaign.EndYear > 0 && c.Campaign.StartYear > c.Campaign.EndYear {
		errs = append(errs, errors.New("start year must not be after end year"))
	}
	if c.Campaign.StartQuarter < 1 || c.Campaign.StartQuarter > 4 {
		errs = append(errs, errors.New("start quarter must be between 1 and 4"))
	}
	if c.Campaign.IntervalDays <= 0 {
		errs = append(errs, errors.New("interval days must be positive"))
	}

	// Validate paging
	if c.Search.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if c.Search.PerPage <= 0 {
		errs = append(errs, errors.New("per page must be positive"))
	}
	if c.Search.PerPage > 100 {
		errs = append(errs, errors.New("per page must not exceed 100"))
	}

	// Validate GitHub access
	if c.GitHub.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.GitHub.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	// Validate rate limiting
	if c.RateLimit.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	if c.RateLimit.ThrottleCooldown <= 0 {
		errs = append(errs, errors.New("throttle cooldown must be positive"))
	}
	if c.RateLimit.ThrottleWaitBudget < 0 {
		errs = append(errs, errors.New("throttle wait budget cannot be negative"))
	}

	// Validate output settings
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.FilePattern == "" {
		errs = append(errs, errors.New("file pattern is required"))
	}

	// Validate cleaning settings
	if c.Clean.Workers <= 0 {
		errs = append(errs, errors.New("clean workers must be positive"))
	}
	if c.Clean.Workers > 10 {
		errs = append(errs, errors.New("clean workers should not exceed 10"))
	}
	if c.Clean.MinImageSize < 0 {
		errs = append(errs, errors.New("minimum image size cannot be negative"))
	}
	if c.Clean.RequestTimeout <= 0 {
		errs = append(errs, errors.New("clean request timeout must be positive"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validLogFormats := map[string]bool{
		"": true, "console": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	// Validate notification type
	validNotifTypes := map[string]bool{
		"terminal": true, "desktop": true, "none": true,
	}
	if !validNotifTypes[strings.ToLower(c.Notifications.NotificationType)] {
		errs = append(errs, errors.New("invalid notification type"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// mergeCommandLineFlags merges command line flags into the configuration
func (c *Config) mergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.GitHub.Token = token
	}
	if startYear, ok := flags["start-year"].(int); ok && startYear > 0 {
		c.Campaign.StartYear = startYear
	}
	if endYear, ok := flags["end-year"].(int); ok && endYear > 0 {
		c.Campaign.EndYear = endYear
	}
	if startQuarter, ok := flags["start-quarter"].(int); ok && startQuarter > 0 {
		c.Campaign.StartQuarter = startQuarter
	}
	if interval, ok := flags["interval"].(int); ok && interval > 0 {
		c.Campaign.IntervalDays = interval
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages > 0 {
		c.Search.MaxPages = maxPages
	}
	if perPage, ok := flags["per-page"].(int); ok && perPage > 0 {
		c.Search.PerPage = perPage
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".l10nminer.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.loadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.mergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
