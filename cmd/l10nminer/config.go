package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"l10nminer/pkg/config"
	"l10nminer/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage l10nminer configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (L10NMINER_*, GITHUB_TOKEN)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.l10nminer.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values

The GitHub token is masked for security.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = ".l10nminer.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# l10nminer Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with L10NMINER_
# For example: L10NMINER_START_YEAR, L10NMINER_OUTPUT_DIR
# The GitHub token is also read from GITHUB_TOKEN.

# Campaign year range and quarter selection
campaign:
  # First (oldest) year to harvest
  start_year: 2015

  # Last (most recent) year to harvest; years are walked newest to oldest
  end_year: 2025

  # Quarter to start from in the most recent year only
  # Range: 1-4
  start_quarter: 1

  # Target date window length in days; each quarter is split into
  # windows of at most this many days
  interval_days: 30

# Search API paging
search:
  # Result pages fetched per search term and date window
  max_pages: 1

  # Results per page
  # Range: 1-100
  per_page: 10

# GitHub API access
github:
  # Personal access token (optional). Prefer 'l10nminer token store' or
  # the GITHUB_TOKEN environment variable over writing it here.
  token: ""

  # API host; only change this for GitHub Enterprise
  base_url: "https://api.github.com"

  # User agent sent with every request
  user_agent: "l10nminer/1.0"

  # Request timeout
  timeout: 30s

# Rate limiting and throttle handling
rate_limit:
  # Pause between consecutive search page fetches
  page_delay: 1s

  # Wait before retrying a throttled page
  throttle_cooldown: 60s

  # Total cooldown time allowed per page before the window is abandoned
  throttle_wait_budget: 10m

# Output settings
output:
  # Directory for quarter artifacts
  directory: "output"

  # Artifact name pattern; {year} and {quarter} are expanded
  file_pattern: "l10n_i18n_issues_{year}_Q{quarter}"

# Dataset cleaning settings
clean:
  # Concurrent image probe workers
  # Range: 1-10
  workers: 3

  # Minimum image width and height in pixels (exclusive)
  min_image_size: 80

  # Image fetch timeout
  request_timeout: 10s

# Notification preferences
notifications:
  enabled: true
  on_complete: true
  on_error: true
  on_throttle: true

  # Notification type: terminal, desktop, none
  notification_type: "terminal"

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log format: console, json
  format: "console"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store a GitHub token with 'l10nminer token store' (optional but recommended)")
	fmt.Println("2. Run 'l10nminer config validate' to check the configuration")
	fmt.Println("3. Start harvesting with 'l10nminer crawl'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Create a sanitized version for display
	displayCfg := *cfg

	// Mask the token
	if displayCfg.GitHub.Token != "" {
		if len(displayCfg.GitHub.Token) > 8 {
			displayCfg.GitHub.Token = displayCfg.GitHub.Token[:4] + "..." + displayCfg.GitHub.Token[len(displayCfg.GitHub.Token)-4:]
		} else {
			displayCfg.GitHub.Token = "***"
		}
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (L10NMINER_*, GITHUB_TOKEN)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			".l10nminer.yaml",
			".l10nminer.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "l10nminer", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "l10nminer", "config.yml"),
			filepath.Join(os.Getenv("HOME"), ".l10nminer.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// A missing token is allowed, but worth flagging
	if cfg.GitHub.Token == "" {
		warnings = append(warnings, "No GitHub token configured, search will use unauthenticated rate limits")
	}

	// Check paths
	if cfg.Output.Directory != "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}

	// Check logging file path
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	// Warn about settings that make long runs painful
	if cfg.Campaign.IntervalDays > 90 {
		warnings = append(warnings, "interval_days exceeds a quarter, most quarters will be a single window")
	}
	if cfg.Search.MaxPages*cfg.Search.PerPage > 1000 {
		warnings = append(warnings, "max_pages x per_page exceeds the search API's 1000 result cap per query")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Years: %d-%d (start quarter %d)\n", cfg.Campaign.StartYear, cfg.Campaign.EndYear, cfg.Campaign.StartQuarter)
	fmt.Printf("  Window length: %d days\n", cfg.Campaign.IntervalDays)
	fmt.Printf("  Paging: %d page(s) x %d results\n", cfg.Search.MaxPages, cfg.Search.PerPage)
	fmt.Printf("  Output directory: %s\n", cfg.Output.Directory)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
