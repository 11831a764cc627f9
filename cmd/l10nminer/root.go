package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"l10nminer/pkg/ui"
)

var (
	// Version information
	version   = "3.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "l10nminer",
	Short: "Harvest localization bug reports with screenshots from GitHub",
	Long: `l10nminer searches GitHub issues for localization and internationalization
bug reports that include screenshots, and collects them into per-quarter
CSV and JSON datasets.

Features:
  - Date-windowed issue search that stays under the result cap
  - Strictly sequential search calls with automatic throttle recovery
  - Checkpointed campaigns that resume where they stopped
  - Bug type and search term tagging on every collected issue
  - Dataset cleaning that keeps only real bug reports with real screenshots
  - Secure token storage using the system keychain

For more information and examples, visit: https://github.com/yourusername/l10nminer`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set quiet mode if requested or log level is error
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		// Don't show logo for certain commands
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .l10nminer.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	// Version template
	rootCmd.SetVersionTemplate(`l10nminer {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
