package main

import (
	"context"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"l10nminer/internal/cleaner"
	"l10nminer/pkg/config"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/ui"
)

var (
	// Clean command flags
	cleanInputDir  string
	cleanOutputDir string
	cleanWorkers   int
	minImageSize   int
	probeTimeout   int
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Filter harvested CSVs down to real bug reports with screenshots",
	Long: `Post-filter harvested quarter CSVs, keeping only rows that pass three
rules: the issue must mention a bug keyword, it must mention a recognized
localization term, and at least one of its image links must resolve to an
image larger than the minimum size.

Surviving rows are written as cleaned_<name>.csv with the body column
dropped. Every decision is recorded in cleaning_log.csv and the aggregate
counters in cleaning_stats.csv, so removals can be audited.`,
	Example: `  # Clean the default output directory
  l10nminer clean

  # Clean a specific directory with more probe workers
  l10nminer clean --input ./data --workers 5

  # Write cleaned files to a separate directory
  l10nminer clean --input ./data --output ./data/cleaned`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runClean(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&cleanInputDir, "input", "i", "", "directory with harvested quarter CSVs (default: configured output directory)")
	cleanCmd.Flags().StringVarP(&cleanOutputDir, "output", "o", "", "directory for cleaned files (default: same as input)")
	cleanCmd.Flags().IntVar(&cleanWorkers, "workers", 0, "concurrent image probe workers")
	cleanCmd.Flags().IntVar(&minImageSize, "min-image-size", 0, "minimum image width and height in pixels")
	cleanCmd.Flags().IntVar(&probeTimeout, "timeout", 0, "image fetch timeout in seconds")
}

func runClean(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	logger.Initialize(&cfg.Logging)

	opts := cleaner.Options{
		InputDir:       cfg.Output.Directory,
		OutputDir:      cleanOutputDir,
		Workers:        cfg.Clean.Workers,
		MinImageSize:   cfg.Clean.MinImageSize,
		RequestTimeout: cfg.Clean.RequestTimeout,
	}
	if cleanInputDir != "" {
		opts.InputDir = cleanInputDir
	}
	if cleanWorkers > 0 {
		opts.Workers = cleanWorkers
	}
	if minImageSize > 0 {
		opts.MinImageSize = minImageSize
	}
	if probeTimeout > 0 {
		opts.RequestTimeout = time.Duration(probeTimeout) * time.Second
	}

	ui.PrintInfo("Cleaning directory", opts.InputDir)

	c := cleaner.New(opts, logger.GetLogger())
	stats, err := c.Run(context.Background())
	if err != nil {
		logger.WithError(err).Error("Cleaning failed")
		ui.PrintError("CLEANING FAILED", err.Error())
		os.Exit(1)
	}

	renderCleaningStats(stats)
	ui.PrintSuccess("[CLEANING COMPLETED]")
}

func renderCleaningStats(stats *cleaner.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"Files processed", stats.FilesProcessed})
	t.AppendRow(table.Row{"Rows scanned", stats.TotalScanned})
	t.AppendRow(table.Row{"Kept", stats.Kept})
	t.AppendRow(table.Row{"Removed: no bug keyword", stats.RemovedBugKeyword})
	t.AppendRow(table.Row{"Removed: no search term", stats.RemovedSearchTerm})
	t.AppendRow(table.Row{"Removed: no valid image", stats.RemovedImage})

	t.Render()
}
