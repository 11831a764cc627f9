package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"l10nminer/internal/merger"
	"l10nminer/pkg/config"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/ui"
)

var (
	// Merge command flags
	mergeInputDir  string
	mergeOutputDir string
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Combine quarter CSVs into a single dataset file",
	Long: `Combine every quarter CSV in a directory into merged_issues.csv.

The body column is dropped and the remaining columns are laid out in the
canonical artifact order. Cleaning artifacts and earlier merge output are
skipped, so the command is safe to rerun.`,
	Example: `  # Merge the default output directory
  l10nminer merge

  # Merge cleaned files from a specific directory
  l10nminer merge --input ./data/cleaned`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runMerge(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergeInputDir, "input", "i", "", "directory with quarter CSVs (default: configured output directory)")
	mergeCmd.Flags().StringVarP(&mergeOutputDir, "output", "o", "", "directory for the merged file (default: same as input)")
}

func runMerge(cmd *cobra.Command, args []string) {
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

	opts := merger.Options{
		InputDir:  cfg.Output.Directory,
		OutputDir: mergeOutputDir,
	}
	if mergeInputDir != "" {
		opts.InputDir = mergeInputDir
	}

	ui.PrintInfo("Merging directory", opts.InputDir)

	m := merger.New(opts, logger.GetLogger())
	result, err := m.Run()
	if err != nil {
		logger.WithError(err).Error("Merge failed")
		ui.PrintError("MERGE FAILED", err.Error())
		os.Exit(1)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = opts.InputDir
	}

	ui.PrintInfo("Files merged", strconv.Itoa(result.FilesMerged))
	ui.PrintInfo("Rows", strconv.Itoa(result.Rows))
	ui.PrintSuccess("Merged dataset written: " + filepath.Join(outputDir, merger.OutputName))
}
