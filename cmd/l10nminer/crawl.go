package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"l10nminer/pkg/auth"
	"l10nminer/pkg/config"
	"l10nminer/pkg/crawler"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/ui"
	"l10nminer/pkg/ui/tui"
)

var (
	// Crawl command flags
	crawlOutputDir string
	startYear      int
	endYear        int
	startQuarter   int
	intervalDays   int
	maxPages       int
	perPage        int
	tokenFlag      string
	resumeCrawl    bool
	forceRestart   bool
	useTUI         bool
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Harvest localization bug reports quarter by quarter",
	Long: `Walk a range of years quarter by quarter and collect GitHub issues that
mention localization problems and include image links.

Each quarter is split into date windows so no single search exceeds the
API's result cap. Search calls run strictly one at a time, with automatic
cooldowns when the API throttles. Every completed quarter is written as a
CSV and JSON pair before the next one starts, and progress is checkpointed
so an interrupted harvest can resume.

A GitHub token is optional but strongly recommended: unauthenticated
search allows 10 requests per minute versus 30 with a token. Store one
with 'l10nminer token store' or set GITHUB_TOKEN.`,
	Example: `  # Harvest the default year range
  l10nminer crawl

  # Harvest 2020 through 2023 into a specific directory
  l10nminer crawl --start-year 2020 --end-year 2023 --output ./data

  # Start mid-year with tighter windows
  l10nminer crawl --start-year 2021 --start-quarter 3 --interval 14

  # Resume an interrupted harvest
  l10nminer crawl --resume

  # Start fresh, discarding the previous checkpoint
  l10nminer crawl --force-restart

  # Watch progress in the interactive dashboard
  l10nminer crawl --tui`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCrawl(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	// Local flags for crawl command
	crawlCmd.Flags().StringVarP(&crawlOutputDir, "output", "o", "", "output directory for quarter artifacts")
	crawlCmd.Flags().IntVar(&startYear, "start-year", 0, "first year to harvest")
	crawlCmd.Flags().IntVar(&endYear, "end-year", 0, "last year to harvest")
	crawlCmd.Flags().IntVar(&startQuarter, "start-quarter", 0, "quarter to start from in the first year (1-4)")
	crawlCmd.Flags().IntVar(&intervalDays, "interval", 0, "target date window length in days")
	crawlCmd.Flags().IntVar(&maxPages, "max-pages", 0, "search result pages per term and window")
	crawlCmd.Flags().IntVar(&perPage, "per-page", 0, "results per search page")
	crawlCmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "GitHub personal access token")
	crawlCmd.Flags().BoolVar(&resumeCrawl, "resume", false, "resume from last checkpoint")
	crawlCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "force restart, ignoring existing checkpoint")
	crawlCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runCrawl(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if crawlOutputDir != "" {
		flags["output"] = crawlOutputDir
	}
	if startYear != 0 {
		flags["start-year"] = startYear
	}
	if endYear != 0 {
		flags["end-year"] = endYear
	}
	if startQuarter != 0 {
		flags["start-quarter"] = startQuarter
	}
	if intervalDays != 0 {
		flags["interval"] = intervalDays
	}
	if maxPages != 0 {
		flags["max-pages"] = maxPages
	}
	if perPage != 0 {
		flags["per-page"] = perPage
	}
	if tokenFlag != "" {
		flags["token"] = tokenFlag
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("l10nminer starting")

	// Without a token from flag, config or environment, fall back to the
	// token store before settling for unauthenticated search.
	if cfg.GitHub.Token == "" {
		if manager, err := auth.NewManager(); err == nil {
			if token, err := manager.RetrieveDefault(); err == nil {
				cfg.GitHub.Token = token.Value
				logger.WithField("token", token.Name).Info("Using stored token")
				if !useTUI {
					ui.PrintInfo("Using stored token", token.Name)
				}
			}
		}
	}

	if cfg.GitHub.Token == "" {
		logger.Warn("No GitHub token configured, using unauthenticated rate limits")
		if !useTUI {
			ui.PrintWarning("No GitHub token found, search is limited to 10 requests/minute")
			auth.ShowQuickTokenGuide()
		}
	}

	logger.GetLogger().InfoWithFields("Starting harvest", map[string]interface{}{
		"start_year": cfg.Campaign.StartYear,
		"end_year":   cfg.Campaign.EndYear,
		"output":     cfg.Output.Directory,
	})

	ctx := context.Background()

	if useTUI {
		// Create TUI sized to the planned quarter count
		planned := (cfg.Campaign.EndYear-cfg.Campaign.StartYear+1)*4 - (cfg.Campaign.StartQuarter - 1)
		terminal := tui.NewTUI(planned)

		// Run campaign in a goroutine
		crawlDone := make(chan error)
		go func() {
			campaign, err := crawler.NewCampaign(cfg)
			if err != nil {
				crawlDone <- err
				return
			}

			campaign.SetTUI(terminal)

			crawlDone <- campaign.RunWithResume(ctx, resumeCrawl, forceRestart)
		}()

		// Run TUI in main thread
		tuiDone := make(chan error)
		go func() {
			tuiDone <- terminal.Start()
		}()

		// Wait for either to finish
		select {
		case err := <-crawlDone:
			terminal.Stop()
			<-tuiDone // Wait for TUI to finish
			if err != nil {
				logger.WithError(err).Error("Harvest failed")
				os.Exit(1)
			}
		case err := <-tuiDone:
			if err != nil {
				logger.WithError(err).Error("TUI failed")
				os.Exit(1)
			}
		}

		logger.Info("Harvest completed successfully")
	} else {
		campaign, err := crawler.NewCampaign(cfg)
		if err != nil {
			ui.PrintError("Failed to initialize campaign", err.Error())
			os.Exit(1)
		}

		err = campaign.RunWithResume(ctx, resumeCrawl, forceRestart)
		if err != nil {
			logger.WithError(err).Error("Harvest failed")
			ui.PrintError("HARVEST FAILED", err.Error())
			os.Exit(1)
		}

		logger.Info("Harvest completed successfully")
		ui.PrintSuccess("[HARVEST COMPLETED SUCCESSFULLY]")
	}
}
