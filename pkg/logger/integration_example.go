package logger

// This file shows how to integrate the logger into the main application

/*
Example integration in the crawl command:

package cmd

import (
	"os"

	"l10nminer/pkg/config"
	"l10nminer/pkg/crawler"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/ui"
)

func runCrawl(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize the logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	// Now you can use the logger throughout the application
	logger.Info("Issue miner starting")
	logger.WithField("run_id", runID).Info("Campaign run created")

	// Log configuration (be careful not to log the API token)
	logger.WithFields(map[string]interface{}{
		"output_dir":    cfg.Output.Directory,
		"start_year":    cfg.Campaign.StartYear,
		"end_year":      cfg.Campaign.EndYear,
		"interval_days": cfg.Campaign.IntervalDays,
		"log_level":     cfg.Logging.Level,
	}).Debug("Configuration loaded")

	// Log component start
	logger.LogComponentStart("campaign", map[string]interface{}{
		"run_id": runID,
	})

	driver, err := crawler.NewCampaignDriver(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize campaign driver")
	}

	if err := driver.Run(ctx); err != nil {
		logger.WithError(err).Error("Campaign failed")
		logger.LogComponentStop("campaign", "error")
		os.Exit(1)
	}

	logger.LogComponentStop("campaign", "completed")
	logger.Info("All quarters completed successfully")
}
*/

// Example integration in the crawler package:
/*
func (c *QuarterCrawler) Crawl(ctx context.Context, year, quarter int) (*QuarterResult, error) {
	log := logger.GetLogger().
		WithField("component", "crawler").
		WithField("year", year).
		WithField("quarter", quarter)

	log.Info("Starting quarter crawl")

	windows := c.planner.Windows(year, quarter)
	log.WithField("windows", len(windows)).Debug("Date windows planned")

	for i, w := range windows {
		// ... crawl each window ...
		logger.LogWindowProgress(year, quarter, i+1, len(windows))
	}

	// ... rest of the implementation ...
}
*/

// Example integration in the pager:
/*
func (p *Pager) fetchPage(ctx context.Context, query string, page int) (*SearchPayload, error) {
	start := time.Now()
	log := logger.GetLogger().
		WithField("component", "pager").
		WithField("page", page)

	log.Debug("Fetching search page")

	// ... fetch logic ...

	duration := time.Since(start)
	log.WithField("duration", duration).Debug("Search page fetched")

	// Use helper function for standardized logging
	logger.LogRequest("GET", url, resp.StatusCode, float64(duration.Milliseconds()))

	return payload, nil
}
*/

// Example integration with the throttle cooldown:
/*
func (p *Pager) coolDown(term string, page int) {
	logger.LogThrottleWait(term, page, p.cooldown.Seconds())
	time.Sleep(p.cooldown)
}
*/
