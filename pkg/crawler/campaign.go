package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"l10nminer/pkg/checkpoint"
	"l10nminer/pkg/config"
	"l10nminer/pkg/github"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/metadata"
	"l10nminer/pkg/retry"
	"l10nminer/pkg/storage"
	"l10nminer/pkg/ui"
	"l10nminer/pkg/window"
)

// Campaign orchestrates a full harvest: years walked newest to oldest,
// quarters within a year oldest to newest, one quarter crawled, persisted
// and checkpointed before the next one starts.
type Campaign struct {
	crawler       *QuarterCrawler
	store         *storage.Manager
	tracker       *ui.StatusTracker
	progress      *ui.ProgressDisplay
	notifier      *ui.Notifier
	config        *config.Config
	logger        logger.Logger
	checkpointMgr *checkpoint.Manager
	tui           ui.TUI
	now           func() time.Time
}

// NewCampaign creates a campaign wired to the live GitHub search API
func NewCampaign(cfg *config.Config) (*Campaign, error) {
	log := logger.GetLogger()

	client := github.NewClient(&cfg.GitHub, log)

	c := &Campaign{
		crawler:  NewQuarterCrawler(client, cfg, log),
		tracker:  ui.NewStatusTracker(),
		notifier: ui.NewNotifier(&cfg.Notifications),
		config:   cfg,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	c.wireHooks()
	return c, nil
}

// SetTUI sets the terminal UI for the campaign
func (c *Campaign) SetTUI(t ui.TUI) {
	c.tui = t
}

// wireHooks forwards crawl-internal events to the UI surfaces
func (c *Campaign) wireHooks() {
	c.crawler.SetProgressFunc(func(year, quarter, done, total int) {
		if c.tui != nil {
			c.tui.UpdateWindowProgress(year, quarter, done, total)
		} else if c.progress != nil {
			c.progress.WindowTick(done, total)
		}
	})
	c.crawler.SetThrottleFunc(func(term string, page int, cooldown time.Duration) {
		c.notifier.SendThrottle("RATE LIMIT", fmt.Sprintf("Cooling down %s before retrying %q page %d", cooldown, term, page))
		if c.tui != nil {
			c.tui.UpdateThrottle(term, page, c.now().Add(cooldown))
		} else if c.progress != nil {
			c.progress.ThrottleWarning(term, page, cooldown)
		}
	})
}

// Run executes the campaign without checkpoint resumption
func (c *Campaign) Run(ctx context.Context) error {
	return c.runWithOptions(ctx, false, false)
}

// RunWithResume executes the campaign with checkpoint support
func (c *Campaign) RunWithResume(ctx context.Context, resume bool, forceRestart bool) error {
	return c.runWithOptions(ctx, resume, forceRestart)
}

// runWithOptions is the internal implementation with checkpoint support
func (c *Campaign) runWithOptions(ctx context.Context, resume bool, forceRestart bool) error {
	campaign := c.config.Campaign

	if c.tui == nil {
		ui.PrintHighlight(fmt.Sprintf("\n[STARTING HARVEST %d-%d]\n", campaign.StartYear, campaign.EndYear))
	} else {
		c.tui.LogInfo("Starting harvest for %d-%d", campaign.StartYear, campaign.EndYear)
	}

	// Initialize checkpoint manager
	checkpointName := fmt.Sprintf("%d-%d", campaign.StartYear, campaign.EndYear)
	checkpointMgr, err := checkpoint.NewManager(checkpointName)
	if err != nil {
		c.logger.WithError(err).Error("Failed to create checkpoint manager")
		return fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	c.checkpointMgr = checkpointMgr

	// Handle checkpoint logic
	var cp *checkpoint.Checkpoint
	if forceRestart && checkpointMgr.Exists() {
		// Force restart: delete existing checkpoint
		if err := checkpointMgr.Delete(); err != nil {
			c.logger.WithError(err).Warn("Failed to delete existing checkpoint")
		}
		ui.PrintInfo("Force restart", "Ignoring existing checkpoint")
	} else if resume && checkpointMgr.Exists() {
		// Resume from checkpoint
		cp, err = checkpointMgr.Load()
		if err != nil {
			c.logger.WithError(err).Error("Failed to load checkpoint")
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if cp != nil {
			if !cp.Matches(campaign.StartYear, campaign.EndYear, campaign.StartQuarter, campaign.IntervalDays) {
				return fmt.Errorf("checkpoint was recorded for a different campaign range - use --force-restart to discard it")
			}
			c.tracker.SetTotals(cp.TotalCollected, cp.TotalSaved)
			ui.PrintInfo("Resuming from checkpoint", fmt.Sprintf("Quarters done: %d", len(cp.CompletedQuarters)))
			c.logger.InfoWithFields("Resuming from checkpoint", map[string]interface{}{
				"campaign_id":     cp.CampaignID,
				"quarters_done":   len(cp.CompletedQuarters),
				"total_collected": cp.TotalCollected,
				"total_saved":     cp.TotalSaved,
			})
		}
	} else if checkpointMgr.Exists() && !resume {
		// Checkpoint exists but resume not requested
		info, _ := checkpointMgr.GetCheckpointInfo()
		if info != nil {
			if !ui.IsQuietMode() {
				fmt.Printf("\n%s Previous harvest found (%v quarters done)\n", ui.Yellow("►"), info["completed_quarters"])
				fmt.Printf("  Use: %s to continue where you left off\n", ui.Green("--resume"))
				fmt.Printf("  Use: %s to start fresh\n\n", ui.Yellow("--force-restart"))
			}
			return fmt.Errorf("checkpoint exists - use --resume to continue or --force-restart to start fresh")
		}
	}

	if cp == nil {
		cp, err = checkpointMgr.Create(uuid.New().String(), campaign.StartYear, campaign.EndYear, campaign.StartQuarter, campaign.IntervalDays)
		if err != nil {
			return fmt.Errorf("failed to create checkpoint: %w", err)
		}
	}

	// Setup artifact storage
	store, err := storage.NewManager(c.config.Output.Directory, c.config.Output.FilePattern)
	if err != nil {
		c.logger.WithError(err).Error("Failed to create storage manager")
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	c.store = store

	// Checkpointed quarters advance the bar as the walk skips over them,
	// so the display starts from zero even on resume.
	if c.tui == nil && !ui.IsQuietMode() {
		planned := (campaign.EndYear-campaign.StartYear+1)*4 - (campaign.StartQuarter - 1)
		c.progress = ui.NewProgressDisplay(checkpointName, planned, c.config.Logging.Level == "debug")
	}

	c.logger.InfoWithFields("Starting campaign", map[string]interface{}{
		"campaign_id":   cp.CampaignID,
		"start_year":    campaign.StartYear,
		"end_year":      campaign.EndYear,
		"start_quarter": campaign.StartQuarter,
		"interval_days": campaign.IntervalDays,
		"resume":        resume && len(cp.CompletedQuarters) > 0,
	})

	// Years run newest to oldest so recent reports land first. The start
	// quarter offset applies only to the first year processed; earlier
	// years always cover all four quarters.
	for year := campaign.EndYear; year >= campaign.StartYear; year-- {
		for quarter := 1; quarter <= 4; quarter++ {
			if year == campaign.EndYear && quarter < campaign.StartQuarter {
				continue
			}
			// Quarters that have not started yet can hold no issues, and
			// neither can any later quarter of the same year.
			if window.QuarterStart(year, quarter).After(c.now()) {
				c.logger.InfoWithFields("Quarter is in the future, skipping rest of year", map[string]interface{}{
					"year":    year,
					"quarter": quarter,
				})
				break
			}

			if err := c.waitWhilePaused(ctx); err != nil {
				return err
			}
			if err := c.runQuarter(ctx, cp, year, quarter); err != nil {
				c.notifier.SendError("HARVEST FAILED", err.Error())
				if c.tui != nil {
					c.tui.LogError("Harvest failed: %v", err)
				}
				return err
			}
		}
	}

	if c.progress != nil {
		c.progress.Complete()
	}

	summary := fmt.Sprintf("%d issues saved across %d quarters", c.tracker.GetSavedCount(), c.tracker.GetQuarterCount())
	c.logger.InfoWithFields("Campaign finished", map[string]interface{}{
		"campaign_id":     cp.CampaignID,
		"quarters":        c.tracker.GetQuarterCount(),
		"total_collected": c.tracker.GetCollectedCount(),
		"total_saved":     c.tracker.GetSavedCount(),
		"elapsed":         c.tracker.GetElapsedTime().String(),
	})
	c.notifier.SendSuccess("HARVEST COMPLETE", summary)
	if c.tui != nil {
		c.tui.LogSuccess("Harvest complete: %s", summary)
	} else {
		c.tracker.PrintSummary()
		ui.PrintSuccess(summary)
	}

	// A finished campaign needs no resume state.
	if err := checkpointMgr.Delete(); err != nil {
		c.logger.WithError(err).Warn("Failed to remove completed checkpoint")
	}

	return nil
}

// runQuarter crawls one quarter end to end: sweep, report, artifacts,
// checkpoint.
func (c *Campaign) runQuarter(ctx context.Context, cp *checkpoint.Checkpoint, year, quarter int) error {
	if cp.IsQuarterDone(year, quarter) {
		c.logger.InfoWithFields("Quarter already done, skipping", map[string]interface{}{
			"year":    year,
			"quarter": quarter,
		})
		if c.tui != nil {
			c.tui.LogInfo("Skipping %d Q%d (already done)", year, quarter)
		} else if c.progress != nil {
			c.progress.SkippedQuarter(year, quarter)
		}
		return nil
	}

	if c.tui != nil {
		c.tui.StartQuarter(year, quarter)
	} else if c.progress != nil {
		c.progress.StartQuarter(year, quarter)
	}

	start := time.Now()
	result, err := c.crawler.Crawl(ctx, year, quarter)
	if err != nil {
		return err
	}

	report := metadata.NewReport(result.Records, result.TotalCollected, c.crawler.terms, c.config.Campaign.IntervalDays)
	if err := c.store.SaveQuarter(year, quarter, report); err != nil {
		return fmt.Errorf("failed to save artifacts for %d Q%d: %w", year, quarter, err)
	}

	saved := len(result.Records)
	if err := c.checkpointMgr.MarkQuarterDone(cp, year, quarter, result.TotalCollected, saved); err != nil {
		// The artifacts are on disk; a stale checkpoint only costs a
		// redundant recrawl on resume.
		c.logger.WithError(err).Warn("Failed to update checkpoint")
	}

	c.tracker.RecordQuarter(year, quarter, result.TotalCollected, saved)
	c.tracker.AddBugTypes(report.Summary.Counts.BugTypeCounts)

	c.logger.InfoWithFields("Quarter persisted", map[string]interface{}{
		"year":      year,
		"quarter":   quarter,
		"collected": result.TotalCollected,
		"saved":     saved,
		"pages":     result.PagesFetched,
		"duration":  time.Since(start).String(),
	})
	if c.tui != nil {
		c.tui.CompleteQuarter(year, quarter, result.TotalCollected, saved)
	} else if c.progress != nil {
		c.progress.CompleteQuarter(year, quarter, result.TotalCollected, saved)
	}

	return nil
}

// waitWhilePaused blocks while the TUI holds the campaign paused
func (c *Campaign) waitWhilePaused(ctx context.Context) error {
	for c.tui != nil && c.tui.IsPaused() {
		if err := retry.Wait(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}

// GetOutputDir returns the artifact directory of the last run
func (c *Campaign) GetOutputDir() string {
	if c.store != nil {
		return c.store.GetOutputDir()
	}
	return c.config.Output.Directory
}
