package crawler

import (
	"context"

	"l10nminer/pkg/classify"
	"l10nminer/pkg/config"
	"l10nminer/pkg/github"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/models"
	"l10nminer/pkg/window"
)

// QuarterResult holds everything one quarter's sweep produced.
type QuarterResult struct {
	Year    int
	Quarter int

	// Records are the image-bearing issues that survived the filter, in
	// the order they were first encountered.
	Records []models.Record

	// TotalCollected counts unique issues before the image filter.
	TotalCollected int

	WindowsCrawled int
	PagesFetched   int
}

// ProgressFunc is invoked after each date window of a quarter finishes.
type ProgressFunc func(year, quarter, windowsDone, windowsTotal int)

// QuarterCrawler sweeps a single calendar quarter: every date window the
// planner yields, crossed with every search term, strictly in order. Issues
// are deduplicated by URL across the whole quarter, enriched once on first
// sight, and filtered down to the ones that carry image links.
type QuarterCrawler struct {
	api      SearchAPI
	pager    *Pager
	planner  *window.Planner
	terms    []string
	logger   logger.Logger
	progress ProgressFunc
}

// NewQuarterCrawler creates a crawler that shares one pager, and therefore
// one page pacer, across everything it fetches.
func NewQuarterCrawler(api SearchAPI, cfg *config.Config, log logger.Logger) *QuarterCrawler {
	return &QuarterCrawler{
		api:     api,
		pager:   NewPager(api, cfg, log),
		planner: window.NewPlanner(cfg.Campaign.IntervalDays),
		terms:   classify.SearchTerms,
		logger:  log.WithField("component", "crawler"),
	}
}

// SetProgressFunc registers a callback for window-level progress
func (c *QuarterCrawler) SetProgressFunc(fn ProgressFunc) {
	c.progress = fn
}

// SetThrottleFunc registers a callback fired whenever a page fetch is put
// on cooldown
func (c *QuarterCrawler) SetThrottleFunc(fn ThrottleFunc) {
	c.pager.onThrottle = fn
}

// Crawl sweeps one quarter and returns its unique, enriched, image-filtered
// issues. The only error it returns is context cancellation; API failures
// end individual paging passes and are reflected in the counts instead.
func (c *QuarterCrawler) Crawl(ctx context.Context, year, quarter int) (*QuarterResult, error) {
	windows := c.planner.Windows(year, quarter)
	seen := make(map[string]bool)
	collected := []models.Record{}
	pages := 0

	c.logger.InfoWithFields("Starting quarter crawl", map[string]interface{}{
		"year":    year,
		"quarter": quarter,
		"windows": len(windows),
		"terms":   len(c.terms),
	})

	for i, win := range windows {
		for _, term := range c.terms {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			set := c.pager.Fetch(ctx, term, win)
			pages += set.Pages
			for j := range set.Items {
				issue := &set.Items[j]
				if seen[issue.HTMLURL] {
					continue
				}
				seen[issue.HTMLURL] = true
				collected = append(collected, c.enrich(ctx, issue, term))
			}
			if set.Reason == StopCancelled {
				return nil, ctx.Err()
			}
		}

		logger.LogWindowProgress(year, quarter, i+1, len(windows))
		if c.progress != nil {
			c.progress(year, quarter, i+1, len(windows))
		}
	}

	kept := []models.Record{}
	for _, record := range collected {
		if record.HasImages() {
			kept = append(kept, record)
		}
	}

	c.logger.InfoWithFields("Quarter crawl finished", map[string]interface{}{
		"year":      year,
		"quarter":   quarter,
		"collected": len(collected),
		"saved":     len(kept),
		"pages":     pages,
	})

	return &QuarterResult{
		Year:           year,
		Quarter:        quarter,
		Records:        kept,
		TotalCollected: len(collected),
		WindowsCrawled: len(windows),
		PagesFetched:   pages,
	}, nil
}

// enrich turns a raw search hit into a dataset record: the repository pair
// split out of the API URL, image links gathered from the body and every
// comment, bug categories, and the full set of matched search terms. The
// triggering term is always part of the matched set, even when the issue
// text itself never contains it.
func (c *QuarterCrawler) enrich(ctx context.Context, issue *github.Issue, trigger string) models.Record {
	repoFull, repo := models.SplitRepoURL(issue.RepositoryURL)

	images := classify.ExtractImageURLs(issue.Body)
	comments, err := c.api.FetchComments(ctx, issue.CommentsURL)
	if err != nil {
		// A record without comment images is still a record.
		c.logger.DebugWithFields("Comment fetch failed", map[string]interface{}{
			"issue": issue.HTMLURL,
			"error": err.Error(),
		})
	}
	for _, comment := range comments {
		images = append(images, classify.ExtractImageURLs(comment.Body)...)
	}

	record := models.Record{
		IssueID:      issue.ID,
		RepoFull:     repoFull,
		Repo:         repo,
		Title:        issue.Title,
		URL:          issue.HTMLURL,
		Body:         issue.Body,
		Labels:       issue.LabelNames(),
		ImageURLs:    images,
		BugTypes:     classify.DetectBugTypes(issue.Title, issue.Body),
		MatchedTerms: classify.DetectTerms(issue.Title+" "+issue.Body, trigger),
		CreatedAt:    issue.CreatedAt,
	}
	record.Normalize()
	return record
}
