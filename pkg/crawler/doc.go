// Package crawler provides the core functionality for harvesting
// localization bug reports from GitHub issue search.
//
// The crawler package orchestrates the entire harvest, coordinating
// between the GitHub search client, date window planning, artifact
// storage, checkpointing, and rate limiting.
//
// Architecture:
//
// Three layers build on each other:
//   - Pager walks the result pages for one search term inside one date
//     window, pacing page fetches and riding out throttled responses
//   - QuarterCrawler sweeps a calendar quarter, crossing every planner
//     window with every search term, deduplicating issues by URL and
//     enriching each unique issue exactly once
//   - Campaign walks years newest to oldest and quarters oldest to
//     newest, persisting one quarter's artifacts and checkpoint entry
//     before the next quarter starts
//
// Usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	campaign, err := crawler.NewCampaign(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = campaign.RunWithResume(context.Background(), true, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Rate Limiting:
//
// All search page fetches share a single-token bucket, spacing them at
// least one page delay apart. A throttled response (HTTP 403 or 429)
// parks the current page for a fixed cooldown and retries the same page;
// the total cooldown time spent on one page is capped by the configured
// wait budget, after which the paging pass gives up and keeps whatever
// it collected.
//
// Failure handling:
//
// A failed paging pass never aborts the quarter. Transport failures,
// upstream errors, and malformed payloads all end the current
// (term, window) pass and the sweep moves on; only context cancellation
// stops a quarter. Issues collected before a failure are kept.
package crawler
