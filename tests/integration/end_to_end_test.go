package integration

import (
	"context"
	"path/filepath"
	"testing"

	"l10nminer/pkg/checkpoint"
	"l10nminer/pkg/classify"
	"l10nminer/pkg/crawler"
	"l10nminer/pkg/github"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/metadata"
	"l10nminer/pkg/ui"
)

// TestQuarterCrawlEndToEnd runs a full quarter sweep against the mock server
// and checks dedup, enrichment and the image post-filter on the way out.
func TestQuarterCrawlEndToEnd(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()

	// Matches "locale" and "not translated"; images in body and a comment.
	mockServer.AddIssue(MockIssue{
		ID:        101,
		Number:    11,
		Repo:      "acme/app",
		Title:     "Menu text not translated after locale change",
		Body:      "Happens on every page.\n![before](https://cdn.example.com/before.png)",
		Labels:    []string{"bug", "i18n"},
		CreatedAt: "2021-01-12T08:00:00Z",
		Comments:  []string{"Same here: https://cdn.example.com/after.jpg"},
	})
	// Matches "currency"; no images anywhere, so the filter drops it.
	mockServer.AddIssue(MockIssue{
		ID:        102,
		Number:    12,
		Repo:      "acme/app",
		Title:     "Currency symbol truncated in checkout",
		Body:      "Only with JPY.",
		CreatedAt: "2021-02-20T08:00:00Z",
	})
	// Matches "date format" and "locale"; only a comment carries an image.
	mockServer.AddIssue(MockIssue{
		ID:        103,
		Number:    13,
		Repo:      "acme/web",
		Title:     "Date format wrong for German locale",
		Body:      "Shows MM/DD/YYYY everywhere.",
		CreatedAt: "2021-03-05T08:00:00Z",
		Comments:  []string{"Screenshot: https://cdn.example.com/dates.png"},
	})

	cfg := helper.CreateTestConfig()
	cfg.GitHub.BaseURL = mockServer.GetURL()
	log := helper.CreateTestLogger()

	client := github.NewClient(&cfg.GitHub, log)
	qc := crawler.NewQuarterCrawler(client, cfg, log)

	result, err := qc.Crawl(context.Background(), 2021, 1)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if result.TotalCollected != 3 {
		t.Errorf("Expected 3 unique issues collected, got %d", result.TotalCollected)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 image-bearing records, got %d", len(result.Records))
	}
	if result.WindowsCrawled != 3 {
		t.Errorf("Expected Q1 2021 to span 3 windows, got %d", result.WindowsCrawled)
	}

	byURL := make(map[string]int)
	for i, rec := range result.Records {
		byURL[rec.URL] = i
	}

	idx, ok := byURL["https://github.com/acme/app/issues/11"]
	if !ok {
		t.Fatal("Expected the menu translation issue in the records")
	}
	rec := result.Records[idx]
	if rec.RepoFull != "acme/app" || rec.Repo != "app" {
		t.Errorf("Unexpected repo split: %q / %q", rec.RepoFull, rec.Repo)
	}
	if len(rec.ImageURLs) != 2 {
		t.Fatalf("Expected body and comment images, got %v", rec.ImageURLs)
	}
	if rec.ImageURLs[0] != "https://cdn.example.com/before.png" {
		t.Errorf("Body image should come first, got %v", rec.ImageURLs)
	}
	assertContains(t, rec.BugTypes, "missing_translation")
	assertContains(t, rec.BugTypes, "locale_issue")
	assertContains(t, rec.MatchedTerms, "locale")
	assertContains(t, rec.MatchedTerms, "not translated")

	if _, ok := byURL["https://github.com/acme/app/issues/12"]; ok {
		t.Error("Imageless issue should have been filtered out")
	}

	idx, ok = byURL["https://github.com/acme/web/issues/13"]
	if !ok {
		t.Fatal("Expected the date format issue in the records")
	}
	if len(result.Records[idx].ImageURLs) != 1 {
		t.Errorf("Expected the comment image to keep issue 13, got %v", result.Records[idx].ImageURLs)
	}
}

// TestQuarterCrawlThrottleRecovery tests that a throttled page is retried
// after cooldown and its results still land
func TestQuarterCrawlThrottleRecovery(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.AddIssue(MockIssue{
		ID:        201,
		Number:    21,
		Repo:      "acme/app",
		Title:     "i18n strings overflow the sidebar",
		Body:      "![x](https://cdn.example.com/sidebar.png)",
		CreatedAt: "2021-03-20T08:00:00Z",
	})
	mockServer.ThrottleNext(1)

	cfg := helper.CreateTestConfig()
	cfg.GitHub.BaseURL = mockServer.GetURL()
	log := helper.CreateTestLogger()

	qc := crawler.NewQuarterCrawler(github.NewClient(&cfg.GitHub, log), cfg, log)
	result, err := qc.Crawl(context.Background(), 2021, 1)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if mockServer.GetThrottleHits() != 1 {
		t.Errorf("Expected 1 throttle response, got %d", mockServer.GetThrottleHits())
	}
	if len(result.Records) != 1 {
		t.Errorf("Expected the issue to survive the throttle retry, got %d records", len(result.Records))
	}
}

// TestQuarterCrawlUpstreamFailure tests that persistent server errors end
// each paging pass without failing the crawl
func TestQuarterCrawlUpstreamFailure(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.SetErrorResponse("/search/issues", 500)

	cfg := helper.CreateTestConfig()
	cfg.GitHub.BaseURL = mockServer.GetURL()
	log := helper.CreateTestLogger()

	qc := crawler.NewQuarterCrawler(github.NewClient(&cfg.GitHub, log), cfg, log)
	result, err := qc.Crawl(context.Background(), 2021, 1)
	if err != nil {
		t.Fatalf("Crawl should not fail on upstream errors: %v", err)
	}

	if result.TotalCollected != 0 {
		t.Errorf("Expected nothing collected, got %d", result.TotalCollected)
	}

	// One failed request per window and term, none retried.
	want := result.WindowsCrawled * len(classify.SearchTerms)
	if got := mockServer.GetSearchCount(); got != want {
		t.Errorf("Expected %d search requests, got %d", want, got)
	}
}

// TestCampaignEndToEnd runs a one-quarter campaign through artifacts and
// checkpoint cleanup
func TestCampaignEndToEnd(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()
	helper.SandboxDataDir()
	ui.SetQuietMode(true)
	t.Cleanup(func() { ui.SetQuietMode(false) })

	mockServer := helper.SetupMockServer()
	mockServer.AddIssue(MockIssue{
		ID:        301,
		Number:    31,
		Repo:      "acme/app",
		Title:     "i18n placeholder leaks into UI",
		Body:      "![leak](https://cdn.example.com/leak.png)",
		Labels:    []string{"bug"},
		CreatedAt: "2021-11-03T08:00:00Z",
	})
	mockServer.AddIssue(MockIssue{
		ID:        302,
		Number:    32,
		Repo:      "acme/app",
		Title:     "i18n keys flashing on load",
		Body:      "No screenshot available.",
		CreatedAt: "2021-10-14T08:00:00Z",
	})

	cfg := helper.CreateTestConfig()
	cfg.GitHub.BaseURL = mockServer.GetURL()
	cfg.Campaign.StartQuarter = 4
	helper.AssertNoError(logger.Initialize(&cfg.Logging))

	campaign, err := crawler.NewCampaign(cfg)
	helper.AssertNoError(err)

	helper.AssertNoError(campaign.Run(context.Background()))

	csvPath := filepath.Join(cfg.Output.Directory, "l10n_i18n_issues_2021_Q4.csv")
	jsonPath := filepath.Join(cfg.Output.Directory, "l10n_i18n_issues_2021_Q4.json")
	helper.AssertFileExists(csvPath)
	helper.AssertFileExists(jsonPath)
	helper.AssertFileContains(csvPath, "https://github.com/acme/app/issues/31")

	report, err := metadata.Load(jsonPath)
	helper.AssertNoError(err)
	if report.Summary.Counts.TotalCollected != 2 {
		t.Errorf("Expected total_collected 2, got %d", report.Summary.Counts.TotalCollected)
	}
	if report.Summary.Counts.TotalSaved != 1 {
		t.Errorf("Expected total_saved 1, got %d", report.Summary.Counts.TotalSaved)
	}
	if report.Summary.SearchSetup.SearchType != "date-based" {
		t.Errorf("Unexpected search type: %s", report.Summary.SearchSetup.SearchType)
	}
	if len(report.Issues) != 1 {
		t.Errorf("Expected 1 issue in the report, got %d", len(report.Issues))
	}

	// A finished campaign leaves no resume state behind.
	mgr, err := checkpoint.NewManager("2021-2021")
	helper.AssertNoError(err)
	if mgr.Exists() {
		t.Error("Expected the checkpoint to be removed after completion")
	}
}

// TestCampaignSkipsCompletedQuarters tests resuming past an already
// persisted quarter without touching the API
func TestCampaignSkipsCompletedQuarters(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()
	helper.SandboxDataDir()
	ui.SetQuietMode(true)
	t.Cleanup(func() { ui.SetQuietMode(false) })

	mockServer := helper.SetupMockServer()

	cfg := helper.CreateTestConfig()
	cfg.GitHub.BaseURL = mockServer.GetURL()
	cfg.Campaign.StartQuarter = 4
	helper.AssertNoError(logger.Initialize(&cfg.Logging))

	done := []checkpoint.QuarterKey{{Year: 2021, Quarter: 4}}
	helper.AssertNoError(helper.CreateCheckpoint("2021-2021", 2021, 2021, 4, 30, done))

	campaign, err := crawler.NewCampaign(cfg)
	helper.AssertNoError(err)

	helper.AssertNoError(campaign.RunWithResume(context.Background(), true, false))

	if mockServer.GetSearchCount() != 0 {
		t.Errorf("Expected no API traffic for a completed quarter, got %d requests", mockServer.GetSearchCount())
	}
	helper.AssertFileNotExists(filepath.Join(cfg.Output.Directory, "l10n_i18n_issues_2021_Q4.csv"))
}

// TestCampaignCheckpointGuards tests the checkpoint conflict handling
func TestCampaignCheckpointGuards(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()
	helper.SandboxDataDir()
	ui.SetQuietMode(true)
	t.Cleanup(func() { ui.SetQuietMode(false) })

	mockServer := helper.SetupMockServer()

	cfg := helper.CreateTestConfig()
	cfg.GitHub.BaseURL = mockServer.GetURL()
	cfg.Campaign.StartQuarter = 4
	helper.AssertNoError(logger.Initialize(&cfg.Logging))

	// Checkpoint written under this campaign's name but for other parameters.
	helper.AssertNoError(helper.CreateCheckpoint("2021-2021", 2020, 2021, 1, 30, nil))

	campaign, err := crawler.NewCampaign(cfg)
	helper.AssertNoError(err)

	err = campaign.RunWithResume(context.Background(), true, false)
	helper.AssertErrorContains(err, "different campaign")

	// Without --resume an existing checkpoint blocks the run entirely.
	err = campaign.Run(context.Background())
	helper.AssertErrorContains(err, "checkpoint exists")
}

// assertContains fails unless the slice holds the value
func assertContains(t *testing.T, values []string, want string) {
	t.Helper()
	for _, v := range values {
		if v == want {
			return
		}
	}
	t.Errorf("Expected %v to contain %q", values, want)
}
