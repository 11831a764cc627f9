package crawler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l10nminer/pkg/classify"
	"l10nminer/pkg/errors"
	"l10nminer/pkg/github"
	"l10nminer/pkg/logger"
)

func TestNewQuarterCrawler(t *testing.T) {
	mock := &mockSearchAPI{}
	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())

	assert.NotNil(t, crawler.pager)
	assert.NotNil(t, crawler.planner)
	assert.Equal(t, classify.SearchTerms, crawler.terms)
}

func TestQuarterCrawlSweepOrder(t *testing.T) {
	mock := &mockSearchAPI{}
	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())

	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.WindowsCrawled)

	// Windows are the outer loop, terms the inner one: the first pass
	// through the term list stays inside the first window.
	require.Len(t, mock.searchCalls, 3*len(classify.SearchTerms))
	firstWindow := mock.searchCalls[0].created
	for i, term := range classify.SearchTerms {
		assert.Equal(t, term, mock.searchCalls[i].term)
		assert.Equal(t, firstWindow, mock.searchCalls[i].created)
	}
	assert.NotEqual(t, firstWindow, mock.searchCalls[len(classify.SearchTerms)].created)
}

func TestQuarterCrawlDeduplicatesByURL(t *testing.T) {
	// The same issue surfaces under two terms and in a second window, with
	// drifted titles on the later sightings.
	issueURL := "https://github.com/acme/app/issues/7"
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		if page > 1 || (term != "i18n" && term != "l10n") {
			return &github.SearchPayload{Items: []github.Issue{}}, nil
		}
		issue := searchIssue(7, issueURL)
		issue.Title = "Dates broken in i18n and l10n flows"
		issue.Body = "See screenshot https://example.com/shot.png"
		if term != "i18n" || created != mock.searchCalls[0].created {
			issue.Title = "ALTERED " + issue.Title
		}
		return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{issue}}, nil
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCollected)
	require.Len(t, result.Records, 1)

	// First sighting wins: the record keeps the title from the i18n pass
	// of the first window and was enriched exactly once.
	record := result.Records[0]
	assert.Equal(t, "Dates broken in i18n and l10n flows", record.Title)
	assert.Equal(t, []string{"i18n", "l10n"}, record.MatchedTerms)
	assert.Equal(t, 1, mock.commentCallCount())
}

func TestQuarterCrawlFiltersIssuesWithoutImages(t *testing.T) {
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		if term != "i18n" || page > 1 || created != "2021-01-01..2021-01-30" {
			return &github.SearchPayload{Items: []github.Issue{}}, nil
		}
		withImage := searchIssue(1, "https://github.com/acme/app/issues/1")
		withImage.Body = "Broken layout: https://example.com/broken.png"
		withoutImage := searchIssue(2, "https://github.com/acme/app/issues/2")
		withoutImage.Body = "No screenshot attached"
		return &github.SearchPayload{TotalCount: 2, Items: []github.Issue{withImage, withoutImage}}, nil
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)

	// Both issues count as collected; only the illustrated one is saved.
	assert.Equal(t, 2, result.TotalCollected)
	require.Len(t, result.Records, 1)
	assert.Equal(t, int64(1), result.Records[0].IssueID)
	assert.Equal(t, []string{"https://example.com/broken.png"}, result.Records[0].ImageURLs)
}

func TestQuarterCrawlCollectsCommentImages(t *testing.T) {
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		if term != "i18n" || page > 1 || created != "2021-01-01..2021-01-30" {
			return &github.SearchPayload{Items: []github.Issue{}}, nil
		}
		issue := searchIssue(3, "https://github.com/acme/app/issues/3")
		issue.Body = "Text overflows in German"
		issue.CommentsURL = "https://api.github.com/repos/acme/app/issues/3/comments"
		return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{issue}}, nil
	}
	mock.fetchComments = func(ctx context.Context, commentsURL string) ([]github.Comment, error) {
		return []github.Comment{
			{Body: "Reproduced, see https://example.com/overflow.jpg"},
			{Body: "Same on mobile"},
		}, nil
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)

	// An issue whose only screenshots live in comments still survives the
	// image filter.
	require.Len(t, result.Records, 1)
	assert.Equal(t, []string{"https://example.com/overflow.jpg"}, result.Records[0].ImageURLs)
}

func TestQuarterCrawlCommentFailureIsNotFatal(t *testing.T) {
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		if term != "i18n" || page > 1 || created != "2021-01-01..2021-01-30" {
			return &github.SearchPayload{Items: []github.Issue{}}, nil
		}
		issue := searchIssue(4, "https://github.com/acme/app/issues/4")
		issue.Body = "Currency symbol missing, screenshot https://example.com/missing.png"
		issue.CommentsURL = "https://api.github.com/repos/acme/app/issues/4/comments"
		return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{issue}}, nil
	}
	mock.fetchComments = func(ctx context.Context, commentsURL string) ([]github.Comment, error) {
		return nil, errors.NewTransport("connection reset")
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)

	// The record survives on its body images alone.
	require.Len(t, result.Records, 1)
	assert.Equal(t, []string{"https://example.com/missing.png"}, result.Records[0].ImageURLs)
}

func TestQuarterCrawlTriggerTermAlwaysMatched(t *testing.T) {
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		if term != "date format" || page > 1 || created != "2021-01-01..2021-01-30" {
			return &github.SearchPayload{Items: []github.Issue{}}, nil
		}
		issue := searchIssue(5, "https://github.com/acme/app/issues/5")
		issue.Title = "Broken dates on settings page"
		issue.Body = "Screenshot: https://example.com/dates.png"
		return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{issue}}, nil
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)

	// The triggering term is recorded even though the text never contains
	// it literally.
	require.Len(t, result.Records, 1)
	assert.Equal(t, []string{"date format"}, result.Records[0].MatchedTerms)
}

func TestQuarterCrawlEnrichment(t *testing.T) {
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		if term != "rtl" || page > 1 || created != "2021-01-01..2021-01-30" {
			return &github.SearchPayload{Items: []github.Issue{}}, nil
		}
		issue := github.Issue{
			ID:            99,
			Title:         "RTL layout mirrored incorrectly",
			Body:          "Arabic locale renders backwards https://example.com/rtl.png",
			HTMLURL:       "https://github.com/acme/app/issues/99",
			RepositoryURL: "https://api.github.com/repos/acme/app",
			Labels:        []github.Label{{Name: "bug"}, {Name: "rtl"}},
			CreatedAt:     "2021-02-01T10:00:00Z",
		}
		return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{issue}}, nil
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, int64(99), record.IssueID)
	assert.Equal(t, "acme/app", record.RepoFull)
	assert.Equal(t, "app", record.Repo)
	assert.Equal(t, []string{"bug", "rtl"}, record.Labels)
	assert.Equal(t, []string{"locale_issue", "rtl_issue"}, record.BugTypes)
	assert.Equal(t, []string{"locale", "rtl"}, record.MatchedTerms)
	assert.Equal(t, "2021-02-01T10:00:00Z", record.CreatedAt)
}

func TestQuarterCrawlFailedPassesDoNotAbort(t *testing.T) {
	mock := &mockSearchAPI{}
	mock.searchIssues = func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
		return nil, errors.NewTransport("connection refused")
	}

	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())
	result, err := crawler.Crawl(context.Background(), 2021, 1)

	// Every pass failed, yet the quarter completes with empty results.
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCollected)
	assert.Empty(t, result.Records)
	assert.Equal(t, 3, result.WindowsCrawled)
}

func TestQuarterCrawlProgressCallback(t *testing.T) {
	mock := &mockSearchAPI{}
	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())

	var progress []string
	crawler.SetProgressFunc(func(year, quarter, done, total int) {
		progress = append(progress, fmt.Sprintf("%d-Q%d %d/%d", year, quarter, done, total))
	})

	// Q3 spans 92 days, so a 30 day interval yields four windows, the
	// oldest clipped to the quarter start.
	_, err := crawler.Crawl(context.Background(), 2022, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-Q3 1/4", "2022-Q3 2/4", "2022-Q3 3/4", "2022-Q3 4/4"}, progress)
}

func TestQuarterCrawlContextCancelled(t *testing.T) {
	mock := &mockSearchAPI{}
	crawler := NewQuarterCrawler(mock, testConfig(), logger.GetLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := crawler.Crawl(ctx, 2021, 1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}
