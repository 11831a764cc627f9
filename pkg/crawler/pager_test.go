package crawler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l10nminer/pkg/config"
	"l10nminer/pkg/errors"
	"l10nminer/pkg/github"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/window"
)

// mockSearchAPI is a mock implementation of the SearchAPI interface
type mockSearchAPI struct {
	mu            sync.Mutex
	searchIssues  func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error)
	fetchComments func(ctx context.Context, commentsURL string) ([]github.Comment, error)

	searchCalls  []searchCall
	commentCalls []string
}

type searchCall struct {
	term    string
	created string
	page    int
}

func (m *mockSearchAPI) SearchIssues(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, searchCall{term: term, created: created, page: page})
	m.mu.Unlock()
	if m.searchIssues != nil {
		return m.searchIssues(ctx, term, created, page, perPage)
	}
	return &github.SearchPayload{Items: []github.Issue{}}, nil
}

func (m *mockSearchAPI) FetchComments(ctx context.Context, commentsURL string) ([]github.Comment, error) {
	m.mu.Lock()
	m.commentCalls = append(m.commentCalls, commentsURL)
	m.mu.Unlock()
	if m.fetchComments != nil {
		return m.fetchComments(ctx, commentsURL)
	}
	return nil, nil
}

func (m *mockSearchAPI) pagesRequested() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pages := make([]int, len(m.searchCalls))
	for i, call := range m.searchCalls {
		pages[i] = call.page
	}
	return pages
}

func (m *mockSearchAPI) commentCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commentCalls)
}

// testConfig returns a config with timings shrunk for tests
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Search.MaxPages = 3
	cfg.Search.PerPage = 10
	cfg.RateLimit.PageDelay = time.Millisecond
	cfg.RateLimit.ThrottleCooldown = 5 * time.Millisecond
	cfg.RateLimit.ThrottleWaitBudget = 20 * time.Millisecond
	cfg.Campaign.IntervalDays = 30
	cfg.Notifications.Enabled = false
	return cfg
}

func searchIssue(id int64, url string) github.Issue {
	return github.Issue{
		ID:            id,
		Title:         fmt.Sprintf("issue %d", id),
		HTMLURL:       url,
		RepositoryURL: "https://api.github.com/repos/acme/app",
		CreatedAt:     "2021-02-03T04:05:06Z",
	}
}

func testWindow() window.Window {
	return window.Window{
		Since: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2021, 1, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestPagerFetchAllPages(t *testing.T) {
	mock := &mockSearchAPI{
		searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
			return &github.SearchPayload{
				TotalCount: 30,
				Items: []github.Issue{
					searchIssue(int64(page*10), fmt.Sprintf("https://github.com/acme/app/issues/%d", page*10)),
					searchIssue(int64(page*10+1), fmt.Sprintf("https://github.com/acme/app/issues/%d", page*10+1)),
				},
			}, nil
		},
	}

	pager := NewPager(mock, testConfig(), logger.GetLogger())
	set := pager.Fetch(context.Background(), "i18n", testWindow())

	assert.Equal(t, StopMaxPages, set.Reason)
	assert.Equal(t, 3, set.Pages)
	assert.Len(t, set.Items, 6)
	assert.Equal(t, []int{1, 2, 3}, mock.pagesRequested())
	assert.Equal(t, "2021-01-01..2021-01-30", mock.searchCalls[0].created)
	assert.Equal(t, "i18n", mock.searchCalls[0].term)
}

func TestPagerStopsOnEmptyPage(t *testing.T) {
	mock := &mockSearchAPI{
		searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
			if page == 1 {
				return &github.SearchPayload{
					TotalCount: 1,
					Items:      []github.Issue{searchIssue(1, "https://github.com/acme/app/issues/1")},
				}, nil
			}
			return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{}}, nil
		},
	}

	pager := NewPager(mock, testConfig(), logger.GetLogger())
	set := pager.Fetch(context.Background(), "l10n", testWindow())

	assert.Equal(t, StopEmptyPage, set.Reason)
	assert.Equal(t, 2, set.Pages)
	assert.Len(t, set.Items, 1)
	assert.Equal(t, []int{1, 2}, mock.pagesRequested())
}

func TestPagerThrottleRetriesSamePage(t *testing.T) {
	attempts := 0
	mock := &mockSearchAPI{
		searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
			if page == 1 {
				attempts++
				if attempts <= 2 {
					return nil, errors.NewThrottled(403, "rate limit hit")
				}
				return &github.SearchPayload{
					TotalCount: 1,
					Items:      []github.Issue{searchIssue(1, "https://github.com/acme/app/issues/1")},
				}, nil
			}
			return &github.SearchPayload{TotalCount: 1, Items: []github.Issue{}}, nil
		},
	}

	cfg := testConfig()
	pager := NewPager(mock, cfg, logger.GetLogger())

	waits := 0
	pager.onThrottle = func(term string, page int, cooldown time.Duration) {
		waits++
		assert.Equal(t, "i18n", term)
		assert.Equal(t, 1, page)
		assert.Equal(t, cfg.RateLimit.ThrottleCooldown, cooldown)
	}

	start := time.Now()
	set := pager.Fetch(context.Background(), "i18n", testWindow())

	// Two cooldowns were served and the page number never moved during them.
	assert.Equal(t, 2, waits)
	assert.GreaterOrEqual(t, time.Since(start), 2*cfg.RateLimit.ThrottleCooldown)
	assert.Equal(t, []int{1, 1, 1, 2}, mock.pagesRequested())
	assert.Equal(t, StopEmptyPage, set.Reason)
	require.Len(t, set.Items, 1)
	assert.Equal(t, "https://github.com/acme/app/issues/1", set.Items[0].HTMLURL)
}

func TestPagerThrottleBudgetExhausted(t *testing.T) {
	mock := &mockSearchAPI{
		searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
			return nil, errors.NewThrottled(429, "rate limit hit")
		},
	}

	cfg := testConfig()
	pager := NewPager(mock, cfg, logger.GetLogger())
	set := pager.Fetch(context.Background(), "locale", testWindow())

	assert.Equal(t, StopThrottled, set.Reason)
	assert.Empty(t, set.Items)
	assert.Equal(t, 0, set.Pages)

	// A 20ms budget at 5ms per cooldown buys four retries: five attempts
	// total, all for page 1.
	assert.Equal(t, []int{1, 1, 1, 1, 1}, mock.pagesRequested())
}

func TestPagerKeepsCollectedOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected StopReason
	}{
		{"transport failure", errors.NewTransport("connection refused"), StopTransport},
		{"server error", errors.NewUpstream(500, "internal server error"), StopUpstream},
		{"validation error", errors.NewUpstream(422, "validation failed"), StopUpstream},
		{"malformed payload", errors.NewParsing("missing items array"), StopUpstream},
		{"missing resource", errors.NewNotFound("resource not found"), StopUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSearchAPI{
				searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
					if page == 1 {
						return &github.SearchPayload{
							TotalCount: 1,
							Items:      []github.Issue{searchIssue(1, "https://github.com/acme/app/issues/1")},
						}, nil
					}
					return nil, tt.err
				},
			}

			pager := NewPager(mock, testConfig(), logger.GetLogger())
			set := pager.Fetch(context.Background(), "translation", testWindow())

			assert.Equal(t, tt.expected, set.Reason)
			assert.Equal(t, 1, set.Pages)
			assert.Len(t, set.Items, 1, "items collected before the failure must survive")
		})
	}
}

func TestPagerCancelledDuringCooldown(t *testing.T) {
	mock := &mockSearchAPI{
		searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
			return nil, errors.NewThrottled(403, "rate limit hit")
		},
	}

	cfg := testConfig()
	cfg.RateLimit.ThrottleCooldown = 200 * time.Millisecond
	cfg.RateLimit.ThrottleWaitBudget = 10 * time.Second
	pager := NewPager(mock, cfg, logger.GetLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	set := pager.Fetch(ctx, "rtl", testWindow())
	assert.Equal(t, StopCancelled, set.Reason)
}

func TestPagerPacesPageFetches(t *testing.T) {
	mock := &mockSearchAPI{
		searchIssues: func(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error) {
			return &github.SearchPayload{
				TotalCount: 100,
				Items:      []github.Issue{searchIssue(int64(page), fmt.Sprintf("https://github.com/acme/app/issues/%d", page))},
			}, nil
		},
	}

	cfg := testConfig()
	cfg.RateLimit.PageDelay = 30 * time.Millisecond
	pager := NewPager(mock, cfg, logger.GetLogger())

	start := time.Now()
	set := pager.Fetch(context.Background(), "currency", testWindow())
	elapsed := time.Since(start)

	assert.Equal(t, 3, set.Pages)
	// The first fetch is immediate; the two that follow each wait out the
	// page delay.
	assert.GreaterOrEqual(t, elapsed, 2*cfg.RateLimit.PageDelay)
}
