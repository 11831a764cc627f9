package crawler

import (
	"context"
	"time"

	"l10nminer/pkg/config"
	"l10nminer/pkg/errors"
	"l10nminer/pkg/github"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/ratelimit"
	"l10nminer/pkg/retry"
	"l10nminer/pkg/window"
)

// StopReason records why a paging pass over one (term, window) pair ended.
type StopReason string

const (
	// StopMaxPages - every allowed page was fetched
	StopMaxPages StopReason = "max_pages"
	// StopEmptyPage - the server returned a page with no items
	StopEmptyPage StopReason = "empty_page"
	// StopThrottled - the cooldown budget ran out while the API kept throttling
	StopThrottled StopReason = "throttled"
	// StopTransport - a connectivity failure ended the pass
	StopTransport StopReason = "transport"
	// StopUpstream - a non-200 response or an invalid payload ended the pass
	StopUpstream StopReason = "upstream"
	// StopCancelled - the context was cancelled
	StopCancelled StopReason = "cancelled"
)

// PageSet holds everything one paging pass collected before it stopped.
// Items accumulated before a failure are kept, never discarded.
type PageSet struct {
	Items  []github.Issue
	Pages  int
	Reason StopReason
}

// ThrottleFunc is invoked whenever a page fetch is put on cooldown, before
// the wait starts.
type ThrottleFunc func(term string, page int, cooldown time.Duration)

// Pager walks the result pages for a single search term inside a single
// date window. A throttled response puts the same page back on the table
// after a cooldown; the total time spent cooling down per page is bounded
// by the wait budget. Any other failure ends the pass immediately.
type Pager struct {
	api        SearchAPI
	pacer      ratelimit.Limiter
	maxPages   int
	perPage    int
	cooldown   time.Duration
	waitBudget time.Duration
	onThrottle ThrottleFunc
	logger     logger.Logger
}

// NewPager creates a pager backed by the given search API. The pacer is a
// single-token bucket, so consecutive page fetches are spaced at least one
// page delay apart across every window and term this pager serves.
func NewPager(api SearchAPI, cfg *config.Config, log logger.Logger) *Pager {
	return &Pager{
		api:        api,
		pacer:      ratelimit.NewTokenBucket(1, cfg.RateLimit.PageDelay),
		maxPages:   cfg.Search.MaxPages,
		perPage:    cfg.Search.PerPage,
		cooldown:   cfg.RateLimit.ThrottleCooldown,
		waitBudget: cfg.RateLimit.ThrottleWaitBudget,
		logger:     log.WithField("component", "pager"),
	}
}

// Fetch pulls pages 1..maxPages of results for term within the window and
// returns whatever was collected along with the reason paging stopped.
func (p *Pager) Fetch(ctx context.Context, term string, win window.Window) PageSet {
	set := PageSet{Reason: StopMaxPages}
	created := win.Qualifier()

	for page := 1; page <= p.maxPages; page++ {
		p.pacer.Wait()

		payload, err := p.fetchPage(ctx, term, created, page)
		if err != nil {
			set.Reason = p.classifyStop(ctx, err)
			p.logger.WarnWithFields("Paging stopped early", map[string]interface{}{
				"term":      term,
				"window":    created,
				"page":      page,
				"reason":    string(set.Reason),
				"collected": len(set.Items),
				"error":     err.Error(),
			})
			return set
		}

		set.Pages++
		if len(payload.Items) == 0 {
			set.Reason = StopEmptyPage
			return set
		}
		set.Items = append(set.Items, payload.Items...)
	}

	return set
}

// fetchPage requests one page, riding out throttled responses with a fixed
// cooldown between attempts until the per-page wait budget is spent. The
// page number never advances during a throttle wait.
func (p *Pager) fetchPage(ctx context.Context, term, created string, page int) (*github.SearchPayload, error) {
	var waited time.Duration

	for {
		payload, err := p.api.SearchIssues(ctx, term, created, page, p.perPage)
		if err == nil {
			return payload, nil
		}
		if !errors.IsThrottled(err) {
			return nil, err
		}
		if waited+p.cooldown > p.waitBudget {
			p.logger.WarnWithFields("Throttle wait budget exhausted", map[string]interface{}{
				"term":   term,
				"page":   page,
				"waited": waited.String(),
				"budget": p.waitBudget.String(),
			})
			return nil, err
		}

		logger.LogThrottleWait(term, page, p.cooldown.Seconds())
		if p.onThrottle != nil {
			p.onThrottle(term, page, p.cooldown)
		}
		if waitErr := retry.Wait(ctx, p.cooldown); waitErr != nil {
			return nil, waitErr
		}
		waited += p.cooldown
	}
}

// classifyStop maps a terminal fetch error onto a stop reason. Context
// cancellation wins over the error's own type so callers can tell an
// operator abort apart from an API failure.
func (p *Pager) classifyStop(ctx context.Context, err error) StopReason {
	if ctx.Err() != nil {
		return StopCancelled
	}
	switch errors.TypeOf(err) {
	case errors.ErrorTypeThrottled:
		return StopThrottled
	case errors.ErrorTypeTransport:
		return StopTransport
	default:
		return StopUpstream
	}
}
