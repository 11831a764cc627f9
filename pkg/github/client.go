package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"l10nminer/pkg/config"
	"l10nminer/pkg/errors"
	"l10nminer/pkg/logger"
)

// Client handles HTTP communication with the GitHub REST API.
//
// The client performs exactly one attempt per call. Throttle cooldowns and
// same-page retries belong to the pager, and transport failures must surface
// unretried so the current window can be abandoned with whatever was already
// collected.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a search API client from the access configuration
func NewClient(cfg *config.GitHubConfig, log logger.Logger) *Client {
	headers := map[string]string{
		"Accept":     "application/vnd.github+json",
		"User-Agent": cfg.UserAgent,
	}
	if cfg.Token != "" {
		headers["Authorization"] = "token " + cfg.Token
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers:    headers,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     log.WithField("component", "github_client"),
	}
}

// BaseURL returns the API host the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether requests carry a token
func (c *Client) Authenticated() bool {
	_, ok := c.headers["Authorization"]
	return ok
}

// SetHeader sets a custom header for all subsequent requests
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple custom headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// doRequest performs a single GET with the configured headers
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewTransport(fmt.Sprintf("failed to create request: %v", err))
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.logger.DebugWithFields("Sending API request", map[string]interface{}{
		"url":    url,
		"method": "GET",
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Error("Request failed")
		return nil, errors.NewTransport(fmt.Sprintf("request failed: %v", err))
	}

	c.logger.DebugWithFields("Received API response", map[string]interface{}{
		"url":         url,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return resp, nil
}

// checkResponseStatus maps a non-200 status to a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	if errors.IsThrottleStatus(resp.StatusCode) {
		return errors.NewThrottled(resp.StatusCode, "search API rate limit hit")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.NewNotFound("resource not found")
	default:
		return errors.NewUpstream(resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}
}

// Get performs a GET request and returns the raw response. The caller owns
// the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response into target
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewTransport(fmt.Sprintf("failed to read response body: %v", err))
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		c.logger.ErrorWithFields("Failed to parse API response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errors.NewParsing(fmt.Sprintf("failed to parse response: %v", err))
	}

	return nil
}

// SearchIssues fetches one page of issue search results for a term within a
// created-date window. The payload is validated before it is returned, so a
// response that decoded into the wrong shape comes back as a parsing error
// rather than a payload with half-formed items.
func (c *Client) SearchIssues(ctx context.Context, term, created string, page, perPage int) (*SearchPayload, error) {
	url := SearchIssuesURL(c.baseURL, term, created, page, perPage)

	var payload SearchPayload
	if err := c.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	if err := payload.Validate(); err != nil {
		c.logger.WarnWithFields("Search payload failed validation", map[string]interface{}{
			"term":  term,
			"page":  page,
			"error": err.Error(),
		})
		return nil, errors.NewParsing(fmt.Sprintf("search payload: %v", err))
	}

	c.logger.DebugWithFields("Search page fetched", map[string]interface{}{
		"term":        term,
		"created":     created,
		"page":        page,
		"items":       len(payload.Items),
		"total_count": payload.TotalCount,
	})

	return &payload, nil
}

// FetchComments retrieves an issue's comments in feed order. The comments
// URL comes straight from the search payload.
func (c *Client) FetchComments(ctx context.Context, commentsURL string) ([]Comment, error) {
	if commentsURL == "" {
		return nil, nil
	}

	var comments []Comment
	if err := c.GetJSON(ctx, commentsURL, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}
