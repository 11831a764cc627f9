package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MockIssue is one seeded issue the mock server can return from search and
// serve comments for.
type MockIssue struct {
	ID        int64
	Number    int
	Repo      string // owner/name
	Title     string
	Body      string
	Labels    []string
	CreatedAt string // RFC 3339
	Comments  []string
}

// MockGitHubServer simulates the GitHub search and comments endpoints with
// realistic pagination, date filtering and throttling behavior.
type MockGitHubServer struct {
	server        *httptest.Server
	requestCount  int32
	searchCount   int32
	throttleHits  int32
	throttleNext  int32
	mu            sync.RWMutex
	issues        []MockIssue
	errorStatuses map[string]int           // endpoint substring -> status code
	delays        map[string]time.Duration // endpoint substring -> delay
	queries       []SearchQuery            // every search request seen
}

// SearchQuery records one search request the server handled.
type SearchQuery struct {
	Term    string
	Since   string
	Until   string
	Page    int
	PerPage int
}

// NewMockGitHubServer creates a mock GitHub API server with no seeded issues
func NewMockGitHubServer() *MockGitHubServer {
	m := &MockGitHubServer{
		errorStatuses: make(map[string]int),
		delays:        make(map[string]time.Duration),
	}

	mux := http.NewServeMux()

	// Issue search endpoint
	mux.HandleFunc("/search/issues", m.handleSearch)

	// Comment feeds, e.g. /repos/acme/app/issues/7/comments
	mux.HandleFunc("/repos/", m.handleComments)

	m.server = httptest.NewServer(mux)
	return m
}

// AddIssue seeds an issue into the searchable corpus
func (m *MockGitHubServer) AddIssue(issue MockIssue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issues = append(m.issues, issue)
}

// handleSearch answers one page of issue search results. The q parameter is
// parsed back into its term and created range, and seeded issues are matched
// the way the real search would: case-insensitive text match within the
// created-date window.
func (m *MockGitHubServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.searchCount, 1)

	if delay := m.getDelay("/search/issues"); delay > 0 {
		time.Sleep(delay)
	}

	if code := m.getErrorStatus("/search/issues"); code > 0 {
		m.sendError(w, code)
		return
	}

	// Serve any pending forced throttles before real results.
	if atomic.LoadInt32(&m.throttleNext) > 0 {
		atomic.AddInt32(&m.throttleNext, -1)
		atomic.AddInt32(&m.throttleHits, 1)
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":           "API rate limit exceeded",
			"documentation_url": "https://docs.github.com/rest/search",
		})
		return
	}

	term, since, until, ok := parseSearchQuery(r.URL.Query().Get("q"))
	if !ok {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Validation Failed",
		})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = 30
	}

	m.mu.Lock()
	m.queries = append(m.queries, SearchQuery{
		Term: term, Since: since, Until: until, Page: page, PerPage: perPage,
	})
	m.mu.Unlock()

	matches := m.matchIssues(term, since, until)

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(matches) {
		start = len(matches)
	}
	if end > len(matches) {
		end = len(matches)
	}

	items := make([]map[string]interface{}, 0, end-start)
	for _, issue := range matches[start:end] {
		items = append(items, m.issueJSON(issue))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_count":        len(matches),
		"incomplete_results": false,
		"items":              items,
	})
}

// handleComments serves an issue's comment feed
func (m *MockGitHubServer) handleComments(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(r.URL.Path); delay > 0 {
		time.Sleep(delay)
	}

	if code := m.getErrorStatus(r.URL.Path); code > 0 {
		m.sendError(w, code)
		return
	}

	// Path shape: /repos/{owner}/{name}/issues/{number}/comments
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 6 || parts[0] != "repos" || parts[3] != "issues" || parts[5] != "comments" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	repo := parts[1] + "/" + parts[2]
	number, err := strconv.Atoi(parts[4])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, issue := range m.issues {
		if issue.Repo != repo || issue.Number != number {
			continue
		}
		comments := make([]map[string]interface{}, 0, len(issue.Comments))
		for i, body := range issue.Comments {
			comments = append(comments, map[string]interface{}{
				"id":   issue.ID*100 + int64(i),
				"body": body,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(comments)
		return
	}

	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Not Found",
	})
}

// matchIssues returns the seeded issues whose text mentions the term and
// whose creation date falls inside the inclusive window, in seed order
func (m *MockGitHubServer) matchIssues(term, since, until string) []MockIssue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lowered := strings.ToLower(term)

	var matches []MockIssue
	for _, issue := range m.issues {
		text := strings.ToLower(issue.Title + " " + issue.Body)
		if !strings.Contains(text, lowered) {
			continue
		}
		created := issue.CreatedAt
		if len(created) >= 10 {
			created = created[:10]
		}
		if created < since || created > until {
			continue
		}
		matches = append(matches, issue)
	}
	return matches
}

// issueJSON renders a seeded issue the way the search API would. The
// comments URL points back at this server so comment fetches work.
func (m *MockGitHubServer) issueJSON(issue MockIssue) map[string]interface{} {
	labels := make([]map[string]interface{}, 0, len(issue.Labels))
	for _, name := range issue.Labels {
		labels = append(labels, map[string]interface{}{"name": name})
	}

	return map[string]interface{}{
		"id":             issue.ID,
		"number":         issue.Number,
		"title":          issue.Title,
		"body":           issue.Body,
		"html_url":       fmt.Sprintf("https://github.com/%s/issues/%d", issue.Repo, issue.Number),
		"repository_url": fmt.Sprintf("%s/repos/%s", m.server.URL, issue.Repo),
		"comments_url":   fmt.Sprintf("%s/repos/%s/issues/%d/comments", m.server.URL, issue.Repo, issue.Number),
		"labels":         labels,
		"created_at":     issue.CreatedAt,
	}
}

// parseSearchQuery splits a crawl query string back into its parts. The
// crawler emits "{term} in:title,body is:issue created:{since}..{until}".
func parseSearchQuery(q string) (term, since, until string, ok bool) {
	idx := strings.Index(q, " in:title,body is:issue created:")
	if idx < 0 {
		return "", "", "", false
	}
	term = q[:idx]
	created := q[idx+len(" in:title,body is:issue created:"):]

	parts := strings.Split(created, "..")
	if len(parts) != 2 || term == "" {
		return "", "", "", false
	}
	return term, parts[0], parts[1], true
}

// sendError writes an error response with a GitHub-shaped body
func (m *MockGitHubServer) sendError(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": http.StatusText(code),
	})
}

// ThrottleNext makes the next n search requests return 403 rate limit
// responses before normal service resumes
func (m *MockGitHubServer) ThrottleNext(n int) {
	atomic.StoreInt32(&m.throttleNext, int32(n))
}

// SetErrorResponse configures an endpoint to return a specific status code
func (m *MockGitHubServer) SetErrorResponse(endpoint string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorStatuses[endpoint] = code
}

// ClearErrorResponse removes error configuration for an endpoint
func (m *MockGitHubServer) ClearErrorResponse(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorStatuses, endpoint)
}

// SetDelay configures a response delay for an endpoint
func (m *MockGitHubServer) SetDelay(endpoint string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[endpoint] = delay
}

func (m *MockGitHubServer) getErrorStatus(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for endpoint, code := range m.errorStatuses {
		if strings.Contains(path, endpoint) {
			return code
		}
	}
	return 0
}

func (m *MockGitHubServer) getDelay(path string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for endpoint, delay := range m.delays {
		if strings.Contains(path, endpoint) {
			return delay
		}
	}
	return 0
}

// GetURL returns the base URL of the mock server
func (m *MockGitHubServer) GetURL() string {
	return m.server.URL
}

// GetRequestCount returns the total number of requests handled
func (m *MockGitHubServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetSearchCount returns the number of search requests handled
func (m *MockGitHubServer) GetSearchCount() int {
	return int(atomic.LoadInt32(&m.searchCount))
}

// GetThrottleHits returns the number of throttle responses served
func (m *MockGitHubServer) GetThrottleHits() int {
	return int(atomic.LoadInt32(&m.throttleHits))
}

// SearchQueries returns a copy of every search request handled so far
func (m *MockGitHubServer) SearchQueries() []SearchQuery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SearchQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

// ResetCounters resets request counters and the recorded query log
func (m *MockGitHubServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
	atomic.StoreInt32(&m.searchCount, 0)
	atomic.StoreInt32(&m.throttleHits, 0)
	m.mu.Lock()
	m.queries = nil
	m.mu.Unlock()
}

// Close shuts down the mock server
func (m *MockGitHubServer) Close() {
	m.server.Close()
}
