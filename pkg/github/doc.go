// Package github provides a client for the GitHub REST API surface the
// crawler uses: date-scoped issue search and issue comment feeds.
//
// This package includes:
//   - A configurable HTTP client with proper headers and typed errors
//   - Schema-validated models for search payloads, issues and comments
//   - Helper functions for constructing search URLs and query strings
//
// Failures come back as *errors.Error values classified by the shared
// taxonomy: 403/429 map to throttled, connectivity failures to transport,
// other non-200 statuses to upstream, and undecodable or malformed payloads
// to parsing. The client never retries on its own; retry policy lives with
// the pager.
//
// Example usage:
//
//	client := github.NewClient(&cfg.GitHub, log)
//
//	payload, err := client.SearchIssues(ctx, "i18n", "2021-01-01..2021-01-30", 1, 10)
//	if err != nil {
//	    switch errors.TypeOf(err) {
//	    case errors.ErrorTypeThrottled:
//	        // Cool down and retry the same page
//	    case errors.ErrorTypeTransport:
//	        // Abandon the window, keep what was collected
//	    }
//	}
//
//	for _, issue := range payload.Items {
//	    comments, _ := client.FetchComments(ctx, issue.CommentsURL)
//	    // Extract image URLs from comment bodies
//	}
package github
