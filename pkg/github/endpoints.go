package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the public GitHub REST API host
	DefaultBaseURL = "https://api.github.com"

	// SearchIssuesEndpoint is the endpoint for the issue search API
	SearchIssuesEndpoint = "/search/issues"

	// DefaultPerPage is the default number of results per search page
	DefaultPerPage = 10

	// MaxPerPage is the largest page size the search API accepts
	MaxPerPage = 100
)

// BuildSearchQuery assembles the q parameter for a term scoped to a
// created-date range. The created qualifier has the form
// "2021-01-01..2021-01-30".
func BuildSearchQuery(term, created string) string {
	return fmt.Sprintf("%s in:title,body is:issue created:%s", term, created)
}

// SearchIssuesURL constructs the URL for one page of issue search results
func SearchIssuesURL(baseURL, term, created string, page, perPage int) string {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	} else if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	params := url.Values{}
	params.Set("q", BuildSearchQuery(term, created))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	return fmt.Sprintf("%s%s?%s", strings.TrimSuffix(baseURL, "/"), SearchIssuesEndpoint, params.Encode())
}

// IsValidDateQualifier checks that a created qualifier is two ISO dates
// joined by "..", the only range form the crawler emits
func IsValidDateQualifier(created string) bool {
	parts := strings.Split(created, "..")
	if len(parts) != 2 {
		return false
	}
	for _, p := range parts {
		if !isISODate(p) {
			return false
		}
	}
	return true
}

func isISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
