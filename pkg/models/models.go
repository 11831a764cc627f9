package models

import (
	"strconv"
	"strings"
)

// Record is one harvested issue. Field declaration order fixes the JSON key
// order in quarter artifacts, which is part of the output contract.
type Record struct {
	IssueID      int64    `json:"issue_id"`
	RepoFull     string   `json:"repo_full"`
	Repo         string   `json:"repo"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Body         string   `json:"body"`
	Labels       []string `json:"labels"`
	ImageURLs    []string `json:"image_urls"`
	BugTypes     []string `json:"bug_types"`
	MatchedTerms []string `json:"search_terms_found"`
	CreatedAt    string   `json:"created_at"`
}

// Normalize replaces nil slices with empty ones so JSON artifacts carry []
// instead of null
func (r *Record) Normalize() {
	if r.Labels == nil {
		r.Labels = []string{}
	}
	if r.ImageURLs == nil {
		r.ImageURLs = []string{}
	}
	if r.BugTypes == nil {
		r.BugTypes = []string{}
	}
	if r.MatchedTerms == nil {
		r.MatchedTerms = []string{}
	}
}

// HasImages reports whether the record carries at least one image URL
func (r *Record) HasImages() bool {
	return len(r.ImageURLs) > 0
}

// CSVHeader returns the CSV column names in artifact order. The CSV puts
// body before url, unlike the JSON form.
func CSVHeader() []string {
	return []string{
		"issue_id",
		"repo_full",
		"repo",
		"title",
		"body",
		"url",
		"labels",
		"image_urls",
		"bug_types",
		"search_terms_found",
		"created_at",
	}
}

// CSVRow renders the record as a CSV row matching CSVHeader. List fields are
// joined with ", ".
func (r *Record) CSVRow() []string {
	return []string{
		strconv.FormatInt(r.IssueID, 10),
		r.RepoFull,
		r.Repo,
		r.Title,
		r.Body,
		r.URL,
		strings.Join(r.Labels, ", "),
		strings.Join(r.ImageURLs, ", "),
		strings.Join(r.BugTypes, ", "),
		strings.Join(r.MatchedTerms, ", "),
		r.CreatedAt,
	}
}

// SplitRepoURL derives the owner/name pair and bare name from an API
// repository URL. For "https://api.github.com/repos/owner/name" it returns
// ("owner/name", "name"). A URL without a repos/ segment is passed through
// whole.
func SplitRepoURL(repositoryURL string) (full, name string) {
	full = repositoryURL
	if idx := strings.LastIndex(repositoryURL, "repos/"); idx >= 0 {
		full = repositoryURL[idx+len("repos/"):]
	}
	name = full
	if idx := strings.LastIndex(full, "/"); idx >= 0 {
		name = full[idx+1:]
	}
	return full, name
}
