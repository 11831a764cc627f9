package cleaner

import (
	"strings"

	"l10nminer/pkg/classify"
)

// BugKeywords are the markers a row must carry somewhere in its title, body
// or labels to count as an actual bug report rather than a feature request
// or general discussion.
var BugKeywords = []string{
	// Generic bug indicators
	"bug", "fix", "error", "fail", "failure", "issue", "problem",
	"broken", "incorrect", "wrong", "unexpected", "missing",
	"lost", "typo", "properly", "failing", "failed", "does not work",
	"doesn't work", "not working",
	// Localization-specific bug indicators
	"not translated", "wrong translation", "missing translation",
	"mistranslation", "translation missing",
}

// validTerms is the search vocabulary plus the spelled-out right-to-left
// phrase, which shows up in issue text but is never used as a search term.
var validTerms = func() []string {
	terms := append([]string(nil), classify.SearchTerms...)
	return append(terms, "right to left")
}()

// ContainsBugKeyword reports whether text mentions any bug keyword.
// Matching is case-insensitive and substring-based.
func ContainsBugKeyword(text string) bool {
	return containsAny(text, BugKeywords)
}

// ContainsSearchTerm reports whether text mentions any recognized
// localization term.
func ContainsSearchTerm(text string) bool {
	return containsAny(text, validTerms)
}

func containsAny(text string, terms []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
