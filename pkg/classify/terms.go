// Package classify derives search term matches, bug type labels, and image
// URLs from issue text. All matching is case-insensitive substring matching
// against the canonical term lists.
package classify

import "strings"

// SearchTerms is the canonical list of localization search terms, in query
// order. Each term drives one search pass per date window.
var SearchTerms = []string{
	"i18n",
	"l10n",
	"localization",
	"internationalization",
	"translation",
	"missing translation",
	"mistranslation",
	"locale",
	"date format",
	"time format",
	"currency",
	"rtl",
	"right-to-left",
	"wrong translation",
	"not translated",
	"text direction",
	"mirrored layout",
}

// DetectTerms returns every canonical search term found in text, in canonical
// order. The trigger term (the one whose query surfaced the issue) is always
// included: when the combined text does not literally contain it, it is
// appended at the end of the result rather than dropped. Search can match on
// fields beyond title and body, so absence from the text does not mean the
// term was spurious.
func DetectTerms(text, trigger string) []string {
	lowered := strings.ToLower(text)

	found := make([]string, 0, 4)
	for _, term := range SearchTerms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			found = append(found, term)
		}
	}

	for _, term := range found {
		if term == trigger {
			return found
		}
	}

	return append(found, trigger)
}
