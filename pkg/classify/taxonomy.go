package classify

import "strings"

// BugCategory is one labeled bucket of the localization bug taxonomy
type BugCategory struct {
	Name     string
	Keywords []string
}

// Taxonomy is the ordered list of bug categories. Output labels follow this
// order, so reordering it changes every artifact downstream.
var Taxonomy = []BugCategory{
	{
		Name:     "truncation",
		Keywords: []string{"truncate", "truncated", "cut off", "clipping", "overflow"},
	},
	{
		Name:     "missing_translation",
		Keywords: []string{"missing translation", "not translated", "no translation"},
	},
	{
		Name:     "mistranslation",
		Keywords: []string{"wrong translation", "incorrect translation", "mistranslation"},
	},
	{
		Name:     "locale_issue",
		Keywords: []string{"locale", "region", "timezone", "date format", "time format"},
	},
	{
		Name:     "overlap_ui",
		Keywords: []string{"overlap", "misalignment", "layout issue", "UI issue"},
	},
	{
		Name:     "encoding",
		Keywords: []string{"encoding", "utf-8", "unicode", "character set"},
	},
	{
		Name:     "rtl_issue",
		Keywords: []string{"rtl", "right-to-left", "bidirectional", "bidi", "text direction", "mirrored layout"},
	},
}

// DetectBugTypes labels an issue with every taxonomy category whose keywords
// appear in the title or body. A category is reported at most once, and the
// result preserves taxonomy order. Keywords are lowered at match time, so
// mixed-case entries like "UI issue" still match.
func DetectBugTypes(title, body string) []string {
	combined := strings.ToLower(title + " " + body)

	var found []string
	for _, category := range Taxonomy {
		for _, keyword := range category.Keywords {
			if strings.Contains(combined, strings.ToLower(keyword)) {
				found = append(found, category.Name)
				break
			}
		}
	}
	return found
}
