package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTerms(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		trigger  string
		expected []string
	}{
		{
			name:     "trigger present in text",
			text:     "The i18n setup breaks on Turkish",
			trigger:  "i18n",
			expected: []string{"i18n"},
		},
		{
			name:     "trigger absent is appended last",
			text:     "Dates render in the wrong order",
			trigger:  "locale",
			expected: []string{"locale"},
		},
		{
			name:     "multiple terms in canonical order",
			text:     "RTL layout breaks the translation view and the date format is wrong",
			trigger:  "rtl",
			expected: []string{"translation", "date format", "rtl"},
		},
		{
			name:     "case-insensitive matching",
			text:     "LOCALIZATION completely broken",
			trigger:  "localization",
			expected: []string{"localization"},
		},
		{
			name:     "absent trigger goes after natural matches",
			text:     "missing translation for the settings page",
			trigger:  "currency",
			expected: []string{"translation", "missing translation", "currency"},
		},
		{
			name:     "empty text still reports trigger",
			text:     "",
			trigger:  "mirrored layout",
			expected: []string{"mirrored layout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectTerms(tt.text, tt.trigger)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectTermsTriggerAppendedAtEnd(t *testing.T) {
	// The forced trigger always lands after every natural match
	result := DetectTerms("the translation and locale handling regressed", "rtl")

	assert.Equal(t, "rtl", result[len(result)-1])
	assert.Contains(t, result, "translation")
	assert.Contains(t, result, "locale")
}

func TestDetectTermsIdempotent(t *testing.T) {
	text := "RTL truncation with missing translation in the i18n layer"

	first := DetectTerms(text, "i18n")
	second := DetectTerms(text, "i18n")

	assert.Equal(t, first, second)
}

func TestDetectTermsSubstringOverlap(t *testing.T) {
	// "translation" is a substring of "missing translation"; both report
	result := DetectTerms("there is a missing translation here", "translation")

	assert.Equal(t, []string{"translation", "missing translation"}, result)
}

func TestDetectBugTypes(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		body     string
		expected []string
	}{
		{
			name:     "single category",
			title:    "Text is truncated in German",
			body:     "The button label gets cut off",
			expected: []string{"truncation"},
		},
		{
			name:     "multiple categories in taxonomy order",
			title:    "RTL layout broken",
			body:     "Text overlap and wrong encoding for Arabic",
			expected: []string{"overlap_ui", "encoding", "rtl_issue"},
		},
		{
			name:     "category reported once despite multiple keywords",
			title:    "truncated and cut off and clipping",
			body:     "",
			expected: []string{"truncation"},
		},
		{
			name:     "mixed-case keyword matches",
			title:    "Weird ui issue on the settings page",
			body:     "",
			expected: []string{"overlap_ui"},
		},
		{
			name:     "keyword split across title and body does not match",
			title:    "missing",
			body:     "translation", // "missing translation" spans the separator space
			expected: []string{"missing_translation"},
		},
		{
			name:     "no categories",
			title:    "Crash on startup",
			body:     "Segfault in the renderer",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectBugTypes(tt.title, tt.body)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectBugTypesTitleBodyJoin(t *testing.T) {
	// Title and body are joined with a single space before matching, so a
	// phrase ending the title and starting the body still matches
	result := DetectBugTypes("date", "format broken for fr-FR")
	assert.Contains(t, result, "locale_issue")
}

func TestExtractImageURLs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "plain url",
			text:     "see https://example.com/shot.png for details",
			expected: []string{"https://example.com/shot.png"},
		},
		{
			name:     "markdown image",
			text:     `![broken](https://img.example.com/a/broken-layout.jpg)`,
			expected: []string{"https://img.example.com/a/broken-layout.jpg"},
		},
		{
			name: "multiple urls preserve order and duplicates",
			text: "https://a.com/1.png then https://b.com/2.gif then https://a.com/1.png",
			expected: []string{
				"https://a.com/1.png",
				"https://b.com/2.gif",
				"https://a.com/1.png",
			},
		},
		{
			name:     "uppercase extension",
			text:     "screenshot at http://example.com/SCREEN.PNG",
			expected: []string{"http://example.com/SCREEN.PNG"},
		},
		{
			name:     "webp supported",
			text:     "https://cdn.example.com/img.webp",
			expected: []string{"https://cdn.example.com/img.webp"},
		},
		{
			name:     "quote terminates url",
			text:     `<img src="https://example.com/x.jpeg" alt="">`,
			expected: []string{"https://example.com/x.jpeg"},
		},
		{
			name:     "non-image urls ignored",
			text:     "https://example.com/page.html and https://example.com/doc.pdf",
			expected: []string{},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractImageURLs(tt.text)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractImageURLsNeverNil(t *testing.T) {
	result := ExtractImageURLs("no images here")
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func BenchmarkDetectTerms(b *testing.B) {
	text := strings.Repeat("the translation is missing and the locale handling for rtl is broken ", 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectTerms(text, "i18n")
	}
}

func BenchmarkDetectBugTypes(b *testing.B) {
	title := "Truncated RTL text with wrong encoding"
	body := strings.Repeat("the label overlaps and the date format is wrong for ar-SA ", 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectBugTypes(title, body)
	}
}

func BenchmarkExtractImageURLs(b *testing.B) {
	text := strings.Repeat("![x](https://example.com/screenshot.png) some text ", 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ExtractImageURLs(text)
	}
}
