package cleaner

import "testing"

func TestContainsBugKeyword(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Crash: app fails on startup", true},
		{"The label is NOT TRANSLATED in German", true},
		{"Search doesn't work with accented characters", true},
		{"Dates render properly only in English", true},
		{"Translation missing for the cancel button", true},
		{"Add plural support for Polish", false},
		{"Document the release process", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsBugKeyword(tt.text); got != tt.want {
			t.Errorf("ContainsBugKeyword(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestContainsSearchTerm(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"i18n broken in the settings panel", true},
		{"Arabic right to left rendering is mirrored", true},
		{"Wrong LOCALE picked on first launch", true},
		{"Currency shows as question marks", true},
		{"Button misaligned on small screens", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsSearchTerm(tt.text); got != tt.want {
			t.Errorf("ContainsSearchTerm(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBugKeywordListIsDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range BugKeywords {
		if seen[k] {
			t.Errorf("Duplicate bug keyword %q", k)
		}
		seen[k] = true
	}

	// Multi-word phrases must stay separate entries, not fuse into one.
	for _, k := range []string{"not working", "not translated"} {
		if !seen[k] {
			t.Errorf("Expected %q in bug keyword list", k)
		}
	}
}
