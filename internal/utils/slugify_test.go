package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple word", "Reports", "reports"},
		{"spaces become hyphens", "Quarterly Reports", "quarterly-reports"},
		{"multiple separators collapse", "Q3  --  2025", "q3-2025"},
		{"punctuation stripped", "Design (final)!", "design-final"},
		{"leading and trailing junk", "  ...Drafts...  ", "drafts"},
		{"digits kept", "Plan 2026", "plan-2026"},
		{"already a slug", "meeting-notes", "meeting-notes"},
		{"empty", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
