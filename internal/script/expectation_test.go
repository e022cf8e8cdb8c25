package script

import (
	"testing"
)

func TestExpectedScript(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hi", "devanagari"},
		{"ur", "arabic"},
		{"gu", "gujarati"},
		{"bn", "bengali"},
		{"ta", "tamil"},
		{"te", "telugu"},
		{"kn", "kannada"},
		{"ml", "malayalam"},
		// Case and whitespace are normalized
		{"HI", "devanagari"},
		{" ta ", "tamil"},
		{"Ur", "arabic"},
		// Anything else defaults to latin
		{"en", "latin"},
		{"fr", "latin"},
		{"", "latin"},
		{"  ", "latin"},
		{"xx", "latin"},
		// Only bare two-letter codes match
		{"hi-IN", "latin"},
		{"hindi", "latin"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ExpectedScript(tt.input)
			if result != tt.expected {
				t.Errorf("ExpectedScript(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExpectationsCoverRegistry(t *testing.T) {
	covered := make(map[string]bool)
	for _, e := range Expectations() {
		if !Known(e.Script) {
			t.Errorf("expectation for %q names unregistered script %q", e.Language, e.Script)
		}
		covered[e.Script] = true
	}
	for _, r := range Ranges() {
		if !covered[r.Name] {
			t.Errorf("no language expects script %q", r.Name)
		}
	}
}
