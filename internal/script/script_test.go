package script

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Single-script text
		{"devanagari", "नमस्ते दुनिया", "devanagari"},
		{"arabic", "اردو زبان", "arabic"},
		{"bengali", "আমার সোনার বাংলা", "bengali"},
		{"gujarati", "ગુજરાતી", "gujarati"},
		{"tamil", "தமிழ்", "tamil"},
		{"telugu", "తెలుగు", "telugu"},
		{"kannada", "ಕನ್ನಡ", "kannada"},
		{"malayalam", "മലയാളം", "malayalam"},
		// Nothing registered falls back to latin
		{"english", "hello world", "latin"},
		{"digits", "12345", "latin"},
		{"punctuation", "?!,.;", "latin"},
		{"empty", "", "latin"},
		{"whitespace", "   \n\t", "latin"},
		// Latin characters are never counted, so any registered
		// script wins regardless of how much ASCII surrounds it
		{"ascii majority", "the quick brown fox says नमस्ते", "devanagari"},
		{"markup", "<p>ನಮಸ್ಕಾರ</p>", "kannada"},
		// Majority between two registered scripts
		{"bengali majority", "নমস্কার নমস্কার नमस्ते", "bengali"},
		{"devanagari majority", "नमस्ते दुनिया আম", "devanagari"},
		// Ties keep the earlier registry entry
		{"tie arabic devanagari", "اन", "arabic"},
		{"tie devanagari bengali", "नঅ", "devanagari"},
		// Danda sits inside the Devanagari block
		{"danda", "।", "devanagari"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Classify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	input := "नमस्ते দুনিয়া ಕನ್ನಡ hello"
	first := Classify(input)
	for i := 0; i < 50; i++ {
		if got := Classify(input); got != first {
			t.Fatalf("Classify is not deterministic: %q then %q", first, got)
		}
	}
}

func TestRangesOrdering(t *testing.T) {
	ranges := Ranges()
	if len(ranges) == 0 {
		t.Fatal("Ranges() returned no entries")
	}
	if ranges[0].Name != "arabic" {
		t.Errorf("first range = %q, want %q", ranges[0].Name, "arabic")
	}
	for i := 1; i < len(ranges); i++ {
		prev := ranges[i-1].Intervals[0].Lo
		cur := ranges[i].Intervals[0].Lo
		if cur <= prev {
			t.Errorf("registry not ordered by first code point: %s (%U) after %s (%U)",
				ranges[i].Name, cur, ranges[i-1].Name, prev)
		}
	}
}

func TestKnown(t *testing.T) {
	for _, r := range Ranges() {
		if !Known(r.Name) {
			t.Errorf("Known(%q) = false, want true", r.Name)
		}
	}
	if !Known(Latin) {
		t.Error("Known(latin) = false, want true")
	}
	if Known("klingon") {
		t.Error("Known(klingon) = true, want false")
	}
}
