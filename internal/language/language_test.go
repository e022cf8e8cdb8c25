package language

import (
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through
		{"en", "en"},
		{"HI", "hi"},
		{"ur", "ur"},
		// 3-letter codes convert
		{"eng", "en"},
		{"hin", "hi"},
		{"urd", "ur"},
		{"ben", "bn"},
		{"guj", "gu"},
		{"tam", "ta"},
		{"tel", "te"},
		{"kan", "kn"},
		{"mal", "ml"},
		{"fas", "fa"},
		{"per", "fa"},
		{"fra", "fr"},
		{"fre", "fr"},
		// Word forms
		{"hindi", "hi"},
		{"Urdu", "ur"},
		{"BANGLA", "bn"},
		{"bengali", "bn"},
		{"malayalam", "ml"},
		{"farsi", "fa"},
		// Unknown 2-letter passes through
		{"xy", "xy"},
		// Unknown 3-letter returns empty
		{"xyz", ""},
		// Empty
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hi", "Hindi"},
		{"hin", "Hindi"},
		{"hindi", "Hindi"},
		{"ur", "Urdu"},
		{"bn", "Bengali"},
		{"bangla", "Bengali"},
		{"gu", "Gujarati"},
		{"ta", "Tamil"},
		{"te", "Telugu"},
		{"kn", "Kannada"},
		{"ml", "Malayalam"},
		{"en", "English"},
		{"fa", "Persian"},
		{"farsi", "Persian"},
		{"", "Unknown"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
