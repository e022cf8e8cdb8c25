package script

import "strings"

// Expectation pairs an ISO 639-1 language code with the script its
// transcripts should be written in.
type Expectation struct {
	Language string
	Script   string
}

var expectations = []Expectation{
	{"hi", "devanagari"},
	{"ur", "arabic"},
	{"gu", "gujarati"},
	{"bn", "bengali"},
	{"ta", "tamil"},
	{"te", "telugu"},
	{"kn", "kannada"},
	{"ml", "malayalam"},
}

var byLanguage map[string]string

func init() {
	byLanguage = make(map[string]string, len(expectations))
	for _, e := range expectations {
		byLanguage[e.Language] = e.Script
	}
}

// ExpectedScript returns the script transcripts in the given language
// should use. The code is matched case-insensitively after trimming
// whitespace; unknown, empty, and regioned codes ("hi-IN") all map to
// Latin.
func ExpectedScript(languageCode string) string {
	code := strings.ToLower(strings.TrimSpace(languageCode))
	if s, ok := byLanguage[code]; ok {
		return s
	}
	return Latin
}

// Expectations returns the language-to-script table in declaration
// order.
func Expectations() []Expectation {
	out := make([]Expectation, len(expectations))
	copy(out, expectations)
	return out
}
