package script

// Report is the outcome of comparing a transcript's detected script
// against the one its language calls for. It is embedded into
// transcript records under the "script_issue" key, so the field names
// are part of the on-disk format.
type Report struct {
	HasMismatch          bool   `json:"has_mismatch"`
	ExpectedScript       string `json:"expected_script"`
	DetectedScript       string `json:"detected_script"`
	NeedsRetranscription bool   `json:"needs_retranscription"`
}

// Evaluate compares a detected script with an expected one. Any
// difference is a mismatch, and every mismatch flags the transcript
// for retranscription.
func Evaluate(detected, expected string) Report {
	mismatch := detected != expected
	return Report{
		HasMismatch:          mismatch,
		ExpectedScript:       expected,
		DetectedScript:       detected,
		NeedsRetranscription: mismatch,
	}
}

// Inspect classifies text and evaluates it against the expectation for
// languageCode in one step.
func Inspect(text, languageCode string) Report {
	return Evaluate(Classify(text), ExpectedScript(languageCode))
}
