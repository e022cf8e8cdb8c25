package history

import "time"

// Kind distinguishes what produced a ledger row.
type Kind string

const (
	KindCheck      Kind = "check"
	KindTranscribe Kind = "transcribe"
)

// Status records whether a run completed.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Run is one ledger row. Script fields are only populated for check runs,
// Model only for transcribe runs.
type Run struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id"`
	Kind           Kind      `json:"kind"`
	InputPath      string    `json:"input_path,omitempty"`
	OutputPath     string    `json:"output_path,omitempty"`
	Language       string    `json:"language,omitempty"`
	DetectedScript string    `json:"detected_script,omitempty"`
	ExpectedScript string    `json:"expected_script,omitempty"`
	HasMismatch    bool      `json:"has_mismatch"`
	NeedsRetry     bool      `json:"needs_retry"`
	Model          string    `json:"model,omitempty"`
	Status         Status    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats summarizes the ledger for the CLI.
type Stats struct {
	TotalRuns   int64 `json:"total_runs"`
	Checks      int64 `json:"checks"`
	Transcribes int64 `json:"transcribes"`
	Failed      int64 `json:"failed"`
	Mismatches  int64 `json:"mismatches"`
}
