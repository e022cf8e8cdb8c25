package scriptcheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lipi/internal/history"
	"lipi/internal/logging"
	"lipi/internal/script"
	"lipi/internal/transcript"
)

// Runner drives the check pipeline and records outcomes in the ledger.
type Runner struct {
	logger *slog.Logger
	ledger *history.Store
}

// NewRunner creates a Runner. The ledger may be nil to disable history.
func NewRunner(logger *slog.Logger, ledger *history.Store) *Runner {
	return &Runner{
		logger: logging.NewComponentLogger(logger, "scriptcheck"),
		ledger: ledger,
	}
}

// Outcome describes one completed check.
type Outcome struct {
	RunID      string
	InputPath  string
	OutputPath string
	Language   string
	Report     script.Report
	Duration   time.Duration
}

// Process checks the transcript at inputPath against the script expected
// for language and writes the annotated record to outputPath. The input
// record's other fields pass through untouched, so running Process on its
// own output yields the same annotation.
func (r *Runner) Process(ctx context.Context, inputPath, outputPath, language string) (Outcome, error) {
	outcome := Outcome{
		RunID:      uuid.NewString(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Language:   language,
	}
	started := time.Now()

	record, err := transcript.Load(inputPath)
	if err != nil {
		err = fmt.Errorf("read transcript: %w", err)
		r.appendLedger(ctx, outcome, history.StatusFailed, err)
		return outcome, err
	}

	outcome.Report = script.Inspect(record.Text(), language)
	if err := record.SetScriptIssue(outcome.Report); err != nil {
		err = fmt.Errorf("annotate transcript: %w", err)
		r.appendLedger(ctx, outcome, history.StatusFailed, err)
		return outcome, err
	}

	if err := record.Save(outputPath); err != nil {
		err = fmt.Errorf("write transcript: %w", err)
		r.appendLedger(ctx, outcome, history.StatusFailed, err)
		return outcome, err
	}
	outcome.Duration = time.Since(started)

	if outcome.Report.HasMismatch {
		r.logger.Warn("script mismatch detected",
			logging.String(logging.FieldRunID, outcome.RunID),
			logging.String(logging.FieldLanguage, language),
			logging.String("expected_script", outcome.Report.ExpectedScript),
			logging.String("detected_script", outcome.Report.DetectedScript),
			logging.Alert("needs_retranscription"))
	} else {
		r.logger.Info("script matches expected",
			logging.String(logging.FieldRunID, outcome.RunID),
			logging.String(logging.FieldLanguage, language),
			logging.String("detected_script", outcome.Report.DetectedScript))
	}

	r.appendLedger(ctx, outcome, history.StatusOK, nil)
	return outcome, nil
}

// appendLedger records the run. Ledger trouble is logged, never returned:
// the check itself already succeeded or failed on its own terms.
func (r *Runner) appendLedger(ctx context.Context, outcome Outcome, status history.Status, runErr error) {
	if r.ledger == nil {
		return
	}
	run := &history.Run{
		RunID:          outcome.RunID,
		Kind:           history.KindCheck,
		InputPath:      outcome.InputPath,
		OutputPath:     outcome.OutputPath,
		Language:       outcome.Language,
		DetectedScript: outcome.Report.DetectedScript,
		ExpectedScript: outcome.Report.ExpectedScript,
		HasMismatch:    outcome.Report.HasMismatch,
		NeedsRetry:     outcome.Report.NeedsRetranscription,
		Status:         status,
		DurationMS:     outcome.Duration.Milliseconds(),
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	if err := r.ledger.Append(ctx, run); err != nil {
		r.logger.Warn("history append failed",
			logging.String(logging.FieldRunID, outcome.RunID),
			logging.Error(err))
	}
}
