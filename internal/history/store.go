package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: database path required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Append inserts one run into the ledger and fills in its assigned ID.
func (s *Store) Append(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("history: run is nil")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            run_id, kind, input_path, output_path, language,
            detected_script, expected_script, has_mismatch, needs_retry,
            model, status, error_message, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		string(run.Kind),
		nullableString(run.InputPath),
		nullableString(run.OutputPath),
		nullableString(run.Language),
		nullableString(run.DetectedScript),
		nullableString(run.ExpectedScript),
		boolToInt(run.HasMismatch),
		boolToInt(run.NeedsRetry),
		nullableString(run.Model),
		string(run.Status),
		nullableString(run.ErrorMessage),
		run.DurationMS,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	run.ID = id
	return nil
}

const runColumns = "id, run_id, kind, input_path, output_path, language, detected_script, expected_script, has_mismatch, needs_retry, model, status, error_message, duration_ms, created_at"

// Recent returns the newest runs, most recent first. A non-positive limit
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Clear removes every run and reports how many rows were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

// CollectStats summarizes the ledger.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(kind = ?), 0),
               COALESCE(SUM(kind = ?), 0),
               COALESCE(SUM(status = ?), 0),
               COALESCE(SUM(has_mismatch), 0)
        FROM runs`,
		string(KindCheck), string(KindTranscribe), string(StatusFailed))

	var stats Stats
	if err := row.Scan(&stats.TotalRuns, &stats.Checks, &stats.Transcribes, &stats.Failed, &stats.Mismatches); err != nil {
		return Stats{}, fmt.Errorf("ledger stats: %w", err)
	}
	return stats, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run            Run
		kindStr        string
		statusStr      string
		inputPath      sql.NullString
		outputPath     sql.NullString
		language       sql.NullString
		detectedScript sql.NullString
		expectedScript sql.NullString
		hasMismatch    sql.NullInt64
		needsRetry     sql.NullInt64
		model          sql.NullString
		errorMessage   sql.NullString
		createdRaw     string
	)

	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&kindStr,
		&inputPath,
		&outputPath,
		&language,
		&detectedScript,
		&expectedScript,
		&hasMismatch,
		&needsRetry,
		&model,
		&statusStr,
		&errorMessage,
		&run.DurationMS,
		&createdRaw,
	); err != nil {
		return Run{}, err
	}

	run.Kind = Kind(kindStr)
	run.Status = Status(statusStr)
	run.InputPath = inputPath.String
	run.OutputPath = outputPath.String
	run.Language = language.String
	run.DetectedScript = detectedScript.String
	run.ExpectedScript = expectedScript.String
	run.HasMismatch = hasMismatch.Valid && hasMismatch.Int64 != 0
	run.NeedsRetry = needsRetry.Valid && needsRetry.Int64 != 0
	run.Model = model.String
	run.ErrorMessage = errorMessage.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
