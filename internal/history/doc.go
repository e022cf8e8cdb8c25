// Package history persists a ledger of transcription and check runs in
// SQLite.
//
// The Store manages the database connection, embedded schema migrations, and
// the append/list/clear operations the CLI exposes. Appends are best-effort
// from the callers' point of view: a broken ledger should surface as a
// warning, never fail the run that produced the row.
package history
