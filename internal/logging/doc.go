// Package logging assembles the structured slog loggers used across the
// application.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and tags every line with the owning component. The package
// also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Diagnostic lines that are part of a command's output contract (the
// check command's SUCCESS/WARNING protocol) go straight to stderr from
// the command and do not pass through this package.
package logging
