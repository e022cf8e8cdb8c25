// Package watch runs the script consistency check continuously over an
// inbox directory.
//
// New JSON transcripts are picked up via fsnotify, debounced so rapid
// create+write sequences settle before reading, and checked into the
// outbox under the same base name. Files already present when the watcher
// starts are swept once. A file lock keyed to the inbox keeps concurrent
// watchers from racing over the same directory.
//
// Per-file failures are logged and skipped; only setup problems stop the
// watcher.
package watch
