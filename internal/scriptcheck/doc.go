// Package scriptcheck orchestrates the script consistency check for one
// transcript: load the record, classify its text, compare against the
// script expected for the declared language, annotate, and persist.
//
// A mismatch is a reported condition, not a failure. Process returns an
// error only when the record cannot be read, parsed, or written back.
package scriptcheck
