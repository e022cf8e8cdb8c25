// Package language provides unified language code normalization and mapping.
//
// All language-related conversions (ISO 639-1, ISO 639-2, display names)
// are consolidated here so transcript checks, transcription runs, and the
// script registry agree on one spelling of every language code.
package language
