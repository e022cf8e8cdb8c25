// Package whisper wraps the whisper_timestamped command line engine.
//
// The engine is treated as an opaque collaborator: the service builds the
// argument list, runs the binary against a private work directory, then
// re-persists the engine's JSON payload at the caller's output path via
// internal/transcript so the on-disk format matches checked transcripts.
//
// A command runner can be injected so tests never execute a real engine.
package whisper
