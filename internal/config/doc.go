// Package config loads, normalizes, and validates lipi configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WHISPER_CACHE_DIR. The Config type centralizes every knob the CLI needs,
// from the speech engine invocation to the watch directories and the run
// history database.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
