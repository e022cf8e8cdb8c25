package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Binary == "" {
		return errors.New("whisper.binary must be set")
	}
	if c.Whisper.Model == "" {
		return errors.New("whisper.model must be set")
	}
	if c.Whisper.TimeoutSeconds <= 0 {
		return errors.New("whisper.timeout_seconds must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.InDir == "" {
		return errors.New("watch.in_dir must be set")
	}
	if c.Watch.OutDir == "" {
		return errors.New("watch.out_dir must be set")
	}
	if c.Watch.InDir == c.Watch.OutDir {
		return errors.New("watch.in_dir and watch.out_dir must differ: writing checked transcripts back into the watched directory would reprocess them")
	}
	if c.Watch.DebounceMS <= 0 {
		return errors.New("watch.debounce_ms must be positive (milliseconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
