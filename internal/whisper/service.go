package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	langpkg "lipi/internal/language"
	"lipi/internal/logging"
	"lipi/internal/transcript"
)

// Service runs the transcription engine and normalizes its output.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
// Empty fields fall back to the engine defaults.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Device == "" {
		cfg.Device = CPUDevice
	}
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisper"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Result contains the outcome of a transcription.
type Result struct {
	// Text is the plain text transcription.
	Text string
	// Language is the language code recorded in the output.
	Language string
	// OutputPath is where the transcript was written.
	OutputPath string
	// Duration is the wall-clock time of the engine run.
	Duration time.Duration
}

// Transcribe runs the engine against source and writes the transcript JSON
// to dest. The engine's own output lands in a private work directory; the
// payload found there is reparsed and re-encoded so dest always carries the
// canonical transcript format, with the language filled in when the engine
// omits it.
func (s *Service) Transcribe(ctx context.Context, source, dest, language string) (Result, error) {
	var result Result

	if source == "" {
		return result, fmt.Errorf("transcribe: audio path required")
	}
	if dest == "" {
		return result, fmt.Errorf("transcribe: output path required")
	}
	if _, err := os.Stat(source); err != nil {
		return result, fmt.Errorf("transcribe: audio file: %w", err)
	}

	workDir, err := os.MkdirTemp("", "lipi-transcribe-*")
	if err != nil {
		return result, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if s.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	s.logger.Info("starting transcription",
		logging.String("audio", source),
		logging.String("model", s.cfg.Model),
		logging.String(logging.FieldLanguage, language))

	started := time.Now()
	args := s.buildArgs(source, workDir, language)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}
	result.Duration = time.Since(started)

	payload, err := findPayload(workDir, source)
	if err != nil {
		return result, err
	}
	record, err := transcript.Load(payload)
	if err != nil {
		return result, fmt.Errorf("transcribe: engine output: %w", err)
	}
	if record.Language() == "" {
		if code := langpkg.ToISO2(language); code != "" {
			if err := record.SetLanguage(code); err != nil {
				return result, fmt.Errorf("transcribe: set language: %w", err)
			}
		}
	}

	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("transcribe: ensure output dir: %w", err)
		}
	}
	if err := record.Save(dest); err != nil {
		return result, fmt.Errorf("transcribe: write output: %w", err)
	}

	result.Text = record.Text()
	result.Language = record.Language()
	result.OutputPath = dest

	s.logger.Info("transcription complete",
		logging.String("output", dest),
		logging.String(logging.FieldLanguage, result.Language),
		logging.Duration("elapsed", result.Duration))
	return result, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the engine invocation for one audio file.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 12)
	args = append(args,
		source,
		"--model", s.cfg.Model,
		"--device", s.cfg.Device,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)
	if code := langpkg.ToISO2(language); code != "" {
		args = append(args, "--language", code)
	}
	return args
}

// findPayload locates the engine's JSON output inside workDir. The engine
// names files after the input audio, with word-level payloads suffixed
// ".words.json"; prefer those, fall back to a lone JSON file.
func findPayload(workDir, source string) (string, error) {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	candidates := []string{
		filepath.Join(workDir, base+".words.json"),
		filepath.Join(workDir, stem+".words.json"),
		filepath.Join(workDir, base+".json"),
		filepath.Join(workDir, stem+".json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	matches, err := filepath.Glob(filepath.Join(workDir, "*.json"))
	if err != nil {
		return "", fmt.Errorf("whisper: scan output dir: %w", err)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return "", fmt.Errorf("whisper: no JSON payload found in %s", workDir)
}
