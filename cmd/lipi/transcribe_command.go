package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lipi/internal/deps"
	"lipi/internal/history"
	"lipi/internal/logging"
	"lipi/internal/textutil"
	"lipi/internal/transcript"
	"lipi/internal/whisper"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "transcribe <audio> [output.json]",
		Short: "Transcribe an audio file with word-level timestamps",
		Long: `Transcribe runs the configured Whisper engine against an audio file and
writes the timestamped transcript as pretty-printed JSON. When no output
path is given, the transcript lands next to the audio file.

On engine failure an error-marker record {"error": "..."} is written to
the output path so downstream consumers never pick up a stale transcript.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			language := strings.TrimSpace(languageFlag)
			if language == "" {
				language = cfg.Whisper.Language
			}
			model := strings.TrimSpace(modelFlag)
			if model == "" {
				model = cfg.Whisper.Model
			}

			audio := args[0]
			output := ""
			if len(args) == 2 {
				output = args[1]
			} else {
				output = defaultTranscriptPath(audio, language)
			}

			service := whisper.NewService(whisper.Config{
				Binary:         cfg.Whisper.Binary,
				Model:          model,
				Device:         cfg.Whisper.Device,
				TimeoutSeconds: cfg.Whisper.TimeoutSeconds,
			}, logger)

			ledger := ctx.openLedger(logger)
			if ledger != nil {
				defer ledger.Close()
			}

			runID := uuid.NewString()
			started := time.Now()

			// The engine check failing still writes the error marker, so
			// downstream consumers see the same record shape for every
			// kind of transcription failure.
			var result whisper.Result
			engine := deps.Check(engineRequirements(cfg)[0])
			if !engine.Available {
				err = fmt.Errorf("whisper engine unavailable: %s", engine.Detail)
			} else {
				result, err = service.Transcribe(cmd.Context(), audio, output, language)
			}
			if err != nil {
				if markerErr := transcript.WriteErrorMarker(output, err.Error()); markerErr != nil {
					logger.Warn("error marker not written",
						logging.String("path", output),
						logging.Error(markerErr))
				}
				appendTranscribeRun(cmd.Context(), logger, ledger, &history.Run{
					RunID:        runID,
					Kind:         history.KindTranscribe,
					InputPath:    audio,
					OutputPath:   output,
					Language:     language,
					Model:        model,
					Status:       history.StatusFailed,
					ErrorMessage: err.Error(),
					DurationMS:   time.Since(started).Milliseconds(),
				})
				return err
			}

			appendTranscribeRun(cmd.Context(), logger, ledger, &history.Run{
				RunID:      runID,
				Kind:       history.KindTranscribe,
				InputPath:  audio,
				OutputPath: result.OutputPath,
				Language:   result.Language,
				Model:      model,
				Status:     history.StatusOK,
				DurationMS: time.Since(started).Milliseconds(),
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcript written to %s\n", result.OutputPath)
			if result.Language != "" {
				fmt.Fprintf(out, "Language: %s\n", result.Language)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language code for the engine (defaults to config)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Whisper model to use (defaults to config)")
	return cmd
}

// defaultTranscriptPath derives the output location when none is given:
// the audio file's directory, stem, and a sanitized language tag.
func defaultTranscriptPath(audio, language string) string {
	stem := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
	name := fmt.Sprintf("%s.%s.json", stem, textutil.SanitizeToken(language))
	return filepath.Join(filepath.Dir(audio), name)
}

func appendTranscribeRun(ctx context.Context, logger *slog.Logger, ledger *history.Store, run *history.Run) {
	if ledger == nil {
		return
	}
	if err := ledger.Append(ctx, run); err != nil {
		logger.Warn("history append failed",
			logging.String(logging.FieldRunID, run.RunID),
			logging.Error(err))
	}
}
