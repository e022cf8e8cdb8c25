package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lipi/internal/config"
	"lipi/internal/scriptcheck"
	"lipi/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var inDirFlag string
	var outDirFlag string
	var languageFlag string
	var debounceMSFlag int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously check transcripts dropped into a directory",
		Long: `Watch monitors an inbox directory for new JSON transcripts, runs the
script consistency check on each one once it settles, and writes the
annotated result to the outbox under the same name. Transcripts already
in the inbox are processed on startup. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			inDir := strings.TrimSpace(inDirFlag)
			if inDir == "" {
				inDir = cfg.Watch.InDir
			}
			outDir := strings.TrimSpace(outDirFlag)
			if outDir == "" {
				outDir = cfg.Watch.OutDir
			}
			language := strings.TrimSpace(languageFlag)
			if language == "" {
				language = cfg.Watch.Language
			}
			if language == "" {
				return errors.New("watch needs a language: set watch.language in config or pass --language")
			}

			inDir, err = config.ExpandPath(inDir)
			if err != nil {
				return err
			}
			outDir, err = config.ExpandPath(outDir)
			if err != nil {
				return err
			}

			debounceMS := debounceMSFlag
			if debounceMS <= 0 {
				debounceMS = cfg.Watch.DebounceMS
			}

			ledger := ctx.openLedger(logger)
			if ledger != nil {
				defer ledger.Close()
			}
			runner := scriptcheck.NewRunner(logger, ledger)

			watcher, err := watch.New(watch.Options{
				InDir:    inDir,
				OutDir:   outDir,
				Language: language,
				Debounce: time.Duration(debounceMS) * time.Millisecond,
			}, func(ctx context.Context, inputPath, outputPath, language string) error {
				_, err := runner.Process(ctx, inputPath, outputPath, language)
				return err
			}, logger)
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watcher.Run(sigCtx)
		},
	}

	cmd.Flags().StringVar(&inDirFlag, "in", "", "Inbox directory to watch (defaults to config)")
	cmd.Flags().StringVar(&outDirFlag, "out", "", "Outbox directory for checked transcripts (defaults to config)")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Declared language for every transcript (defaults to config)")
	cmd.Flags().IntVar(&debounceMSFlag, "debounce-ms", 0, "Quiet period before a file is processed (defaults to config)")
	return cmd
}
