package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lipi/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run history ledger",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryStatsCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func historyStore(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled (set history.enabled = true in config.toml)")
	}
	return history.Open(cfg.Paths.HistoryDB)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "History is empty")
				return nil
			}

			const stampLayout = "2006-01-02 15:04:05"
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.DetectedScript
				if run.Kind == history.KindTranscribe {
					detail = run.Model
				}
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.CreatedAt.Local().Format(stampLayout),
					string(run.Kind),
					run.Language,
					detail,
					yesNo(run.HasMismatch),
					string(run.Status),
				})
			}
			printRows(cmd,
				[]string{"ID", "Time", "Kind", "Lang", "Detail", "Mismatch", "Status"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft})
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON")
	return cmd
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.CollectStats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Runs:        %d\n", stats.TotalRuns)
			fmt.Fprintf(out, "Checks:      %d\n", stats.Checks)
			fmt.Fprintf(out, "Transcribes: %d\n", stats.Transcribes)
			fmt.Fprintf(out, "Failed:      %d\n", stats.Failed)
			fmt.Fprintf(out, "Mismatches:  %d\n", stats.Mismatches)
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every run from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if !yes {
				ok, err := confirm(cmd, "Clear the entire run history?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Cleared %d runs\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Clear without prompting")
	return cmd
}
