package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipi/internal/modelcache"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect and manage the Whisper model cache",
	}

	modelsCmd.AddCommand(newModelsListCommand(ctx))
	modelsCmd.AddCommand(newModelsStatsCommand(ctx))
	modelsCmd.AddCommand(newModelsCleanCommand(ctx))
	modelsCmd.AddCommand(newModelsRemoveCommand(ctx))

	return modelsCmd
}

func modelsManager(ctx *commandContext) (*modelcache.Manager, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	return modelcache.NewManager(cfg.Paths.ModelCacheDir, logger), nil
}

func newModelsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached models",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := modelsManager(ctx)
			if err != nil {
				return err
			}
			entries, err := manager.Entries()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No models cached at %s\n", manager.Root())
				return nil
			}

			const stampLayout = "2006-01-02 15:04"
			rows := make([][]string, 0, len(entries))
			var total int64
			for _, entry := range entries {
				kind := "file"
				if entry.IsDir {
					kind = "dir"
				}
				rows = append(rows, []string{
					entry.Name,
					humanBytes(entry.SizeBytes),
					entry.ModifiedAt.Local().Format(stampLayout),
					kind,
				})
				total += entry.SizeBytes
			}
			printRows(cmd,
				[]string{"Model", "Size", "Modified", "Kind"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft})
			fmt.Fprintf(out, "Total: %d models, %s\n", len(entries), humanBytes(total))
			return nil
		},
	}
}

func newModelsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show model cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := modelsManager(ctx)
			if err != nil {
				return err
			}
			stats, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !stats.Exists {
				fmt.Fprintf(out, "Model cache does not exist at %s (nothing downloaded yet)\n", stats.Root)
				return nil
			}
			fmt.Fprintf(out, "Cache:   %s\n", stats.Root)
			fmt.Fprintf(out, "Models:  %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:    %s\n", humanBytes(stats.TotalBytes))
			fmt.Fprintf(out, "Disk:    %s free of %s (%.1f%%)\n",
				humanBytes(int64(stats.FreeBytes)),
				humanBytes(int64(stats.TotalFSBytes)),
				stats.FreeRatio*100)
			return nil
		},
	}
}

func newModelsCleanCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every cached model",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := modelsManager(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			stats, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if !stats.Exists || stats.Entries == 0 {
				if _, err := manager.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Model cache is already empty")
				return nil
			}

			if !yes {
				prompt := fmt.Sprintf("Delete %d cached models (%s)?", stats.Entries, humanBytes(stats.TotalBytes))
				ok, err := confirm(cmd, prompt)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			result, err := manager.Reset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d models, freed %s\n", result.ModelsRemoved, humanBytes(result.BytesFreed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Delete without prompting")
	return cmd
}

func newModelsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a single cached model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := modelsManager(ctx)
			if err != nil {
				return err
			}
			freed, err := manager.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (freed %s)\n", args[0], humanBytes(freed))
			return nil
		},
	}
}
