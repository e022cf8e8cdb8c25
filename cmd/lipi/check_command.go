package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipi/internal/scriptcheck"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <input.json> <output.json> <language_code>",
		Short: "Check a transcript's writing system against its declared language",
		Long: `Check classifies the transcript's text by Unicode script, compares the
result against the script expected for the language code, and writes the
record back with a script_issue annotation. All other fields pass through
untouched.

A mismatch is reported on stderr and exits zero; orchestrating pipelines
grep for the literal NEEDS_RETRANSCRIPTION token to trigger a retry.
Only read, parse, and write failures exit nonzero.`,
		Args: exactArgsWithUsage(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			ledger := ctx.openLedger(logger)
			if ledger != nil {
				defer ledger.Close()
			}

			runner := scriptcheck.NewRunner(logger, ledger)
			outcome, err := runner.Process(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			report := outcome.Report
			if report.HasMismatch {
				fmt.Fprintln(errOut, "WARNING: SCRIPT MISMATCH DETECTED!")
				fmt.Fprintf(errOut, "Expected: %s for language '%s'\n", report.ExpectedScript, args[2])
				fmt.Fprintf(errOut, "Detected: %s\n", report.DetectedScript)
				fmt.Fprintln(errOut, "NEEDS_RETRANSCRIPTION")
			} else {
				fmt.Fprintf(errOut, "SUCCESS: Script matches expected: %s\n", report.DetectedScript)
			}
			return nil
		},
	}
}
