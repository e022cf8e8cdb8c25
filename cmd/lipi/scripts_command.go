package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	textlang "golang.org/x/text/language"

	langpkg "lipi/internal/language"
	"lipi/internal/script"
)

func newScriptsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "scripts",
		Short:       "Show the script registry and language expectations",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges := script.Ranges()
			expectations := script.Expectations()

			if asJSON {
				type rangeView struct {
					Name      string   `json:"name"`
					Intervals []string `json:"intervals"`
				}
				type expectationView struct {
					Language string `json:"language"`
					Name     string `json:"name"`
					Script   string `json:"script"`
				}
				payload := struct {
					Scripts      []rangeView       `json:"scripts"`
					Expectations []expectationView `json:"expectations"`
					Default      string            `json:"default"`
				}{Default: script.Latin}
				for _, r := range ranges {
					payload.Scripts = append(payload.Scripts, rangeView{
						Name:      r.Name,
						Intervals: formatIntervals(r.Intervals),
					})
				}
				for _, e := range expectations {
					payload.Expectations = append(payload.Expectations, expectationView{
						Language: e.Language,
						Name:     langpkg.DisplayName(e.Language),
						Script:   e.Script,
					})
				}
				return writeJSON(cmd, payload)
			}

			title := cases.Title(textlang.Und)
			out := cmd.OutOrStdout()

			rangeRows := make([][]string, 0, len(ranges))
			for _, r := range ranges {
				rangeRows = append(rangeRows, []string{
					title.String(r.Name),
					strings.Join(formatIntervals(r.Intervals), ", "),
				})
			}
			fmt.Fprintln(out, "Registered scripts (checked in order):")
			printRows(cmd,
				[]string{"Script", "Code Points"},
				rangeRows,
				[]columnAlignment{alignLeft, alignLeft})

			expectationRows := make([][]string, 0, len(expectations))
			for _, e := range expectations {
				expectationRows = append(expectationRows, []string{
					e.Language,
					langpkg.DisplayName(e.Language),
					title.String(e.Script),
				})
			}
			fmt.Fprintln(out, "Language expectations:")
			printRows(cmd,
				[]string{"Code", "Language", "Expected Script"},
				expectationRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft})
			fmt.Fprintf(out, "Any other language code expects %s.\n", title.String(script.Latin))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the registry as JSON")
	return cmd
}

func formatIntervals(intervals []script.Interval) []string {
	formatted := make([]string, 0, len(intervals))
	for _, interval := range intervals {
		formatted = append(formatted, fmt.Sprintf("U+%04X..U+%04X", interval.Lo, interval.Hi))
	}
	return formatted
}
