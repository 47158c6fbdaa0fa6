package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/captionforge/captionforge/internal/subtitle"
)

func newInspectCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "inspect <file.srt>",
		Short: "Show the captions of an SRT file as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("strict") {
				a.cfg.Output.Strict = strict
			}

			entries, err := subtitle.ParseFile(args[0], subtitle.ParseOptions{Strict: a.cfg.Output.Strict})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No captions found.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			var last float64
			for i, entry := range entries {
				start, end, err := subtitle.ParseRange(entry.Timing)
				if err != nil {
					// lenient entries keep their raw timing line
					rows = append(rows, []string{strconv.Itoa(i + 1), entry.Timing, "", "", cellText(entry)})
					continue
				}
				if end > last {
					last = end
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					subtitle.FormatTimestamp(start),
					subtitle.FormatTimestamp(end),
					strconv.FormatFloat(end-start, 'f', 3, 64) + "s",
					cellText(entry),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Duration", "Text"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d captions, last ends at %s\n", len(entries), subtitle.FormatTimestamp(last))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed subtitle blocks")
	return cmd
}

func cellText(entry subtitle.Entry) string {
	return strings.Join(entry.Lines, " / ")
}
