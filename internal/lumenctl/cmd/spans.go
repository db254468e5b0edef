package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-signage/lumen-player/internal/lumenctl/util"
)

// newSpansCmd creates a command listing recent playback history
func newSpansCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "spans",
		Short: "List recent playback spans",
		Long: `List the intervals during which items were visible, newest last.
The player retains a bounded in-memory history for local inspection.`,
		Example: `  # Show recent playback history
  lumenctl spans

  # Export as JSON
  lumenctl spans -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			spans, err := client.Spans(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing spans: %w", err)
			}

			switch output {
			case "json":
				return util.PrintJSON(cmd.OutOrStdout(), spans)
			default:
				w := util.NewTabWriter(cmd.OutOrStdout())
				fmt.Fprintln(w, "CANVAS\tITEM\tSTARTED\tDURATION")
				for _, span := range spans {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						span.CanvasID,
						span.ItemID,
						util.FormatAge(span.StartedAt),
						util.FormatMillis(span.DurationMillis),
					)
				}
				return w.Flush()
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (table or json)")
	return cmd
}
