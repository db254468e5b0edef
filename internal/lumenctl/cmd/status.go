package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-signage/lumen-player/internal/lumenctl/util"
)

// newStatusCmd creates a command showing the player's overall state
func newStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show player status",
		Long: `Show the running player's overall state: build version, uptime,
the current manifest version, and every canvas with what it is playing.`,
		Example: `  # Show player status
  lumenctl status

  # Show status as JSON for scripting
  lumenctl status -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			status, err := client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("error fetching status: %w", err)
			}

			switch output {
			case "json":
				return util.PrintJSON(cmd.OutOrStdout(), status)
			default:
				w := util.NewTabWriter(cmd.OutOrStdout())
				fmt.Fprintf(w, "Version:\t%s\n", status.Version)
				fmt.Fprintf(w, "Started:\t%s\n", util.FormatAge(status.StartedAt))
				fmt.Fprintf(w, "Manifest version:\t%d\n", status.ManifestVersion)
				fmt.Fprintf(w, "Items:\t%d\n", status.ItemCount)
				fmt.Fprintf(w, "Canvases:\t%d\n", len(status.Canvases))
				for _, canvas := range status.Canvases {
					current := canvas.CurrentItem
					if current == "" {
						current = "-"
					}
					fmt.Fprintf(w, "  %s:\t%s\t%s\n", canvas.ID, canvas.State, current)
				}
				return w.Flush()
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (table or json)")
	return cmd
}
