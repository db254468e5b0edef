package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-signage/lumen-player/internal/lumenctl/util"
)

// newCanvasCmd creates the canvas command group
func newCanvasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "Inspect display canvases",
	}
	cmd.AddCommand(newCanvasListCommand())
	cmd.AddCommand(newCanvasGetCommand())
	return cmd
}

func newCanvasListCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List canvases",
		Long: `List every canvas the player drives, with its presentation state,
the item currently on air, and its geometry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			canvases, err := client.Canvases(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing canvases: %w", err)
			}

			switch output {
			case "json":
				return util.PrintJSON(cmd.OutOrStdout(), canvases)
			default:
				w := util.NewTabWriter(cmd.OutOrStdout())
				fmt.Fprintln(w, "ID\tSTATE\tCURRENT\tSINCE\tBOUNDS")
				for _, canvas := range canvases {
					current := canvas.CurrentItem
					if current == "" {
						current = "-"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d+%d+%d\n",
						canvas.ID,
						canvas.State,
						current,
						util.FormatAge(canvas.CurrentSince),
						canvas.Bounds.Width, canvas.Bounds.Height,
						canvas.Bounds.X, canvas.Bounds.Y,
					)
				}
				return w.Flush()
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (table or json)")
	return cmd
}

func newCanvasGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Show one canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			canvas, err := client.Canvas(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error fetching canvas: %w", err)
			}
			return util.PrintJSON(cmd.OutOrStdout(), canvas)
		},
	}
}
