package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newReloadCmd creates a command forcing a manifest re-read
func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Force a manifest reload",
		Long: `Ask the player to re-read its manifest file immediately instead of
waiting for the file watcher to notice a change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			count, err := client.Reload(cmd.Context())
			if err != nil {
				return fmt.Errorf("error reloading manifest: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest reloaded: %d items\n", count)
			return nil
		},
	}
}
