package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
	"github.com/lumen-signage/lumen-player/internal/lumenctl/util"
)

// newValidateCmd creates a command that dry-runs manifest normalization
// locally, without a running player
func newValidateCmd() *cobra.Command {
	var (
		zone   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a manifest file",
		Long: `Run a manifest file through the same normalization the player uses
and report what survives: recognized items, their activation windows, and
which entries would be dropped. Useful before pushing a manifest to a fleet.`,
		Example: `  # Validate a manifest against the host time zone
  lumenctl validate manifest.json

  # Validate against the fleet's zone
  lumenctl validate manifest.json --zone Europe/Berlin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("error reading manifest: %w", err)
			}
			if !json.Valid(raw) {
				return fmt.Errorf("manifest is not valid JSON")
			}

			loc := time.Local
			if zone != "" {
				loc, err = time.LoadLocation(zone)
				if err != nil {
					return fmt.Errorf("invalid zone %q: %w", zone, err)
				}
			}

			// Normalizer warnings about dropped or defaulted fields go
			// straight to the operator
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			normalizer := schedule.NewNormalizer(loc, logger)

			var items []schedule.Item
			msg := json.RawMessage(raw)
			if v1alpha1.IsLegacyManifest(msg) {
				var legacy v1alpha1.LegacyManifest
				if err := json.Unmarshal(msg, &legacy); err != nil {
					return fmt.Errorf("error decoding legacy manifest: %w", err)
				}
				items = normalizer.ConvertLegacy(&legacy)
			} else {
				items = normalizer.Normalize(msg)
			}

			if output == "json" {
				return util.PrintJSON(cmd.OutOrStdout(), items)
			}

			now := time.Now()
			w := util.NewTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "ITEM\tPRIORITY\tCANVAS\tACTIVE NOW\tNEXT CHANGE")
			for i := range items {
				item := &items[i]
				eval := schedule.Evaluate(item, now)
				canvas := item.CanvasID
				if canvas == "" {
					canvas = "default"
				}
				next := "-"
				if !eval.NextChange.IsZero() {
					next = eval.NextChange.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%t\t%s\n",
					item.DisplayName(), item.Priority, canvas, eval.Active, next)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d items recognized\n", len(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&zone, "zone", "", "IANA zone for evaluating activation (default host zone)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (table or json)")
	return cmd
}
