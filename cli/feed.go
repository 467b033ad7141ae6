// ABOUTME: Action feed command
// ABOUTME: Prints the triage dashboard, or the raw feed as JSON
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/viz"
)

func newFeedCmd(app *App) *cobra.Command {
	var asJSON bool
	var asOf string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show what needs attention right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := app.Now()
			if asOf != "" {
				parsed, err := time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be RFC3339: %w", err)
				}
				at = parsed
			}

			feed, err := app.Feed.ActionFeed(cmd.Context(), at)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(feed)
			}
			_, err = fmt.Fprint(out, viz.ForWriter(out).RenderActionFeed(feed))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the feed as JSON")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Evaluate at this RFC3339 instant instead of now")
	return cmd
}
