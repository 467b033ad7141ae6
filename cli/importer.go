// ABOUTME: Bulk import CLI commands
// ABOUTME: Loads prospect companies and their leaders from a CSV file
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/importer"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from files",
	}

	var opts importer.Options
	prospects := &cobra.Command{
		Use:   "prospects <csv>",
		Short: "Import prospect companies and leaders from a CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			opts.PhoneRegion = app.Config.Contacts.PhoneRegion
			sum, err := importer.New(app.Database, opts, app.Logger).ImportProspects(cmd.Context(), f, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"✓ Processed %d rows: %d companies created, %d skipped (already present), %d contacts created\n",
				sum.Rows, sum.CompaniesCreated, sum.CompaniesSkipped, sum.ContactsCreated)
			return err
		},
	}
	prospects.Flags().StringVar(&opts.Source, "source", "", "Source recorded on each contact (default import)")
	prospects.Flags().StringVar(&opts.Segment, "segment", "", "Segment for every imported contact")
	prospects.Flags().StringVar(&opts.Tags, "tags", "", "Comma-separated tags for every imported contact")
	prospects.Flags().StringVar(&opts.InboundChannel, "channel", "", "Inbound channel (default cold_outbound)")

	cmd.AddCommand(prospects)
	return cmd
}
