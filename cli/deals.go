// ABOUTME: Deal CLI commands
// ABOUTME: Create deals and move them through the pipeline
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/triage"
)

func newDealsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Manage deals",
	}
	cmd.AddCommand(newDealsAddCmd(app), newDealsStageCmd(app))
	return cmd
}

func newDealsAddCmd(app *App) *cobra.Command {
	var in crm.DealInput
	var contact string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a deal for a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("--contact", contact)
			if err != nil {
				return err
			}
			in.ContactID = id

			d, err := app.CRM.CreateDeal(cmd.Context(), in, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created deal: %s [%s] %s (ID: %s)\n",
				d.Title, d.Stage, triage.FormatMoney(d.Value, d.Currency), d.ID)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&contact, "contact", "", "Contact ID (required)")
	f.StringVar(&in.Title, "title", "", "Deal title (required)")
	f.StringVar(&in.Stage, "stage", "", "Pipeline stage (default lead)")
	f.Float64Var(&in.Value, "value", 0, "Deal value")
	f.StringVar(&in.Currency, "currency", "", "Currency code (default USD)")
	f.StringVar(&in.Priority, "priority", "", "low, medium, or high (default medium)")
	f.StringVar(&in.ExpectedClose, "expected-close", "", "Expected close date YYYY-MM-DD")
	f.StringVar(&in.Notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("contact")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newDealsStageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stage <id> <stage>",
		Short: "Move a deal to a new stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("id", args[0])
			if err != nil {
				return err
			}
			d, err := app.CRM.UpdateDealStage(cmd.Context(), id, args[1], app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s moved to %s\n", d.Title, d.Stage)
			return err
		},
	}
}
