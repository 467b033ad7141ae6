// ABOUTME: Email drafting command
// ABOUTME: Prints a subject and body drafted from a contact's recent history
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/drafts"
)

func newDraftCmd(app *App) *cobra.Command {
	var contact, deal, intent, tone string

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft an email to a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, err := parseUUID("--contact", contact)
			if err != nil {
				return err
			}
			req := drafts.Request{ContactID: contactID, Intent: intent, Tone: tone}
			if deal != "" {
				dealID, err := parseUUID("--deal", deal)
				if err != nil {
					return err
				}
				req.DealID = &dealID
			}

			d, err := app.drafts().Draft(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\n\n%s\n", d.Subject, d.Body)
			return err
		},
	}

	cmd.Flags().StringVar(&contact, "contact", "", "Contact ID (required)")
	cmd.Flags().StringVar(&deal, "deal", "", "Related deal ID")
	cmd.Flags().StringVar(&intent, "intent", "", "What the email should accomplish (required)")
	cmd.Flags().StringVar(&tone, "tone", "", "Desired tone")
	_ = cmd.MarkFlagRequired("contact")
	_ = cmd.MarkFlagRequired("intent")
	return cmd
}
