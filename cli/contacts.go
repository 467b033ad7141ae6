// ABOUTME: Contact, company, and interaction CLI commands
// ABOUTME: Human-friendly commands backed by the shared CRM service
package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/models"
)

func newContactsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage contacts",
	}
	cmd.AddCommand(
		newContactsAddCmd(app),
		newContactsListCmd(app),
		newContactsStageCmd(app),
		newContactsArchiveCmd(app),
	)
	return cmd
}

func newContactsAddCmd(app *App) *cobra.Command {
	var in crm.ContactInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.CRM.AddContact(cmd.Context(), in, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created contact: %s (ID: %s)\n", c.DisplayName(), c.ID)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "First name (required)")
	f.StringVar(&in.LastName, "last-name", "", "Last name")
	f.StringVar(&in.Email, "email", "", "Email address")
	f.StringVar(&in.Phone, "phone", "", "Phone number")
	f.StringVar(&in.Role, "role", "", "Role or title")
	f.StringVar(&in.CompanyName, "company", "", "Company name (looked up or created)")
	f.StringVar(&in.LinkedInURL, "linkedin", "", "LinkedIn profile URL")
	f.StringVar(&in.Segment, "segment", "", "Segment")
	f.StringVar(&in.Stage, "stage", "", "Engagement stage (default new)")
	f.StringVar(&in.InboundChannel, "channel", "", "Inbound channel")
	f.StringVar(&in.Source, "source", "", "Where the contact came from")
	f.StringVar(&in.Tags, "tags", "", "Comma-separated tags")
	f.StringVar(&in.Notes, "notes", "", "Notes about the contact")
	f.BoolVar(&in.DoNotContact, "do-not-contact", false, "Never suggest reaching out")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}

func newContactsListCmd(app *App) *cobra.Command {
	var query, stage string
	var limit int
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := app.CRM.FindContacts(cmd.Context(), db.ContactFilter{
				Query:           query,
				Stage:           stage,
				IncludeArchived: archived,
				Limit:           limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(contacts) == 0 {
				_, _ = fmt.Fprintln(out, "No contacts found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTAGE")
			for _, c := range contacts {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.DisplayName(), c.Email, c.EngagementStage)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search by name or email")
	cmd.Flags().StringVar(&stage, "stage", "", "Filter by engagement stage")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of contacts")
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived contacts")
	return cmd
}

func newContactsStageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stage <id> <stage>",
		Short: "Move a contact to a new engagement stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("id", args[0])
			if err != nil {
				return err
			}
			c, err := app.CRM.UpdateEngagementStage(cmd.Context(), id, args[1], app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", c.DisplayName(), c.EngagementStage)
			return err
		},
	}
}

func newContactsArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("id", args[0])
			if err != nil {
				return err
			}
			if err := app.CRM.ArchiveContact(cmd.Context(), id, app.Now()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Archived contact %s\n", id)
			return err
		},
	}
}

func newCompaniesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Manage companies",
	}

	var company models.Company
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a new company",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.CRM.AddCompany(cmd.Context(), company, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created company: %s (ID: %s)\n", c.Name, c.ID)
			return err
		},
	}
	add.Flags().StringVar(&company.Name, "name", "", "Company name (required)")
	add.Flags().StringVar(&company.Industry, "industry", "", "Industry")
	add.Flags().StringVar(&company.Website, "website", "", "Website")
	add.Flags().StringVar(&company.Size, "size", "", "Company size")
	add.Flags().StringVar(&company.Notes, "notes", "", "Notes")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(add)
	return cmd
}

func newInteractionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactions",
		Short: "Log and review interactions",
	}

	var contact, deal, kind, direction, subject, body, at string
	log := &cobra.Command{
		Use:   "log",
		Short: "Log a call, email, meeting, note, or message",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, err := parseUUID("--contact", contact)
			if err != nil {
				return err
			}
			in := crm.InteractionInput{
				ContactID: contactID,
				Type:      kind,
				Direction: direction,
				Subject:   subject,
				Body:      body,
			}
			if deal != "" {
				dealID, err := parseUUID("--deal", deal)
				if err != nil {
					return err
				}
				in.DealID = &dealID
			}
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				in.OccurredAt = &t
			}

			i, err := app.CRM.LogInteraction(cmd.Context(), in, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s %s at %s\n", i.Direction, i.Type, i.OccurredAt.Format(time.RFC3339))
			return err
		},
	}
	log.Flags().StringVar(&contact, "contact", "", "Contact ID (required)")
	log.Flags().StringVar(&deal, "deal", "", "Related deal ID")
	log.Flags().StringVar(&kind, "type", "", "call, email, meeting, note, message, or other (default note)")
	log.Flags().StringVar(&direction, "direction", "", "inbound, outbound, or internal (default outbound)")
	log.Flags().StringVar(&subject, "subject", "", "Subject")
	log.Flags().StringVar(&body, "body", "", "Body or summary")
	log.Flags().StringVar(&at, "at", "", "When it happened, RFC3339 (default now)")
	_ = log.MarkFlagRequired("contact")

	cmd.AddCommand(log)
	return cmd
}
