// ABOUTME: Follow-up CLI commands
// ABOUTME: list, add, complete, and snooze scheduled follow-ups
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
)

func newFollowUpsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "followups",
		Aliases: []string{"fu"},
		Short:   "Manage follow-ups",
	}
	cmd.AddCommand(
		newFollowUpsListCmd(app),
		newFollowUpsAddCmd(app),
		newFollowUpsCompleteCmd(app),
		newFollowUpsSnoozeCmd(app),
	)
	return cmd
}

func newFollowUpsListCmd(app *App) *cobra.Command {
	var status, contact string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List follow-ups grouped by urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.FollowUpFilter{Status: status, Limit: limit}
			if contact != "" {
				id, err := parseUUID("--contact", contact)
				if err != nil {
					return err
				}
				filter.ContactID = &id
			}

			list, err := db.NewFollowUpRepository(app.Database.Conn()).List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			groups := followups.Group(list, models.Date(app.today()))
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				_, _ = fmt.Fprintln(out, "No follow-ups found.")
				return nil
			}
			printFollowUpGroup(out, "OVERDUE", groups.Overdue)
			printFollowUpGroup(out, "TODAY", groups.Today)
			printFollowUpGroup(out, "UPCOMING", groups.Upcoming)
			printFollowUpGroup(out, "COMPLETED", groups.Completed)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, completed)")
	cmd.Flags().StringVar(&contact, "contact", "", "Filter by contact ID")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of follow-ups")
	return cmd
}

func printFollowUpGroup(out io.Writer, title string, list []models.FollowUp) {
	if len(list) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "%s (%d)\n", title, len(list))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range list {
		due := f.DueDate.String()
		if !f.DueTime.IsZero() {
			due += " " + f.DueTime.String()
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n", f.ID, due, f.Title)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func newFollowUpsAddCmd(app *App) *cobra.Command {
	var contact, deal, title, due, at, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a follow-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, err := parseUUID("--contact", contact)
			if err != nil {
				return err
			}
			in := followups.CreateInput{
				ContactID: contactID,
				Title:     title,
				DueDate:   due,
				DueTime:   at,
				Notes:     notes,
			}
			if deal != "" {
				dealID, err := parseUUID("--deal", deal)
				if err != nil {
					return err
				}
				in.DealID = &dealID
			}

			f, err := app.FollowUps.Create(cmd.Context(), in, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Follow-up scheduled: %s (due %s)\n  ID: %s\n", f.Title, f.DueDate, f.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&contact, "contact", "", "Contact ID (required)")
	cmd.Flags().StringVar(&deal, "deal", "", "Related deal ID")
	cmd.Flags().StringVar(&title, "title", "", "What to do (required)")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&at, "at", "", "Due time HH:MM")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("contact")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newFollowUpsCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a follow-up as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("id", args[0])
			if err != nil {
				return err
			}
			f, err := app.FollowUps.Complete(cmd.Context(), id, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: %s\n", f.Title)
			return err
		},
	}
}

func newFollowUpsSnoozeCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "snooze <id> <YYYY-MM-DD>",
		Short: "Move a pending follow-up to a later date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("id", args[0])
			if err != nil {
				return err
			}
			f, err := app.FollowUps.Snooze(cmd.Context(), id, args[1], at, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Snoozed to %s: %s\n", f.DueDate, f.Title)
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "New due time HH:MM")
	return cmd
}

func parseUUID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return id, nil
}
