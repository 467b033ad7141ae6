// ABOUTME: Scheduled notification commands
// ABOUTME: Morning digest, stale deal alerts, and follow-up reminders, meant for cron
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/digest"
)

// notifier sends to Telegram when a bot and chats are configured, else to out.
func (a *App) notifier(out io.Writer, stdout bool) digest.Notifier {
	tg := a.Config.Telegram
	if stdout || tg.BotToken == "" || len(tg.ChatIDs) == 0 {
		return digest.WriterNotifier{W: out}
	}
	return digest.NewTelegramNotifier(tg.BotToken, tg.ChatIDs, tg.BaseURL, a.Logger)
}

func (a *App) runner(out io.Writer, stdout bool) *digest.Runner {
	return digest.NewRunner(a.Database.Conn(), a.Feed, a.notifier(out, stdout), a.Location, a.Logger)
}

func newDigestCmd(app *App) *cobra.Command {
	var stale, stdout bool

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the morning digest (once per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := app.runner(cmd.OutOrStdout(), stdout)
			job := digest.JobMorningDigest
			run := r.MorningDigest
			if stale {
				job = digest.JobStaleDealAlerts
				run = r.StaleDealAlerts
			}

			sent, err := run(cmd.Context(), app.Now())
			if err != nil {
				return err
			}
			if !sent {
				app.Logger.Info("nothing sent", "job", job, "date", app.today())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stale, "stale", false, "Send the stale deal alert instead of the digest")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print instead of sending to Telegram")
	return cmd
}

func newRemindCmd(app *App) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send reminders for timed follow-ups that are now due",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.runner(cmd.OutOrStdout(), stdout).Reminders(cmd.Context(), app.Now())
			if err != nil {
				return fmt.Errorf("sent %d reminders before failing: %w", n, err)
			}
			app.Logger.Info("reminders sent", "count", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print instead of sending to Telegram")
	return cmd
}
