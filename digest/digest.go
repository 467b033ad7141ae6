// ABOUTME: Scheduled notifications: morning digest, stale-deal alerts, and due-time reminders
// ABOUTME: Jobs are run by cron through the CLI and claim their day in job_runs before sending
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/triage"
)

const (
	JobMorningDigest   = "morning_digest"
	JobStaleDealAlerts = "stale_deal_alerts"

	digestItemLimit = 5
	alertItemLimit  = 10
)

// FeedSource computes the action feed the digests summarize.
type FeedSource interface {
	ActionFeed(ctx context.Context, asOf time.Time) (*triage.ActionFeed, error)
}

type Runner struct {
	conn     db.DBTX
	feeds    FeedSource
	notifier Notifier
	loc      *time.Location
	logger   *slog.Logger
}

func NewRunner(conn db.DBTX, feeds FeedSource, notifier Notifier, loc *time.Location, logger *slog.Logger) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{conn: conn, feeds: feeds, notifier: notifier, loc: loc, logger: logging.OrDiscard(logger)}
}

// MorningDigest sends the daily summary once per calendar day. It reports
// false without sending when the job already ran today.
func (r *Runner) MorningDigest(ctx context.Context, now time.Time) (sent bool, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, r.logger, "digest.morning", start, err, "sent", sent) }()

	claimed, err := db.NewJobLog(r.conn).Claim(ctx, JobMorningDigest, r.today(now), now.UTC())
	if err != nil || !claimed {
		return false, err
	}
	feed, err := r.feeds.ActionFeed(ctx, now)
	if err != nil {
		return false, err
	}
	if err := r.notifier.Notify(ctx, FormatMorningDigest(feed)); err != nil {
		return false, err
	}
	return true, nil
}

// StaleDealAlerts sends the stale-deal list once per calendar day, and only when there is something stale.
func (r *Runner) StaleDealAlerts(ctx context.Context, now time.Time) (sent bool, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, r.logger, "digest.stale_deals", start, err, "sent", sent) }()

	claimed, err := db.NewJobLog(r.conn).Claim(ctx, JobStaleDealAlerts, r.today(now), now.UTC())
	if err != nil || !claimed {
		return false, err
	}
	feed, err := r.feeds.ActionFeed(ctx, now)
	if err != nil {
		return false, err
	}
	text := FormatStaleAlert(feed)
	if text == "" {
		return false, nil
	}
	if err := r.notifier.Notify(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

// Reminders notifies about pending follow-ups due today whose time has come
// and marks each one so it is only sent once.
func (r *Runner) Reminders(ctx context.Context, now time.Time) (sent int, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, r.logger, "digest.reminders", start, err, "sent", sent) }()

	local := now.In(r.loc)
	today, clock := models.DateOf(local), models.ClockOf(local)

	repo := db.NewFollowUpRepository(r.conn)
	due, err := repo.List(ctx, db.FollowUpFilter{Status: models.FollowUpPending, DueOn: today})
	if err != nil {
		return 0, err
	}
	contacts := db.NewContactRepository(r.conn)
	for _, f := range due {
		if f.ReminderSent || f.DueTime.IsZero() || f.DueTime > clock {
			continue
		}
		name := "?"
		if c, err := contacts.Get(ctx, f.ContactID); err == nil {
			if c.IsArchived() {
				continue
			}
			name = c.DisplayName()
		}
		text := fmt.Sprintf("*Reminder*: %s - %s\nDue at %s", f.Title, name, f.DueTime)
		if err := r.notifier.Notify(ctx, text); err != nil {
			return sent, err
		}
		if err := repo.MarkReminderSent(ctx, f.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (r *Runner) today(now time.Time) models.Date {
	return models.DateOf(now.In(r.loc))
}

// FormatMorningDigest renders overdue, due-today, and stale-deal sections, or an all-clear line.
func FormatMorningDigest(feed *triage.ActionFeed) string {
	var b strings.Builder
	b.WriteString("*Morning Digest*\n")

	ar := feed.ActionRequired
	if ar.OverdueTotal > 0 {
		fmt.Fprintf(&b, "\n*%d overdue follow-ups*\n", ar.OverdueTotal)
		for _, it := range head(ar.OverdueFollowUps, digestItemLimit) {
			fmt.Fprintf(&b, "  • %s - %s (%s)\n", it.Title, it.ContactName, it.Reason)
		}
	}
	if ar.DueTodayTotal > 0 {
		fmt.Fprintf(&b, "\n*%d follow-ups due today*\n", ar.DueTodayTotal)
		for _, it := range head(ar.DueToday, digestItemLimit) {
			fmt.Fprintf(&b, "  • %s - %s\n", it.Title, it.ContactName)
		}
	}
	if feed.AtRisk.StaleDealsTotal > 0 {
		fmt.Fprintf(&b, "\n*%d stale deals*\n", feed.AtRisk.StaleDealsTotal)
		for _, it := range head(feed.AtRisk.StaleDeals, digestItemLimit) {
			fmt.Fprintf(&b, "  • %s (%s) - %s\n", it.Title, it.Stage, it.Reason)
		}
	}
	if ar.OverdueTotal == 0 && ar.DueTodayTotal == 0 && feed.AtRisk.StaleDealsTotal == 0 {
		b.WriteString("\nAll clear! No overdue items.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStaleAlert lists stale deals, or returns "" when there are none.
func FormatStaleAlert(feed *triage.ActionFeed) string {
	if feed.AtRisk.StaleDealsTotal == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%d stale deals* need attention:\n", feed.AtRisk.StaleDealsTotal)
	for _, it := range head(feed.AtRisk.StaleDeals, alertItemLimit) {
		fmt.Fprintf(&b, "  • %s (%s) - last update: %s\n", it.Title, it.Stage, it.UpdatedAt.Format(models.DateLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}
