// ABOUTME: Human-readable reasons attached to action feed items
// ABOUTME: Whole-day arithmetic and "today / Nd ago" labels
package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/voss/models"
)

const day = 24 * time.Hour

// wholeDays is floor((asOf - t) / 1 day), never negative.
func wholeDays(asOf, t time.Time) int {
	d := asOf.Sub(t)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}

// agoLabel renders the gap between t and asOf as "today", "1d ago", or "Nd ago".
func agoLabel(asOf, t time.Time) string {
	n := wholeDays(asOf, t)
	if n == 0 {
		return "today"
	}
	return fmt.Sprintf("%dd ago", n)
}

func overdueReason(daysOverdue int) string {
	return fmt.Sprintf("Overdue by %dd", daysOverdue)
}

func dueTodayReason(at models.ClockTime) string {
	if at.IsZero() {
		return "Due today"
	}
	return "Due today at " + at.String()
}

func inboundReason(interactionType string, asOf, at time.Time) string {
	return fmt.Sprintf("Replied via %s %s", humanize(interactionType), agoLabel(asOf, at))
}

func noFollowUpReason(asOf, last time.Time) string {
	return fmt.Sprintf("Active %s, no follow-up scheduled", agoLabel(asOf, last))
}

func goingColdReason(asOf time.Time, last *time.Time) string {
	if last == nil {
		return "No interactions recorded"
	}
	return fmt.Sprintf("No interaction in %d days", wholeDays(asOf, *last))
}

func staleDealReason(daysStale int) string {
	return fmt.Sprintf("No update in %d days", daysStale)
}

const newContactReason = "No outreach yet"

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
