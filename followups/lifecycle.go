// ABOUTME: Pure follow-up predicates shared by the manager, triage, digest, and list views
// ABOUTME: Overdue and due-today are date-only comparisons against an explicit as-of date
package followups

import (
	"github.com/harperreed/voss/models"
)

// IsOverdue reports whether f is pending and due strictly before asOf.
func IsOverdue(f *models.FollowUp, asOf models.Date) bool {
	return f.IsPending() && f.DueDate.Before(asOf)
}

// IsDueToday reports whether f is pending and due on asOf.
func IsDueToday(f *models.FollowUp, asOf models.Date) bool {
	return f.IsPending() && f.DueDate == asOf
}

// DaysOverdue returns how many whole days f is past due, or 0 when it is not overdue.
func DaysOverdue(f *models.FollowUp, asOf models.Date) int {
	if !IsOverdue(f, asOf) {
		return 0
	}
	return f.DueDate.DaysUntil(asOf)
}

// Groups buckets follow-ups the way list views show them.
type Groups struct {
	Overdue   []models.FollowUp `json:"overdue"`
	Today     []models.FollowUp `json:"today"`
	Upcoming  []models.FollowUp `json:"upcoming"`
	Completed []models.FollowUp `json:"completed"`
}

// Group splits list into overdue, today, upcoming and completed, keeping input order.
func Group(list []models.FollowUp, today models.Date) Groups {
	var g Groups
	for i := range list {
		f := &list[i]
		switch {
		case !f.IsPending():
			g.Completed = append(g.Completed, *f)
		case IsOverdue(f, today):
			g.Overdue = append(g.Overdue, *f)
		case IsDueToday(f, today):
			g.Today = append(g.Today, *f)
		default:
			g.Upcoming = append(g.Upcoming, *f)
		}
	}
	return g
}
