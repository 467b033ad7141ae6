// ABOUTME: Tuning knobs for the triage engine
// ABOUTME: Window lengths, staleness threshold, week boundary, and per-queue display limits
package triage

import (
	"fmt"
	"time"
)

const (
	DefaultInboundWindowDays = 7
	DefaultStalenessDays     = 14
	DefaultWeekStart         = time.Monday

	DefaultOverdueLimit     = 15
	DefaultDueTodayLimit    = 15
	DefaultInboundLimit     = 10
	DefaultNoFollowUpLimit  = 10
	DefaultGoingColdLimit   = 10
	DefaultStaleDealsLimit  = 10
	DefaultNewContactsLimit = 20
	DefaultTimezone         = "UTC"
)

// Limits caps how many items each queue returns. Totals are never capped.
type Limits struct {
	Overdue     int
	DueToday    int
	Inbound     int
	NoFollowUp  int
	GoingCold   int
	StaleDeals  int
	NewContacts int
}

// Thresholds holds every date/time window the engine uses. "This week" is the
// seven-day calendar week beginning on WeekStart that contains the as-of date.
type Thresholds struct {
	InboundWindowDays int
	StalenessDays     int
	WeekStart         time.Weekday
	Location          *time.Location
	Limits            Limits
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		InboundWindowDays: DefaultInboundWindowDays,
		StalenessDays:     DefaultStalenessDays,
		WeekStart:         DefaultWeekStart,
		Location:          time.UTC,
		Limits: Limits{
			Overdue:     DefaultOverdueLimit,
			DueToday:    DefaultDueTodayLimit,
			Inbound:     DefaultInboundLimit,
			NoFollowUp:  DefaultNoFollowUpLimit,
			GoingCold:   DefaultGoingColdLimit,
			StaleDeals:  DefaultStaleDealsLimit,
			NewContacts: DefaultNewContactsLimit,
		},
	}
}

// Validate rejects non-positive windows and limits.
func (t Thresholds) Validate() error {
	if t.InboundWindowDays <= 0 {
		return fmt.Errorf("inbound window must be positive, got %d", t.InboundWindowDays)
	}
	if t.StalenessDays <= 0 {
		return fmt.Errorf("staleness threshold must be positive, got %d", t.StalenessDays)
	}
	if t.WeekStart < time.Sunday || t.WeekStart > time.Saturday {
		return fmt.Errorf("week start must be a weekday, got %d", t.WeekStart)
	}
	limits := []struct {
		name  string
		value int
	}{
		{"overdue", t.Limits.Overdue},
		{"due_today", t.Limits.DueToday},
		{"inbound", t.Limits.Inbound},
		{"no_follow_up", t.Limits.NoFollowUp},
		{"going_cold", t.Limits.GoingCold},
		{"stale_deals", t.Limits.StaleDeals},
		{"new_contacts", t.Limits.NewContacts},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return fmt.Errorf("%s limit must be positive, got %d", l.name, l.value)
		}
	}
	return nil
}

func (t Thresholds) inboundWindow() time.Duration {
	return time.Duration(t.InboundWindowDays) * 24 * time.Hour
}

func (t Thresholds) staleness() time.Duration {
	return time.Duration(t.StalenessDays) * 24 * time.Hour
}

func (t Thresholds) location() *time.Location {
	if t.Location == nil {
		return time.UTC
	}
	return t.Location
}
