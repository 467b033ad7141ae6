// ABOUTME: Calendar date and clock time value types
// ABOUTME: Dates are YYYY-MM-DD and times HH:MM so string order equals chronological order
package models

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockTimeLayout = "15:04"
)

// Date is a calendar date in YYYY-MM-DD form. Comparisons are plain string
// comparisons, never timezone-aware instants.
type Date string

// ParseDate validates s as a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string { return string(d) }

func (d Date) IsZero() bool { return d == "" }

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

// Time returns midnight UTC of the date.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// AddDays shifts the date by n calendar days. Invalid dates are returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	a, errA := d.Time()
	b, errB := other.Time()
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// ClockTime is a 24h HH:MM time of day. The empty value means "no time".
type ClockTime string

// ParseClockTime validates s as HH:MM. An empty string is accepted and means no time.
func ParseClockTime(s string) (ClockTime, error) {
	if s == "" {
		return "", nil
	}
	if len(s) != len(ClockTimeLayout) {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if _, err := time.Parse(ClockTimeLayout, s); err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ClockTime(s), nil
}

// ClockOf returns the HH:MM time of day of t in t's own location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Format(ClockTimeLayout))
}

func (c ClockTime) String() string { return string(c) }

func (c ClockTime) IsZero() bool { return c == "" }

// WeekBounds returns the first and last day of the week containing d, for a
// week beginning on start.
func WeekBounds(d Date, start time.Weekday) (Date, Date) {
	t, err := d.Time()
	if err != nil {
		return d, d
	}
	offset := (int(t.Weekday()) - int(start) + 7) % 7
	first := t.AddDate(0, 0, -offset)
	return DateOf(first), DateOf(first.AddDate(0, 0, 6))
}
