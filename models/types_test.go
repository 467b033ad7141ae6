// ABOUTME: Tests for CRM data models
// ABOUTME: Validates display names, date/time parsing, week bounds, and error helpers
package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestContactDisplayName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
		{"", "", UnknownName},
		{"  ", " ", UnknownName},
	}
	for _, tc := range cases {
		c := &Contact{FirstName: tc.first, LastName: tc.last}
		if got := c.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}

	var nilContact *Contact
	if got := nilContact.DisplayName(); got != UnknownName {
		t.Errorf("nil contact display name = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-01-15"); err != nil {
		t.Errorf("expected valid date, got %v", err)
	}
	for _, bad := range []string{"", "2024-1-15", "2024-02-30", "15/01/2024", "2024-01-15T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	if got, err := ParseClockTime(""); err != nil || got != "" {
		t.Errorf("empty time should be accepted as no time, got %q %v", got, err)
	}
	if _, err := ParseClockTime("09:30"); err != nil {
		t.Errorf("expected valid time, got %v", err)
	}
	for _, bad := range []string{"9:30", "24:00", "12:60", "noon"} {
		if _, err := ParseClockTime(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDateOrderingIsLexicographic(t *testing.T) {
	if !Date("2024-01-10").Before("2024-01-15") {
		t.Error("expected 2024-01-10 before 2024-01-15")
	}
	if !Date("2023-12-31").Before("2024-01-01") {
		t.Error("expected year boundary ordering")
	}
	if Date("2024-01-15").After("2024-01-15") {
		t.Error("date should not be after itself")
	}
}

func TestDateArithmetic(t *testing.T) {
	if got := Date("2024-02-28").AddDays(2); got != "2024-03-01" {
		t.Errorf("AddDays across leap day = %s", got)
	}
	if got := Date("2024-01-10").DaysUntil("2024-01-15"); got != 5 {
		t.Errorf("DaysUntil = %d, want 5", got)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	instant := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)
	if got := DateOf(instant); got != "2024-01-15" {
		t.Errorf("UTC date = %s", got)
	}
	if got := DateOf(instant.In(tokyo)); got != "2024-01-16" {
		t.Errorf("JST date = %s", got)
	}
}

func TestWeekBounds(t *testing.T) {
	cases := map[Date][2]Date{
		"2024-01-15": {"2024-01-15", "2024-01-21"}, // Monday
		"2024-01-17": {"2024-01-15", "2024-01-21"},
		"2024-01-21": {"2024-01-15", "2024-01-21"}, // Sunday
		"2024-01-01": {"2024-01-01", "2024-01-07"},
	}
	for d, want := range cases {
		start, end := WeekBounds(d, time.Monday)
		if start != want[0] || end != want[1] {
			t.Errorf("WeekBounds(%s) = %s..%s, want %s..%s", d, start, end, want[0], want[1])
		}
	}
}

func TestWeekBoundsSundayStart(t *testing.T) {
	cases := map[Date][2]Date{
		"2024-01-14": {"2024-01-14", "2024-01-20"}, // Sunday
		"2024-01-15": {"2024-01-14", "2024-01-20"},
		"2024-01-20": {"2024-01-14", "2024-01-20"}, // Saturday
		"2024-01-21": {"2024-01-21", "2024-01-27"},
	}
	for d, want := range cases {
		start, end := WeekBounds(d, time.Sunday)
		if start != want[0] || end != want[1] {
			t.Errorf("WeekBounds(%s, Sunday) = %s..%s, want %s..%s", d, start, end, want[0], want[1])
		}
	}
}

func TestDealStages(t *testing.T) {
	if !IsTerminalDealStage(StageWon) || !IsTerminalDealStage(StageLost) {
		t.Error("won and lost must be terminal")
	}
	d := &Deal{Stage: StageProposal}
	if !d.IsOpen() {
		t.Error("proposal deal should be open")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError(EntityFollowUp, "abc"))
	if !IsNotFound(err) {
		t.Error("expected wrapped not found error to be detected")
	}
	if IsValidation(err) {
		t.Error("not found is not a validation error")
	}

	state := &InvalidStateError{Entity: EntityFollowUp, ID: "abc", State: FollowUpCompleted, Op: "snooze"}
	if state.Error() != "cannot snooze follow_up abc: status is completed" {
		t.Errorf("unexpected message %q", state.Error())
	}

	cause := errors.New("disk on fire")
	unavailable := &DataUnavailableError{Op: "load snapshot", Err: cause}
	if !errors.Is(unavailable, cause) {
		t.Error("data unavailable should unwrap to its cause")
	}
	if !IsDataUnavailable(fmt.Errorf("feed: %w", unavailable)) {
		t.Error("expected wrapped data unavailable error to be detected")
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("(650) 253-0000", "US"); got != "+16502530000" {
		t.Errorf("NormalizePhone = %q", got)
	}
	if got := NormalizePhone(" call reception ", "US"); got != "call reception" {
		t.Errorf("unparseable input should be kept, got %q", got)
	}
	if got := NormalizePhone("", "US"); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
}
