package followups_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
)

func TestOverdueAndDueToday(t *testing.T) {
	contactID := uuid.New()
	pending := testutil.NewFollowUp(contactID, "2024-01-10")
	done := testutil.NewFollowUp(contactID, "2024-01-10", testutil.Completed(testutil.AsOf))

	assert.True(t, followups.IsOverdue(&pending, "2024-01-15"))
	assert.False(t, followups.IsDueToday(&pending, "2024-01-15"))
	assert.Equal(t, 5, followups.DaysOverdue(&pending, "2024-01-15"))

	assert.True(t, followups.IsDueToday(&pending, "2024-01-10"))
	assert.False(t, followups.IsOverdue(&pending, "2024-01-10"))
	assert.Equal(t, 0, followups.DaysOverdue(&pending, "2024-01-10"))

	assert.False(t, followups.IsOverdue(&pending, "2024-01-09"))
	assert.False(t, followups.IsDueToday(&pending, "2024-01-09"))

	assert.False(t, followups.IsOverdue(&done, "2024-01-15"), "completed follow-ups are never overdue")
	assert.False(t, followups.IsDueToday(&done, "2024-01-10"))
}

func TestOverdueIgnoresTimeOfDay(t *testing.T) {
	f := testutil.NewFollowUp(uuid.New(), "2024-01-15", testutil.DueAt("08:00"))
	assert.False(t, followups.IsOverdue(&f, "2024-01-15"))
	assert.True(t, followups.IsDueToday(&f, "2024-01-15"))
}

func TestOverdueAndDueTodayAreExclusive(t *testing.T) {
	f := testutil.NewFollowUp(uuid.New(), "2024-01-15")
	start := models.Date("2023-12-01")
	for i := 0; i < 90; i++ {
		d := start.AddDays(i)
		assert.False(t, followups.IsOverdue(&f, d) && followups.IsDueToday(&f, d), "both true on %s", d)
	}
}

func TestOverdueAcrossMonthAndYearBoundaries(t *testing.T) {
	f := testutil.NewFollowUp(uuid.New(), "2023-12-31")
	assert.True(t, followups.IsOverdue(&f, "2024-01-01"))
	assert.Equal(t, 1, followups.DaysOverdue(&f, "2024-01-01"))

	leap := testutil.NewFollowUp(uuid.New(), "2024-02-28")
	assert.Equal(t, 2, followups.DaysOverdue(&leap, "2024-03-01"))
}

func TestGroup(t *testing.T) {
	contactID := uuid.New()
	list := []models.FollowUp{
		testutil.NewFollowUp(contactID, "2024-01-10", testutil.Titled("overdue")),
		testutil.NewFollowUp(contactID, "2024-01-15", testutil.Titled("today")),
		testutil.NewFollowUp(contactID, "2024-01-20", testutil.Titled("upcoming")),
		testutil.NewFollowUp(contactID, "2024-01-01", testutil.Titled("done"), testutil.Completed(testutil.DaysAgo(14))),
	}

	g := followups.Group(list, "2024-01-15")
	assert.Len(t, g.Overdue, 1)
	assert.Equal(t, "overdue", g.Overdue[0].Title)
	assert.Len(t, g.Today, 1)
	assert.Equal(t, "today", g.Today[0].Title)
	assert.Len(t, g.Upcoming, 1)
	assert.Equal(t, "upcoming", g.Upcoming[0].Title)
	assert.Len(t, g.Completed, 1)
	assert.Equal(t, "done", g.Completed[0].Title)
}
