// ABOUTME: Entity fixtures for tests
// ABOUTME: Option-func builders for contacts, deals, interactions, and follow-ups plus insert helpers
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/models"
)

// AsOf is the fixed "now" most tests use: Monday 2024-01-15 12:00 UTC.
var AsOf = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// DaysAgo returns AsOf shifted back by n days.
func DaysAgo(n int) time.Time {
	return AsOf.AddDate(0, 0, -n)
}

type ContactOption func(*models.Contact)

func WithName(first, last string) ContactOption {
	return func(c *models.Contact) { c.FirstName, c.LastName = first, last }
}

func WithStage(stage string) ContactOption {
	return func(c *models.Contact) { c.EngagementStage = stage }
}

func WithCompany(id uuid.UUID) ContactOption {
	return func(c *models.Contact) { c.CompanyID = &id }
}

func WithEmail(email string) ContactOption {
	return func(c *models.Contact) { c.Email = email }
}

func DoNotContact() ContactOption {
	return func(c *models.Contact) { c.DoNotContact = true }
}

func Archived() ContactOption {
	return func(c *models.Contact) { c.Status = models.ContactArchived }
}

func NewContact(opts ...ContactOption) models.Contact {
	c := models.Contact{
		ID:              uuid.New(),
		FirstName:       "Test",
		LastName:        "Contact",
		EngagementStage: models.EngagementNew,
		Status:          models.ContactActive,
		CreatedAt:       DaysAgo(60),
		UpdatedAt:       DaysAgo(60),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type DealOption func(*models.Deal)

func WithDealStage(stage string) DealOption {
	return func(d *models.Deal) { d.Stage = stage }
}

func WithValue(v float64) DealOption {
	return func(d *models.Deal) { d.Value = v }
}

func UpdatedAt(t time.Time) DealOption {
	return func(d *models.Deal) { d.UpdatedAt = t }
}

func NewDeal(contactID uuid.UUID, opts ...DealOption) models.Deal {
	d := models.Deal{
		ID:        uuid.New(),
		ContactID: contactID,
		Title:     "Test Deal",
		Stage:     models.StageLead,
		Currency:  "USD",
		Priority:  models.PriorityMedium,
		CreatedAt: DaysAgo(30),
		UpdatedAt: DaysAgo(1),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewInteraction(contactID uuid.UUID, direction string, occurredAt time.Time) models.Interaction {
	return models.Interaction{
		ID:         uuid.New(),
		ContactID:  contactID,
		Type:       models.InteractionEmail,
		Direction:  direction,
		OccurredAt: occurredAt,
		CreatedAt:  occurredAt,
	}
}

type FollowUpOption func(*models.FollowUp)

func DueAt(t models.ClockTime) FollowUpOption {
	return func(f *models.FollowUp) { f.DueTime = t }
}

func Completed(at time.Time) FollowUpOption {
	return func(f *models.FollowUp) {
		f.Status = models.FollowUpCompleted
		f.CompletedAt = &at
	}
}

func Titled(title string) FollowUpOption {
	return func(f *models.FollowUp) { f.Title = title }
}

func NewFollowUp(contactID uuid.UUID, due models.Date, opts ...FollowUpOption) models.FollowUp {
	f := models.FollowUp{
		ID:        uuid.New(),
		ContactID: contactID,
		Title:     "Check in",
		DueDate:   due,
		Status:    models.FollowUpPending,
		CreatedAt: DaysAgo(10),
		UpdatedAt: DaysAgo(10),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Insert helpers write fixtures through the repositories and fail the test on error.

func InsertContact(t *testing.T, database *db.DB, c models.Contact) models.Contact {
	t.Helper()
	if err := db.NewContactRepository(database.Conn()).Create(context.Background(), &c); err != nil {
		t.Fatalf("failed to insert contact: %v", err)
	}
	return c
}

func InsertCompany(t *testing.T, database *db.DB, name string) models.Company {
	t.Helper()
	c := models.Company{Name: name, CreatedAt: DaysAgo(90)}
	if err := db.NewCompanyRepository(database.Conn()).Create(context.Background(), &c); err != nil {
		t.Fatalf("failed to insert company: %v", err)
	}
	return c
}

func InsertDeal(t *testing.T, database *db.DB, d models.Deal) models.Deal {
	t.Helper()
	if err := db.NewDealRepository(database.Conn()).Create(context.Background(), &d); err != nil {
		t.Fatalf("failed to insert deal: %v", err)
	}
	return d
}

func InsertInteraction(t *testing.T, database *db.DB, i models.Interaction) models.Interaction {
	t.Helper()
	if err := db.NewInteractionRepository(database.Conn()).Log(context.Background(), &i); err != nil {
		t.Fatalf("failed to insert interaction: %v", err)
	}
	return i
}

func InsertFollowUp(t *testing.T, database *db.DB, f models.FollowUp) models.FollowUp {
	t.Helper()
	if err := db.NewFollowUpRepository(database.Conn()).Create(context.Background(), &f); err != nil {
		t.Fatalf("failed to insert follow-up: %v", err)
	}
	return f
}
