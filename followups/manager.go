// ABOUTME: Follow-up lifecycle state machine: create, complete, snooze
// ABOUTME: The only writer of status, completed_at, due_date, and due_time
package followups

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
)

// Store is the follow-up persistence the manager needs. MarkCompleted and
// Reschedule must only touch pending rows and report whether one matched.
type Store interface {
	Create(ctx context.Context, f *models.FollowUp) error
	Get(ctx context.Context, id uuid.UUID) (*models.FollowUp, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Reschedule(ctx context.Context, id uuid.UUID, due models.Date, at models.ClockTime, now time.Time) (bool, error)
}

type ContactGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Contact, error)
}

type DealGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Deal, error)
}

type Manager struct {
	store    Store
	contacts ContactGetter
	deals    DealGetter
	loc      *time.Location
	logger   *slog.Logger
}

type Option func(*Manager)

// WithLocation sets the zone used to turn as-of instants into calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logging.OrDiscard(logger) }
}

func NewManager(store Store, contacts ContactGetter, deals DealGetter, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		contacts: contacts,
		deals:    deals,
		loc:      time.UTC,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewSQLManager wires a manager to the repositories behind conn.
func NewSQLManager(conn db.DBTX, opts ...Option) *Manager {
	return NewManager(
		db.NewFollowUpRepository(conn),
		db.NewContactRepository(conn),
		db.NewDealRepository(conn),
		opts...,
	)
}

// CreateInput carries raw caller input; dates and times are parsed and validated by Create.
type CreateInput struct {
	ContactID uuid.UUID
	DealID    *uuid.UUID
	Title     string
	DueDate   string
	DueTime   string
	Notes     string
}

// Create validates input and stores a new pending follow-up.
func (m *Manager) Create(ctx context.Context, in CreateInput, asOf time.Time) (f *models.FollowUp, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, m.logger, "follow_up.create", start, err) }()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "title", "is required")
	}
	if strings.TrimSpace(in.DueDate) == "" {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "due_date", "is required")
	}
	due, err := models.ParseDate(strings.TrimSpace(in.DueDate))
	if err != nil {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "due_date", "must be YYYY-MM-DD")
	}
	at, err := models.ParseClockTime(strings.TrimSpace(in.DueTime))
	if err != nil {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "due_time", "must be HH:MM")
	}

	if in.ContactID == uuid.Nil {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "contact_id", "is required")
	}
	contact, err := m.contacts.Get(ctx, in.ContactID)
	if models.IsNotFound(err) {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "contact_id", "does not reference an existing contact")
	}
	if err != nil {
		return nil, err
	}
	if contact.IsArchived() {
		return nil, models.NewValidationError(models.EntityFollowUp, "", "contact_id", "references an archived contact")
	}

	if in.DealID != nil {
		deal, err := m.deals.Get(ctx, *in.DealID)
		if models.IsNotFound(err) {
			return nil, models.NewValidationError(models.EntityFollowUp, "", "deal_id", "does not reference an existing deal")
		}
		if err != nil {
			return nil, err
		}
		if deal.ContactID != in.ContactID {
			return nil, models.NewValidationError(models.EntityFollowUp, "", "deal_id", "belongs to a different contact")
		}
	}

	now := asOf.UTC()
	f = &models.FollowUp{
		ID:        uuid.New(),
		ContactID: in.ContactID,
		DealID:    in.DealID,
		Title:     title,
		DueDate:   due,
		DueTime:   at,
		Status:    models.FollowUpPending,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Complete moves a pending follow-up to completed. Completing twice is an
// InvalidStateError; the first caller wins when two race.
func (m *Manager) Complete(ctx context.Context, id uuid.UUID, asOf time.Time) (f *models.FollowUp, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, m.logger, "follow_up.complete", start, err, "follow_up_id", id.String()) }()

	ok, err := m.store.MarkCompleted(ctx, id, asOf.UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, m.rejection(ctx, id, "complete")
	}
	return m.store.Get(ctx, id)
}

// Snooze moves a pending follow-up to a new date and optional time. Dates
// before the as-of date are rejected; today is fine.
func (m *Manager) Snooze(ctx context.Context, id uuid.UUID, newDate, newTime string, asOf time.Time) (f *models.FollowUp, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, m.logger, "follow_up.snooze", start, err, "follow_up_id", id.String()) }()

	due, err := models.ParseDate(strings.TrimSpace(newDate))
	if err != nil {
		return nil, models.NewValidationError(models.EntityFollowUp, id.String(), "due_date", "must be YYYY-MM-DD")
	}
	at, err := models.ParseClockTime(strings.TrimSpace(newTime))
	if err != nil {
		return nil, models.NewValidationError(models.EntityFollowUp, id.String(), "due_time", "must be HH:MM")
	}

	current, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsPending() {
		return nil, invalidState(current, "snooze")
	}
	today := models.DateOf(asOf.In(m.loc))
	if due.Before(today) {
		return nil, models.NewValidationError(models.EntityFollowUp, id.String(), "due_date", "must not be before "+today.String())
	}

	ok, err := m.store.Reschedule(ctx, id, due, at, asOf.UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, m.rejection(ctx, id, "snooze")
	}
	return m.store.Get(ctx, id)
}

// rejection explains why a conditional write matched no row.
func (m *Manager) rejection(ctx context.Context, id uuid.UUID, op string) error {
	current, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsPending() {
		return errors.New("follow-up " + id.String() + " is pending but the " + op + " did not apply")
	}
	return invalidState(current, op)
}

func invalidState(f *models.FollowUp, op string) error {
	return &models.InvalidStateError{
		Entity: models.EntityFollowUp,
		ID:     f.ID.String(),
		State:  f.Status,
		Op:     op,
	}
}
