// ABOUTME: Database operations for follow-up reminders
// ABOUTME: Conditional status writes serialize concurrent complete/snooze on the same row
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/models"
)

const followUpColumns = `id, contact_id, deal_id, title, due_date, due_time, status, completed_at,
	notes, reminder_sent, created_at, updated_at`

type FollowUpRepository struct {
	db DBTX
}

func NewFollowUpRepository(conn DBTX) *FollowUpRepository {
	return &FollowUpRepository{db: conn}
}

// FollowUpFilter narrows List. Empty fields do not filter.
type FollowUpFilter struct {
	Status    string
	ContactID *uuid.UUID
	DueOn     models.Date
	Limit     int
}

// Create inserts a follow-up exactly as given; the lifecycle manager owns defaults.
func (r *FollowUpRepository) Create(ctx context.Context, f *models.FollowUp) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO follow_ups (`+followUpColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.ContactID.String(), nullableUUID(f.DealID), f.Title,
		string(f.DueDate), string(f.DueTime), f.Status, nullableTime(f.CompletedAt),
		f.Notes, boolToInt(f.ReminderSent), formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create follow-up: %w", err)
	}
	return nil
}

func (r *FollowUpRepository) Get(ctx context.Context, id uuid.UUID) (*models.FollowUp, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+followUpColumns+` FROM follow_ups WHERE id = ?`, id.String())
	f, err := scanFollowUp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError(models.EntityFollowUp, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get follow-up: %w", err)
	}
	return f, nil
}

// List returns follow-ups ordered by due date, then due time with untimed last.
func (r *FollowUpRepository) List(ctx context.Context, f FollowUpFilter) ([]models.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE 1=1`
	var args []any
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.ContactID != nil {
		query += ` AND contact_id = ?`
		args = append(args, f.ContactID.String())
	}
	if f.DueOn != "" {
		query += ` AND due_date = ?`
		args = append(args, string(f.DueOn))
	}
	query += ` ORDER BY due_date, CASE WHEN due_time = '' THEN 1 ELSE 0 END, due_time, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.FollowUp
	for rows.Next() {
		fu, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan follow-up: %w", err)
		}
		out = append(out, *fu)
	}
	return out, rows.Err()
}

// MarkCompleted flips a pending follow-up to completed. It reports false when
// no pending row matched, leaving the caller to find out why.
func (r *FollowUpRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE follow_ups
		SET status = 'completed', completed_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		formatTime(at), formatTime(at), id.String())
	if err != nil {
		return false, fmt.Errorf("failed to complete follow-up: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to complete follow-up: %w", err)
	}
	return n == 1, nil
}

// Reschedule replaces the due date/time of a pending follow-up and re-arms its reminder.
func (r *FollowUpRepository) Reschedule(ctx context.Context, id uuid.UUID, due models.Date, at models.ClockTime, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE follow_ups
		SET due_date = ?, due_time = ?, reminder_sent = 0, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(due), string(at), formatTime(now), id.String())
	if err != nil {
		return false, fmt.Errorf("failed to snooze follow-up: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to snooze follow-up: %w", err)
	}
	return n == 1, nil
}

// MarkReminderSent records that the due-time reminder went out.
func (r *FollowUpRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE follow_ups SET reminder_sent = 1 WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

func scanFollowUp(s scanner) (*models.FollowUp, error) {
	var (
		f                    models.FollowUp
		idStr, contactIDStr  string
		dealID               sql.NullString
		dueDate, dueTime     string
		completedAt          sql.NullString
		reminderSent         int
		createdAt, updatedAt string
	)
	err := s.Scan(&idStr, &contactIDStr, &dealID, &f.Title, &dueDate, &dueTime, &f.Status,
		&completedAt, &f.Notes, &reminderSent, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if f.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse follow-up ID: %w", err)
	}
	if f.ContactID, err = uuid.Parse(contactIDStr); err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	if f.DealID, err = parseNullableUUID(dealID); err != nil {
		return nil, err
	}
	f.DueDate = models.Date(dueDate)
	f.DueTime = models.ClockTime(dueTime)
	if f.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, err
	}
	f.ReminderSent = reminderSent != 0
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
