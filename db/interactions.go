// ABOUTME: Interaction repository
// ABOUTME: Append-only log of calls, emails, meetings, and messages per contact
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/models"
)

const interactionColumns = `id, contact_id, deal_id, type, direction, subject, body, url, occurred_at, created_at`

type InteractionRepository struct {
	db DBTX
}

func NewInteractionRepository(conn DBTX) *InteractionRepository {
	return &InteractionRepository{db: conn}
}

// InteractionFilter narrows List by contact and an occurred_at range [Since, Until).
type InteractionFilter struct {
	ContactID *uuid.UUID
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// Log appends an interaction. There is deliberately no update method.
func (r *InteractionRepository) Log(ctx context.Context, i *models.Interaction) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Type == "" {
		i.Type = models.InteractionNote
	}
	if i.Direction == "" {
		i.Direction = models.DirectionOutbound
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.OccurredAt.IsZero() {
		i.OccurredAt = i.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID.String(), i.ContactID.String(), nullableUUID(i.DealID), i.Type, i.Direction,
		i.Subject, i.Body, i.URL, formatTime(i.OccurredAt), formatTime(i.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil
}

// List returns interactions newest first.
func (r *InteractionRepository) List(ctx context.Context, f InteractionFilter) ([]models.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE 1=1`
	var args []any
	if f.ContactID != nil {
		query += ` AND contact_id = ?`
		args = append(args, f.ContactID.String())
	}
	// RFC3339 UTC text sorts chronologically.
	if f.Since != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, formatTime(*f.Since))
	}
	if f.Until != nil {
		query += ` AND occurred_at < ?`
		args = append(args, formatTime(*f.Until))
	}
	query += ` ORDER BY occurred_at DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Interaction
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func scanInteraction(s scanner) (*models.Interaction, error) {
	var (
		i                     models.Interaction
		idStr, contactIDStr   string
		dealID                sql.NullString
		occurredAt, createdAt string
	)
	err := s.Scan(&idStr, &contactIDStr, &dealID, &i.Type, &i.Direction, &i.Subject, &i.Body, &i.URL,
		&occurredAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if i.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse interaction ID: %w", err)
	}
	if i.ContactID, err = uuid.Parse(contactIDStr); err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	if i.DealID, err = parseNullableUUID(dealID); err != nil {
		return nil, err
	}
	if i.OccurredAt, err = parseTime(occurredAt); err != nil {
		return nil, err
	}
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &i, nil
}
