// ABOUTME: Deal repository
// ABOUTME: Create, lookup, listing, and stage changes that bump updated_at
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

const dealColumns = `id, contact_id, company_id, title, stage, value, currency, priority,
	expected_close, notes, created_at, updated_at`

type DealRepository struct {
	db DBTX
}

func NewDealRepository(conn DBTX) *DealRepository {
	return &DealRepository{db: conn}
}

func (r *DealRepository) Create(ctx context.Context, d *models.Deal) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Stage == "" {
		d.Stage = models.StageLead
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if d.Priority == "" {
		d.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO deals (`+dealColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.ContactID.String(), nullableUUID(d.CompanyID), d.Title, d.Stage,
		d.Value, d.Currency, d.Priority, string(d.ExpectedClose), d.Notes,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

func (r *DealRepository) Get(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ?`, id.String())
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError(models.EntityDeal, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	return d, nil
}

// List returns all deals, or only those for contactID when it is non-nil.
func (r *DealRepository) List(ctx context.Context, contactID *uuid.UUID) ([]models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals`
	var args []any
	if contactID != nil {
		query += ` WHERE contact_id = ?`
		args = append(args, contactID.String())
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deals []models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

// UpdateStage sets the deal's stage and bumps updated_at, which resets staleness.
func (r *DealRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage string, now time.Time) (*models.Deal, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE deals SET stage = ?, updated_at = ? WHERE id = ?`,
		stage, formatTime(now), id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to update deal stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update deal stage: %w", err)
	}
	if n == 0 {
		return nil, models.NewNotFoundError(models.EntityDeal, id.String())
	}
	return r.Get(ctx, id)
}

func scanDeal(s scanner) (*models.Deal, error) {
	var (
		d                    models.Deal
		idStr, contactIDStr  string
		companyID            sql.NullString
		expectedClose        string
		createdAt, updatedAt string
	)
	err := s.Scan(&idStr, &contactIDStr, &companyID, &d.Title, &d.Stage, &d.Value, &d.Currency,
		&d.Priority, &expectedClose, &d.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if d.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse deal ID: %w", err)
	}
	if d.ContactID, err = uuid.Parse(contactIDStr); err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	if d.CompanyID, err = parseNullableUUID(companyID); err != nil {
		return nil, err
	}
	d.ExpectedClose = models.Date(expectedClose)
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
