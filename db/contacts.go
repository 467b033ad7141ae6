// ABOUTME: Contact repository
// ABOUTME: Create, lookup, search, engagement-stage updates, and archive (soft delete)
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/models"
)

const contactColumns = `id, first_name, last_name, email, phone, role, company_id, linkedin_url,
	segment, engagement_stage, inbound_channel, do_not_contact, source, tags, notes, status,
	created_at, updated_at`

type ContactRepository struct {
	db DBTX
}

func NewContactRepository(conn DBTX) *ContactRepository {
	return &ContactRepository{db: conn}
}

// ContactFilter narrows List. Archived contacts are skipped unless IncludeArchived is set.
type ContactFilter struct {
	Query           string
	CompanyID       *uuid.UUID
	Stage           string
	IncludeArchived bool
	Limit           int
}

func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.EngagementStage == "" {
		c.EngagementStage = models.EngagementNew
	}
	if c.Status == "" {
		c.Status = models.ContactActive
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.FirstName, c.LastName, c.Email, c.Phone, c.Role,
		nullableUUID(c.CompanyID), c.LinkedInURL, c.Segment, c.EngagementStage,
		c.InboundChannel, boolToInt(c.DoNotContact), c.Source, c.Tags, c.Notes, c.Status,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Get returns the contact including archived ones; callers decide what archived means.
func (r *ContactRepository) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError(models.EntityContact, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// FindByEmail returns the first non-archived contact with the given email, or nil.
func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*models.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts
		WHERE LOWER(email) = ? AND status = 'active'
		ORDER BY created_at LIMIT 1`, email)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}
	return c, nil
}

func (r *ContactRepository) List(ctx context.Context, f ContactFilter) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE 1=1`
	var args []any

	if !f.IncludeArchived {
		query += ` AND status = 'active'`
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		query += ` AND (LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(email) LIKE ?)`
		args = append(args, like, like)
	}
	if f.CompanyID != nil {
		query += ` AND company_id = ?`
		args = append(args, f.CompanyID.String())
	}
	if f.Stage != "" {
		query += ` AND engagement_stage = ?`
		args = append(args, f.Stage)
	}
	query += ` ORDER BY first_name, last_name, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// UpdateStage moves a non-archived contact to a new engagement stage.
func (r *ContactRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage string, now time.Time) (*models.Contact, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE contacts SET engagement_stage = ?, updated_at = ?
		WHERE id = ? AND status = 'active'`, stage, formatTime(now), id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to update engagement stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update engagement stage: %w", err)
	}
	if n == 0 {
		return nil, models.NewNotFoundError(models.EntityContact, id.String())
	}
	return r.Get(ctx, id)
}

// Archive soft-deletes a contact. Archiving twice reports not found.
func (r *ContactRepository) Archive(ctx context.Context, id uuid.UUID, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contacts SET status = 'archived', updated_at = ?
		WHERE id = ? AND status = 'active'`, formatTime(now), id.String())
	if err != nil {
		return fmt.Errorf("failed to archive contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to archive contact: %w", err)
	}
	if n == 0 {
		return models.NewNotFoundError(models.EntityContact, id.String())
	}
	return nil
}

func scanContact(s scanner) (*models.Contact, error) {
	var (
		c                    models.Contact
		idStr                string
		companyID            sql.NullString
		doNotContact         int
		createdAt, updatedAt string
	)
	err := s.Scan(&idStr, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Role, &companyID,
		&c.LinkedInURL, &c.Segment, &c.EngagementStage, &c.InboundChannel, &doNotContact,
		&c.Source, &c.Tags, &c.Notes, &c.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if c.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	if c.CompanyID, err = parseNullableUUID(companyID); err != nil {
		return nil, err
	}
	c.DoNotContact = doNotContact != 0
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
