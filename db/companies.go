// ABOUTME: Company repository
// ABOUTME: Create, lookup by id or case-insensitive name, and listing
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

const companyColumns = `id, name, industry, website, size, notes, created_at, updated_at`

type CompanyRepository struct {
	db DBTX
}

func NewCompanyRepository(conn DBTX) *CompanyRepository {
	return &CompanyRepository{db: conn}
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	if strings.TrimSpace(c.Name) == "" {
		return models.NewValidationError(models.EntityCompany, "", "name", "is required")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Industry, c.Website, c.Size, c.Notes,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id.String())
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError(models.EntityCompany, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// FindByName returns the company whose name matches case-insensitively, or nil.
func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*models.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE LOWER(name) = ?`,
		strings.ToLower(strings.TrimSpace(name)))
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return c, nil
}

// FindOrCreate returns the existing company with this name or creates it.
func (r *CompanyRepository) FindOrCreate(ctx context.Context, c *models.Company) (*models.Company, bool, error) {
	existing, err := r.FindByName(ctx, c.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	if err := r.Create(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var companies []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func scanCompany(s scanner) (*models.Company, error) {
	var (
		c                    models.Company
		idStr                string
		createdAt, updatedAt string
	)
	err := s.Scan(&idStr, &c.Name, &c.Industry, &c.Website, &c.Size, &c.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if c.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse company ID: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
