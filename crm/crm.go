// ABOUTME: Record-keeping operations shared by the HTTP API, MCP tools, and CLI
// ABOUTME: Validates input for contacts, companies, interactions, and deals before writing through db repositories
package crm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
)

type Service struct {
	database    *db.DB
	phoneRegion string
	logger      *slog.Logger
}

func NewService(database *db.DB, phoneRegion string, logger *slog.Logger) *Service {
	return &Service{database: database, phoneRegion: phoneRegion, logger: logging.OrDiscard(logger)}
}

type ContactInput struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role,omitempty"`
	CompanyID      *uuid.UUID `json:"company_id,omitempty"`
	CompanyName    string     `json:"company_name,omitempty"`
	LinkedInURL    string     `json:"linkedin_url,omitempty"`
	Segment        string     `json:"segment,omitempty"`
	Stage          string     `json:"engagement_stage,omitempty"`
	InboundChannel string     `json:"inbound_channel,omitempty"`
	DoNotContact   bool       `json:"do_not_contact,omitempty"`
	Source         string     `json:"source,omitempty"`
	Tags           string     `json:"tags,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// AddContact creates a contact. A company given by name is looked up
// case-insensitively and created when missing.
func (s *Service) AddContact(ctx context.Context, in ContactInput, now time.Time) (c *models.Contact, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "contact.add", start, err) }()

	if strings.TrimSpace(in.FirstName) == "" {
		return nil, invalid(models.EntityContact, "first_name", "is required")
	}
	if in.Stage == "" {
		in.Stage = models.EngagementNew
	}
	if !models.OneOf(in.Stage, models.EngagementStages) {
		return nil, invalid(models.EntityContact, "engagement_stage", "must be one of "+strings.Join(models.EngagementStages, ", "))
	}
	if in.Segment != "" && !models.OneOf(in.Segment, models.Segments) {
		return nil, invalid(models.EntityContact, "segment", "must be one of "+strings.Join(models.Segments, ", "))
	}
	if in.InboundChannel != "" && !models.OneOf(in.InboundChannel, models.InboundChannels) {
		return nil, invalid(models.EntityContact, "inbound_channel", "must be one of "+strings.Join(models.InboundChannels, ", "))
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && !strings.Contains(email, "@") {
		return nil, invalid(models.EntityContact, "email", "is not an email address")
	}

	c = &models.Contact{
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           email,
		Phone:           models.NormalizePhone(in.Phone, s.phoneRegion),
		Role:            in.Role,
		CompanyID:       in.CompanyID,
		LinkedInURL:     in.LinkedInURL,
		Segment:         in.Segment,
		EngagementStage: in.Stage,
		InboundChannel:  in.InboundChannel,
		DoNotContact:    in.DoNotContact,
		Source:          in.Source,
		Tags:            in.Tags,
		Notes:           in.Notes,
		Status:          models.ContactActive,
		CreatedAt:       now.UTC(),
	}

	err = s.database.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		contacts := db.NewContactRepository(tx)
		if email != "" {
			dup, err := contacts.FindByEmail(ctx, email)
			if err != nil {
				return err
			}
			if dup != nil {
				return invalid(models.EntityContact, "email", "already belongs to "+dup.DisplayName())
			}
		}
		companies := db.NewCompanyRepository(tx)
		switch {
		case c.CompanyID != nil:
			if _, err := companies.Get(ctx, *c.CompanyID); err != nil {
				if models.IsNotFound(err) {
					return invalid(models.EntityContact, "company_id", "does not exist")
				}
				return err
			}
		case strings.TrimSpace(in.CompanyName) != "":
			co, _, err := companies.FindOrCreate(ctx, &models.Company{Name: strings.TrimSpace(in.CompanyName), CreatedAt: now.UTC()})
			if err != nil {
				return err
			}
			c.CompanyID = &co.ID
		}
		return contacts.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) FindContacts(ctx context.Context, f db.ContactFilter) ([]models.Contact, error) {
	if f.Stage != "" && !models.OneOf(f.Stage, models.EngagementStages) {
		return nil, invalid(models.EntityContact, "engagement_stage", "must be one of "+strings.Join(models.EngagementStages, ", "))
	}
	return db.NewContactRepository(s.database.Conn()).List(ctx, f)
}

// GetContact returns a non-archived contact.
func (s *Service) GetContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := db.NewContactRepository(s.database.Conn()).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsArchived() {
		return nil, models.NewNotFoundError(models.EntityContact, id.String())
	}
	return c, nil
}

func (s *Service) UpdateEngagementStage(ctx context.Context, id uuid.UUID, stage string, now time.Time) (c *models.Contact, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "contact.update_stage", start, err, "stage", stage) }()

	if !models.OneOf(stage, models.EngagementStages) {
		return nil, &models.ValidationError{Entity: models.EntityContact, ID: id.String(), Field: "engagement_stage",
			Reason: "must be one of " + strings.Join(models.EngagementStages, ", ")}
	}
	return db.NewContactRepository(s.database.Conn()).UpdateStage(ctx, id, stage, now.UTC())
}

// ArchiveContact soft-deletes a contact; it drops out of every triage queue.
func (s *Service) ArchiveContact(ctx context.Context, id uuid.UUID, now time.Time) (err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "contact.archive", start, err) }()
	return db.NewContactRepository(s.database.Conn()).Archive(ctx, id, now.UTC())
}

func (s *Service) AddCompany(ctx context.Context, in models.Company, now time.Time) (c *models.Company, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "company.add", start, err) }()

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid(models.EntityCompany, "name", "is required")
	}
	repo := db.NewCompanyRepository(s.database.Conn())
	existing, err := repo.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid(models.EntityCompany, "name", "already exists")
	}
	in.ID = uuid.Nil
	in.CreatedAt, in.UpdatedAt = now.UTC(), now.UTC()
	if err := repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

type InteractionInput struct {
	ContactID  uuid.UUID  `json:"contact_id"`
	DealID     *uuid.UUID `json:"deal_id,omitempty"`
	Type       string     `json:"type"`
	Direction  string     `json:"direction,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body,omitempty"`
	URL        string     `json:"url,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// LogInteraction appends an interaction to a non-archived contact. Without
// an explicit time it is recorded as happening now.
func (s *Service) LogInteraction(ctx context.Context, in InteractionInput, now time.Time) (i *models.Interaction, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "interaction.log", start, err) }()

	if in.Type == "" {
		in.Type = models.InteractionNote
	}
	if !models.OneOf(in.Type, models.InteractionTypes) {
		return nil, invalid(models.EntityInteraction, "type", "must be one of "+strings.Join(models.InteractionTypes, ", "))
	}
	if in.Direction == "" {
		in.Direction = models.DirectionOutbound
	}
	if !models.OneOf(in.Direction, models.Directions) {
		return nil, invalid(models.EntityInteraction, "direction", "must be one of "+strings.Join(models.Directions, ", "))
	}
	if _, err := s.requireActiveContact(ctx, models.EntityInteraction, in.ContactID); err != nil {
		return nil, err
	}
	if in.DealID != nil {
		if _, err := db.NewDealRepository(s.database.Conn()).Get(ctx, *in.DealID); err != nil {
			if models.IsNotFound(err) {
				return nil, invalid(models.EntityInteraction, "deal_id", "does not exist")
			}
			return nil, err
		}
	}

	i = &models.Interaction{
		ContactID:  in.ContactID,
		DealID:     in.DealID,
		Type:       in.Type,
		Direction:  in.Direction,
		Subject:    in.Subject,
		Body:       in.Body,
		URL:        in.URL,
		OccurredAt: now.UTC(),
		CreatedAt:  now.UTC(),
	}
	if in.OccurredAt != nil {
		i.OccurredAt = in.OccurredAt.UTC()
	}
	if err := db.NewInteractionRepository(s.database.Conn()).Log(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// ListInteractions returns a contact's interactions, newest first.
func (s *Service) ListInteractions(ctx context.Context, contactID uuid.UUID, limit int) ([]models.Interaction, error) {
	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	return db.NewInteractionRepository(s.database.Conn()).List(ctx, db.InteractionFilter{ContactID: &contactID, Limit: limit})
}

type DealInput struct {
	ContactID     uuid.UUID  `json:"contact_id"`
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	Title         string     `json:"title"`
	Stage         string     `json:"stage,omitempty"`
	Value         float64    `json:"value,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	ExpectedClose string     `json:"expected_close,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (s *Service) CreateDeal(ctx context.Context, in DealInput, now time.Time) (d *models.Deal, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "deal.create", start, err) }()

	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid(models.EntityDeal, "title", "is required")
	}
	if in.Stage == "" {
		in.Stage = models.StageLead
	}
	if !models.OneOf(in.Stage, models.DealStages) {
		return nil, invalid(models.EntityDeal, "stage", "must be one of "+strings.Join(models.DealStages, ", "))
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.OneOf(in.Priority, models.DealPriorities) {
		return nil, invalid(models.EntityDeal, "priority", "must be one of "+strings.Join(models.DealPriorities, ", "))
	}
	if in.Value < 0 {
		return nil, invalid(models.EntityDeal, "value", "must not be negative")
	}
	var expected models.Date
	if in.ExpectedClose != "" {
		if expected, err = models.ParseDate(in.ExpectedClose); err != nil {
			return nil, invalid(models.EntityDeal, "expected_close", "must be YYYY-MM-DD")
		}
	}
	contact, err := s.requireActiveContact(ctx, models.EntityDeal, in.ContactID)
	if err != nil {
		return nil, err
	}
	// Deals carry the contact's company unless one is given.
	if in.CompanyID == nil {
		in.CompanyID = contact.CompanyID
	} else if _, err := db.NewCompanyRepository(s.database.Conn()).Get(ctx, *in.CompanyID); err != nil {
		if models.IsNotFound(err) {
			return nil, invalid(models.EntityDeal, "company_id", "does not exist")
		}
		return nil, err
	}

	d = &models.Deal{
		ContactID:     in.ContactID,
		CompanyID:     in.CompanyID,
		Title:         strings.TrimSpace(in.Title),
		Stage:         in.Stage,
		Value:         in.Value,
		Currency:      strings.ToUpper(in.Currency),
		Priority:      in.Priority,
		ExpectedClose: expected,
		Notes:         in.Notes,
		CreatedAt:     now.UTC(),
	}
	if err := db.NewDealRepository(s.database.Conn()).Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDealStage moves a deal and bumps updated_at, which resets staleness.
func (s *Service) UpdateDealStage(ctx context.Context, id uuid.UUID, stage string, now time.Time) (d *models.Deal, err error) {
	start := time.Now()
	defer func() { logging.Observe(ctx, s.logger, "deal.update_stage", start, err, "stage", stage) }()

	if !models.OneOf(stage, models.DealStages) {
		return nil, &models.ValidationError{Entity: models.EntityDeal, ID: id.String(), Field: "stage",
			Reason: "must be one of " + strings.Join(models.DealStages, ", ")}
	}
	return db.NewDealRepository(s.database.Conn()).UpdateStage(ctx, id, stage, now.UTC())
}

func (s *Service) requireActiveContact(ctx context.Context, entity string, id uuid.UUID) (*models.Contact, error) {
	if id == uuid.Nil {
		return nil, invalid(entity, "contact_id", "is required")
	}
	c, err := db.NewContactRepository(s.database.Conn()).Get(ctx, id)
	if models.IsNotFound(err) || (err == nil && c.IsArchived()) {
		return nil, invalid(entity, "contact_id", fmt.Sprintf("contact %s does not exist", id))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func invalid(entity, field, reason string) error {
	return models.NewValidationError(entity, "", field, reason)
}
