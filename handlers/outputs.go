// ABOUTME: Flat MCP output shapes for CRM records
// ABOUTME: IDs and timestamps are strings so the inferred output schemas match the JSON
package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/models"
)

type ContactOutput struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role,omitempty"`
	CompanyID       string `json:"company_id,omitempty"`
	EngagementStage string `json:"engagement_stage"`
	InboundChannel  string `json:"inbound_channel,omitempty"`
	DoNotContact    bool   `json:"do_not_contact"`
	Status          string `json:"status"`
	UpdatedAt       string `json:"updated_at"`
}

type FollowUpOutput struct {
	ID          string `json:"id"`
	ContactID   string `json:"contact_id"`
	DealID      string `json:"deal_id,omitempty"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time,omitempty"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type InteractionOutput struct {
	ID         string `json:"id"`
	ContactID  string `json:"contact_id"`
	Type       string `json:"type"`
	Direction  string `json:"direction"`
	Subject    string `json:"subject,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type DealOutput struct {
	ID        string  `json:"id"`
	ContactID string  `json:"contact_id"`
	Title     string  `json:"title"`
	Stage     string  `json:"stage"`
	Value     float64 `json:"value"`
	Currency  string  `json:"currency"`
	Priority  string  `json:"priority"`
	UpdatedAt string  `json:"updated_at"`
}

func contactToOutput(c *models.Contact) ContactOutput {
	return ContactOutput{
		ID:              c.ID.String(),
		Name:            c.DisplayName(),
		Email:           c.Email,
		Phone:           c.Phone,
		Role:            c.Role,
		CompanyID:       optionalID(c.CompanyID),
		EngagementStage: c.EngagementStage,
		InboundChannel:  c.InboundChannel,
		DoNotContact:    c.DoNotContact,
		Status:          c.Status,
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
}

func followUpToOutput(f *models.FollowUp) FollowUpOutput {
	out := FollowUpOutput{
		ID:        f.ID.String(),
		ContactID: f.ContactID.String(),
		DealID:    optionalID(f.DealID),
		Title:     f.Title,
		DueDate:   f.DueDate.String(),
		DueTime:   f.DueTime.String(),
		Status:    f.Status,
		Notes:     f.Notes,
	}
	if f.CompletedAt != nil {
		out.CompletedAt = f.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func interactionToOutput(i *models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:         i.ID.String(),
		ContactID:  i.ContactID.String(),
		Type:       i.Type,
		Direction:  i.Direction,
		Subject:    i.Subject,
		OccurredAt: i.OccurredAt.Format(time.RFC3339),
	}
}

func dealToOutput(d *models.Deal) DealOutput {
	return DealOutput{
		ID:        d.ID.String(),
		ContactID: d.ContactID.String(),
		Title:     d.Title,
		Stage:     d.Stage,
		Value:     d.Value,
		Currency:  d.Currency,
		Priority:  d.Priority,
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// parseID parses a required id argument.
func parseID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, models.NewValidationError("request", "", field, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, models.NewValidationError("request", "", field, "is not a valid id")
	}
	return id, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
