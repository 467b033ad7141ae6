// ABOUTME: Contact and interaction MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_engagement_stage, and log_interaction
package handlers

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
)

type AddContactInput struct {
	FirstName      string `json:"first_name" jsonschema:"First name (required)"`
	LastName       string `json:"last_name,omitempty"`
	Email          string `json:"email,omitempty" jsonschema:"Email address (unique among active contacts)"`
	Phone          string `json:"phone,omitempty" jsonschema:"Phone number, normalized to E.164"`
	Role           string `json:"role,omitempty"`
	CompanyID      string `json:"company_id,omitempty" jsonschema:"Existing company ID"`
	CompanyName    string `json:"company_name,omitempty" jsonschema:"Company name (will be looked up or created)"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	Segment        string `json:"segment,omitempty"`
	Stage          string `json:"engagement_stage,omitempty" jsonschema:"new, nurturing, active, client, or churned (default new)"`
	InboundChannel string `json:"inbound_channel,omitempty"`
	Source         string `json:"source,omitempty"`
	Tags           string `json:"tags,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (h *Handlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	companyID, err := parseOptionalID("company_id", input.CompanyID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	c, err := h.CRM.AddContact(ctx, crm.ContactInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Role:           input.Role,
		CompanyID:      companyID,
		CompanyName:    input.CompanyName,
		LinkedInURL:    input.LinkedInURL,
		Segment:        input.Segment,
		Stage:          input.Stage,
		InboundChannel: input.InboundChannel,
		Source:         input.Source,
		Tags:           input.Tags,
		Notes:          input.Notes,
	}, h.Now())
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(c), nil
}

type FindContactsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search by name or email"`
	CompanyID string `json:"company_id,omitempty"`
	Stage     string `json:"engagement_stage,omitempty"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *Handlers) FindContacts(ctx context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	companyID, err := parseOptionalID("company_id", input.CompanyID)
	if err != nil {
		return nil, FindContactsOutput{}, err
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}
	list, err := h.CRM.FindContacts(ctx, db.ContactFilter{
		Query:     input.Query,
		CompanyID: companyID,
		Stage:     input.Stage,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, FindContactsOutput{}, err
	}
	out := FindContactsOutput{Contacts: make([]ContactOutput, len(list))}
	for i := range list {
		out.Contacts[i] = contactToOutput(&list[i])
	}
	return nil, out, nil
}

type UpdateEngagementStageInput struct {
	ID    string `json:"id" jsonschema:"Contact ID (required)"`
	Stage string `json:"engagement_stage" jsonschema:"New engagement stage (required)"`
}

func (h *Handlers) UpdateEngagementStage(ctx context.Context, _ *mcp.CallToolRequest, input UpdateEngagementStageInput) (*mcp.CallToolResult, ContactOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	c, err := h.CRM.UpdateEngagementStage(ctx, id, input.Stage, h.Now())
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(c), nil
}

type LogInteractionInput struct {
	ContactID  string `json:"contact_id" jsonschema:"Contact ID (required)"`
	DealID     string `json:"deal_id,omitempty"`
	Type       string `json:"type,omitempty" jsonschema:"call, email, meeting, note, message, or other (default note)"`
	Direction  string `json:"direction,omitempty" jsonschema:"inbound, outbound, or internal (default outbound)"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body,omitempty"`
	OccurredAt string `json:"occurred_at,omitempty" jsonschema:"RFC3339 timestamp (default now)"`
}

func (h *Handlers) LogInteraction(ctx context.Context, _ *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	contactID, err := parseID("contact_id", input.ContactID)
	if err != nil {
		return nil, InteractionOutput{}, err
	}
	dealID, err := parseOptionalID("deal_id", input.DealID)
	if err != nil {
		return nil, InteractionOutput{}, err
	}
	var occurredAt *time.Time
	if input.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, input.OccurredAt)
		if err != nil {
			return nil, InteractionOutput{}, invalidArg("occurred_at", "must be RFC3339")
		}
		occurredAt = &t
	}
	i, err := h.CRM.LogInteraction(ctx, crm.InteractionInput{
		ContactID:  contactID,
		DealID:     dealID,
		Type:       input.Type,
		Direction:  input.Direction,
		Subject:    input.Subject,
		Body:       input.Body,
		OccurredAt: occurredAt,
	}, h.Now())
	if err != nil {
		return nil, InteractionOutput{}, err
	}
	return nil, interactionToOutput(i), nil
}
