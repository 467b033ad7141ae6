// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal and update_deal_stage
package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/voss/crm"
)

type CreateDealInput struct {
	ContactID     string  `json:"contact_id" jsonschema:"Contact ID (required)"`
	CompanyID     string  `json:"company_id,omitempty"`
	Title         string  `json:"title" jsonschema:"Deal title (required)"`
	Stage         string  `json:"stage,omitempty" jsonschema:"lead, prospect, qualified, proposal, negotiation, won, or lost (default lead)"`
	Value         float64 `json:"value,omitempty"`
	Currency      string  `json:"currency,omitempty" jsonschema:"ISO currency code (default USD)"`
	Priority      string  `json:"priority,omitempty" jsonschema:"low, medium, or high (default medium)"`
	ExpectedClose string  `json:"expected_close,omitempty" jsonschema:"Expected close date YYYY-MM-DD"`
	Notes         string  `json:"notes,omitempty"`
}

func (h *Handlers) CreateDeal(ctx context.Context, _ *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	contactID, err := parseID("contact_id", input.ContactID)
	if err != nil {
		return nil, DealOutput{}, err
	}
	companyID, err := parseOptionalID("company_id", input.CompanyID)
	if err != nil {
		return nil, DealOutput{}, err
	}
	d, err := h.CRM.CreateDeal(ctx, crm.DealInput{
		ContactID:     contactID,
		CompanyID:     companyID,
		Title:         input.Title,
		Stage:         input.Stage,
		Value:         input.Value,
		Currency:      input.Currency,
		Priority:      input.Priority,
		ExpectedClose: input.ExpectedClose,
		Notes:         input.Notes,
	}, h.Now())
	if err != nil {
		return nil, DealOutput{}, err
	}
	return nil, dealToOutput(d), nil
}

type UpdateDealStageInput struct {
	ID    string `json:"id" jsonschema:"Deal ID (required)"`
	Stage string `json:"stage" jsonschema:"New stage (required)"`
}

func (h *Handlers) UpdateDealStage(ctx context.Context, _ *mcp.CallToolRequest, input UpdateDealStageInput) (*mcp.CallToolResult, DealOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, DealOutput{}, err
	}
	d, err := h.CRM.UpdateDealStage(ctx, id, input.Stage, h.Now())
	if err != nil {
		return nil, DealOutput{}, err
	}
	return nil, dealToOutput(d), nil
}
