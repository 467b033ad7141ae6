// ABOUTME: Follow-up MCP tools
// ABOUTME: list, create, complete, and snooze through the lifecycle manager
package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
)

type ListFollowUpsInput struct {
	Status    string `json:"status,omitempty" jsonschema:"pending or completed"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Only follow-ups for this contact"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListFollowUpsOutput struct {
	FollowUps []FollowUpOutput `json:"follow_ups"`
}

func (h *Handlers) ListFollowUps(ctx context.Context, _ *mcp.CallToolRequest, input ListFollowUpsInput) (*mcp.CallToolResult, ListFollowUpsOutput, error) {
	if input.Status != "" && input.Status != models.FollowUpPending && input.Status != models.FollowUpCompleted {
		return nil, ListFollowUpsOutput{}, invalidArg("status", "must be pending or completed")
	}
	contactID, err := parseOptionalID("contact_id", input.ContactID)
	if err != nil {
		return nil, ListFollowUpsOutput{}, err
	}
	if input.Limit <= 0 {
		input.Limit = 50
	}

	list, err := db.NewFollowUpRepository(h.Database.Conn()).List(ctx, db.FollowUpFilter{
		Status:    input.Status,
		ContactID: contactID,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, ListFollowUpsOutput{}, err
	}
	out := ListFollowUpsOutput{FollowUps: make([]FollowUpOutput, len(list))}
	for i := range list {
		out.FollowUps[i] = followUpToOutput(&list[i])
	}
	return nil, out, nil
}

type CreateFollowUpInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	DealID    string `json:"deal_id,omitempty" jsonschema:"Related deal ID"`
	Title     string `json:"title" jsonschema:"What to do (required)"`
	DueDate   string `json:"due_date" jsonschema:"Due date YYYY-MM-DD (required)"`
	DueTime   string `json:"due_time,omitempty" jsonschema:"Due time HH:MM"`
	Notes     string `json:"notes,omitempty"`
}

func (h *Handlers) CreateFollowUp(ctx context.Context, _ *mcp.CallToolRequest, input CreateFollowUpInput) (*mcp.CallToolResult, FollowUpOutput, error) {
	contactID, err := parseID("contact_id", input.ContactID)
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	dealID, err := parseOptionalID("deal_id", input.DealID)
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	f, err := h.FollowUps.Create(ctx, followups.CreateInput{
		ContactID: contactID,
		DealID:    dealID,
		Title:     input.Title,
		DueDate:   input.DueDate,
		DueTime:   input.DueTime,
		Notes:     input.Notes,
	}, h.Now())
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	return nil, followUpToOutput(f), nil
}

type FollowUpIDInput struct {
	ID string `json:"id" jsonschema:"Follow-up ID (required)"`
}

func (h *Handlers) CompleteFollowUp(ctx context.Context, _ *mcp.CallToolRequest, input FollowUpIDInput) (*mcp.CallToolResult, FollowUpOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	f, err := h.FollowUps.Complete(ctx, id, h.Now())
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	return nil, followUpToOutput(f), nil
}

type SnoozeFollowUpInput struct {
	ID      string `json:"id" jsonschema:"Follow-up ID (required)"`
	DueDate string `json:"due_date" jsonschema:"New due date YYYY-MM-DD, today or later (required)"`
	DueTime string `json:"due_time,omitempty" jsonschema:"New due time HH:MM"`
}

func (h *Handlers) SnoozeFollowUp(ctx context.Context, _ *mcp.CallToolRequest, input SnoozeFollowUpInput) (*mcp.CallToolResult, FollowUpOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	f, err := h.FollowUps.Snooze(ctx, id, input.DueDate, input.DueTime, h.Now())
	if err != nil {
		return nil, FollowUpOutput{}, err
	}
	return nil, followUpToOutput(f), nil
}

func invalidArg(field, reason string) error {
	return models.NewValidationError("request", "", field, reason)
}
