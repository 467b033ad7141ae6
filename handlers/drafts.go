// ABOUTME: Email drafting MCP tool
// ABOUTME: Wraps the drafting service; reports unconfigured drafting as an error
package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/voss/drafts"
)

type DraftEmailInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	DealID    string `json:"deal_id,omitempty"`
	Intent    string `json:"intent" jsonschema:"What the email should accomplish (required)"`
	Tone      string `json:"tone,omitempty" jsonschema:"Desired tone (default professional and warm)"`
}

func (h *Handlers) DraftEmail(ctx context.Context, _ *mcp.CallToolRequest, input DraftEmailInput) (*mcp.CallToolResult, drafts.Draft, error) {
	if h.Drafts == nil {
		return nil, drafts.Draft{}, drafts.ErrNotConfigured
	}
	contactID, err := parseID("contact_id", input.ContactID)
	if err != nil {
		return nil, drafts.Draft{}, err
	}
	dealID, err := parseOptionalID("deal_id", input.DealID)
	if err != nil {
		return nil, drafts.Draft{}, err
	}
	d, err := h.Drafts.Draft(ctx, drafts.Request{
		ContactID: contactID,
		DealID:    dealID,
		Intent:    input.Intent,
		Tone:      input.Tone,
	})
	if err != nil {
		return nil, drafts.Draft{}, err
	}
	return nil, *d, nil
}
