// ABOUTME: MCP resource handlers exposing live CRM views
// ABOUTME: voss://action-feed and voss://follow-ups/pending, rendered as JSON
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
)

const (
	actionFeedURI       = "voss://action-feed"
	pendingFollowUpsURI = "voss://follow-ups/pending"
)

// ReadResource handles resource read requests
func (h *Handlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI

	var payload any
	switch uri {
	case actionFeedURI:
		feed, err := h.Feed.ActionFeed(ctx, h.Now())
		if err != nil {
			return nil, err
		}
		payload = feed
	case pendingFollowUpsURI:
		list, err := db.NewFollowUpRepository(h.Database.Conn()).List(ctx, db.FollowUpFilter{Status: models.FollowUpPending})
		if err != nil {
			return nil, err
		}
		payload = followups.Group(list, models.DateOf(h.Now().In(h.Location)))
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
