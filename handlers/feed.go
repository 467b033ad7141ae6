// ABOUTME: Action feed MCP tool
// ABOUTME: Returns the whole feed or an error, never a partial feed
package handlers

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type GetActionFeedInput struct {
	AsOf string `json:"as_of,omitempty" jsonschema:"RFC3339 instant to evaluate at (default now)"`
}

// GetActionFeed returns the feed as untyped output; its nested ids and
// timestamps marshal as strings.
func (h *Handlers) GetActionFeed(ctx context.Context, _ *mcp.CallToolRequest, input GetActionFeedInput) (*mcp.CallToolResult, any, error) {
	asOf := h.Now()
	if input.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, input.AsOf)
		if err != nil {
			return nil, nil, invalidArg("as_of", "must be RFC3339")
		}
		asOf = parsed
	}
	feed, err := h.Feed.ActionFeed(ctx, asOf)
	if err != nil {
		return nil, nil, err
	}
	return nil, feed, nil
}
