// ABOUTME: MCP server construction for the CRM
// ABOUTME: Registers every tool and resource against shared domain services
package handlers

import (
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/drafts"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/triage"
)

// Deps are the services tools call. Drafts may be nil when drafting is not configured.
type Deps struct {
	Database  *db.DB
	CRM       *crm.Service
	Feed      *triage.Service
	FollowUps *followups.Manager
	Drafts    *drafts.Service
	Location  *time.Location
	Logger    *slog.Logger
	Now       func() time.Time
}

type Handlers struct {
	Deps
}

func New(deps Deps) *Handlers {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	deps.Logger = logging.OrDiscard(deps.Logger)
	return &Handlers{Deps: deps}
}

// NewServer builds the MCP server with all tools and resources registered.
func NewServer(h *Handlers, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "voss", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_action_feed",
		Description: "Get the prioritized action feed: overdue and due-today follow-ups, recent inbound, going-cold contacts, stale deals, and new contacts",
	}, h.GetActionFeed)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_follow_ups",
		Description: "List follow-ups, optionally filtered by status or contact",
	}, h.ListFollowUps)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_follow_up",
		Description: "Schedule a follow-up for a contact",
	}, h.CreateFollowUp)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_follow_up",
		Description: "Mark a pending follow-up as completed",
	}, h.CompleteFollowUp)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "snooze_follow_up",
		Description: "Move a pending follow-up to a new date (today or later)",
	}, h.SnoozeFollowUp)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact, optionally linking or creating a company by name",
	}, h.AddContact)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name or email, optionally by engagement stage",
	}, h.FindContacts)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_engagement_stage",
		Description: "Move a contact to a new engagement stage (new, nurturing, active, client, churned)",
	}, h.UpdateEngagementStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a call, email, meeting, note, or message with a contact",
	}, h.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a deal for a contact",
	}, h.CreateDeal)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal_stage",
		Description: "Move a deal to a new pipeline stage",
	}, h.UpdateDealStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_email",
		Description: "Draft an email to a contact from their recent history and a stated intent",
	}, h.DraftEmail)

	server.AddResource(&mcp.Resource{
		URI:         actionFeedURI,
		Name:        "action-feed",
		Description: "The current action feed as JSON",
		MIMEType:    "application/json",
	}, h.ReadResource)
	server.AddResource(&mcp.Resource{
		URI:         pendingFollowUpsURI,
		Name:        "pending-follow-ups",
		Description: "Pending follow-ups grouped into overdue, today, and upcoming",
		MIMEType:    "application/json",
	}, h.ReadResource)

	return server
}
