// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, Company, Deal, Interaction, and FollowUp structs plus their enums
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role,omitempty"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	LinkedInURL     string     `json:"linkedin_url,omitempty"`
	Segment         string     `json:"segment,omitempty"`
	EngagementStage string     `json:"engagement_stage"`
	InboundChannel  string     `json:"inbound_channel,omitempty"`
	DoNotContact    bool       `json:"do_not_contact"`
	Source          string     `json:"source,omitempty"`
	Tags            string     `json:"tags,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DisplayName returns "First Last", or "Unknown" when both are blank.
func (c *Contact) DisplayName() string {
	if c == nil {
		return UnknownName
	}
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return UnknownName
	}
	return name
}

// IsArchived reports whether the contact has been soft-deleted.
func (c *Contact) IsArchived() bool {
	return c.Status == ContactArchived
}

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	Website   string    `json:"website,omitempty"`
	Size      string    `json:"size,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Deal struct {
	ID            uuid.UUID  `json:"id"`
	ContactID     uuid.UUID  `json:"contact_id"`
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	Title         string     `json:"title"`
	Stage         string     `json:"stage"`
	Value         float64    `json:"value"`
	Currency      string     `json:"currency"`
	Priority      string     `json:"priority"`
	ExpectedClose Date       `json:"expected_close,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOpen reports whether the deal is still in the pipeline.
func (d *Deal) IsOpen() bool {
	return !IsTerminalDealStage(d.Stage)
}

// Interaction is an append-only event attached to a contact.
type Interaction struct {
	ID         uuid.UUID  `json:"id"`
	ContactID  uuid.UUID  `json:"contact_id"`
	DealID     *uuid.UUID `json:"deal_id,omitempty"`
	Type       string     `json:"type"`
	Direction  string     `json:"direction"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body,omitempty"`
	URL        string     `json:"url,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

type FollowUp struct {
	ID           uuid.UUID  `json:"id"`
	ContactID    uuid.UUID  `json:"contact_id"`
	DealID       *uuid.UUID `json:"deal_id,omitempty"`
	Title        string     `json:"title"`
	DueDate      Date       `json:"due_date"`
	DueTime      ClockTime  `json:"due_time,omitempty"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	ReminderSent bool       `json:"reminder_sent"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPending reports whether the follow-up is still open.
func (f *FollowUp) IsPending() bool {
	return f.Status == FollowUpPending
}

// Snapshot is a point-in-time, read-only view of every entity the
// triage engine classifies.
type Snapshot struct {
	Contacts     []Contact
	Companies    []Company
	Deals        []Deal
	Interactions []Interaction
	FollowUps    []FollowUp
}

const UnknownName = "Unknown"

// Contact status constants.
const (
	ContactActive   = "active"
	ContactArchived = "archived"
)

// Engagement stage constants.
const (
	EngagementNew       = "new"
	EngagementNurturing = "nurturing"
	EngagementActive    = "active"
	EngagementClient    = "client"
	EngagementChurned   = "churned"
)

var EngagementStages = []string{
	EngagementNew, EngagementNurturing, EngagementActive, EngagementClient, EngagementChurned,
}

// IsInConversation reports whether the stage counts as an ongoing conversation.
func IsInConversation(stage string) bool {
	return stage == EngagementNurturing || stage == EngagementActive
}

// Deal stage constants, in pipeline order.
const (
	StageLead        = "lead"
	StageProspect    = "prospect"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

var DealStages = []string{
	StageLead, StageProspect, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost,
}

// IsTerminalDealStage reports whether the stage closes the deal.
func IsTerminalDealStage(stage string) bool {
	return stage == StageWon || stage == StageLost
}

// Deal priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var DealPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// InteractionType constants.
const (
	InteractionCall     = "call"
	InteractionEmail    = "email"
	InteractionMeeting  = "meeting"
	InteractionNote     = "note"
	InteractionLinkedIn = "linkedin_message"
	InteractionOther    = "other"
)

var InteractionTypes = []string{
	InteractionCall, InteractionEmail, InteractionMeeting, InteractionNote, InteractionLinkedIn, InteractionOther,
}

// Direction constants.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
	DirectionInternal = "internal"
)

var Directions = []string{DirectionInbound, DirectionOutbound, DirectionInternal}

// FollowUp status constants.
const (
	FollowUpPending   = "pending"
	FollowUpCompleted = "completed"
)

// Segments and inbound channels offered by the contact forms.
var (
	Segments        = []string{"consulting", "pe", "other"}
	InboundChannels = []string{"linkedin", "email", "referral", "conference", "cold_outbound", "website", "other"}
)

// OneOf reports whether value is one of allowed.
func OneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
