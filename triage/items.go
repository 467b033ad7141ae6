// ABOUTME: Action feed types: the three queue item kinds and their common display projection
// ABOUTME: Items are a closed tagged variant; renderers switch on Kind or use Display
package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/models"
)

type ItemKind string

const (
	KindFollowUp ItemKind = "follow_up"
	KindContact  ItemKind = "contact"
	KindDeal     ItemKind = "deal"
)

// Display is what every renderer needs regardless of item kind.
type Display struct {
	Kind     ItemKind `json:"kind"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Reason   string   `json:"reason"`
}

// Item is implemented only by FollowUpItem, ContactItem, and DealItem.
type Item interface {
	Kind() ItemKind
	Display() Display
	isItem()
}

type FollowUpItem struct {
	FollowUpID  uuid.UUID        `json:"follow_up_id"`
	ContactID   uuid.UUID        `json:"contact_id"`
	DealID      *uuid.UUID       `json:"deal_id,omitempty"`
	Title       string           `json:"title"`
	DueDate     models.Date      `json:"due_date"`
	DueTime     models.ClockTime `json:"due_time,omitempty"`
	ContactName string           `json:"contact_name"`
	CompanyName string           `json:"company_name,omitempty"`
	DaysOverdue int              `json:"days_overdue,omitempty"`
	Reason      string           `json:"reason"`
}

func (FollowUpItem) isItem()          {}
func (FollowUpItem) Kind() ItemKind { return KindFollowUp }

func (i FollowUpItem) Display() Display {
	return Display{
		Kind:     KindFollowUp,
		ID:       i.FollowUpID.String(),
		Title:    i.Title,
		Subtitle: joinNonEmpty(i.ContactName, i.CompanyName),
		Reason:   i.Reason,
	}
}

type ContactItem struct {
	ContactID           uuid.UUID  `json:"contact_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email,omitempty"`
	CompanyName         string     `json:"company_name,omitempty"`
	EngagementStage     string     `json:"engagement_stage"`
	LastInteractionAt   *time.Time `json:"last_interaction_at,omitempty"`
	LastInteractionType string     `json:"last_interaction_type,omitempty"`
	Reason              string     `json:"reason"`
}

func (ContactItem) isItem()          {}
func (ContactItem) Kind() ItemKind { return KindContact }

func (i ContactItem) Display() Display {
	sub := i.CompanyName
	if sub == "" {
		sub = i.Email
	}
	return Display{
		Kind:     KindContact,
		ID:       i.ContactID.String(),
		Title:    i.Name,
		Subtitle: sub,
		Reason:   i.Reason,
	}
}

type DealItem struct {
	DealID      uuid.UUID `json:"deal_id"`
	ContactID   uuid.UUID `json:"contact_id"`
	Title       string    `json:"title"`
	Stage       string    `json:"stage"`
	Value       float64   `json:"value"`
	Currency    string    `json:"currency"`
	ContactName string    `json:"contact_name"`
	CompanyName string    `json:"company_name,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	DaysStale   int       `json:"days_stale"`
	Reason      string    `json:"reason"`
}

func (DealItem) isItem()          {}
func (DealItem) Kind() ItemKind { return KindDeal }

func (i DealItem) Display() Display {
	return Display{
		Kind:     KindDeal,
		ID:       i.DealID.String(),
		Title:    i.Title,
		Subtitle: joinNonEmpty(i.ContactName, i.Stage, FormatMoney(i.Value, i.Currency)),
		Reason:   i.Reason,
	}
}

// FormatMoney renders 12500.5 USD as "USD 12,500".
func FormatMoney(value float64, currency string) string {
	whole := fmt.Sprintf("%.0f", value)
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	if currency == "" {
		return out
	}
	return currency + " " + out
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}

type Stats struct {
	TotalActiveContacts int     `json:"total_active_contacts"`
	InConversation      int     `json:"in_conversation"`
	FollowUpsThisWeek   int     `json:"follow_ups_this_week"`
	DealsInPipeline     int     `json:"deals_in_pipeline"`
	PipelineValue       float64 `json:"pipeline_value"`
}

// StageSummary counts deals and their value in one pipeline stage.
type StageSummary struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type ActionRequired struct {
	OverdueFollowUps []FollowUpItem `json:"overdue_follow_ups"`
	DueToday         []FollowUpItem `json:"due_today"`
	OverdueTotal     int            `json:"overdue_total"`
	DueTodayTotal    int            `json:"due_today_total"`
}

type Momentum struct {
	InboundRecent            []ContactItem `json:"inbound_recent"`
	NoFollowUpScheduled      []ContactItem `json:"no_follow_up_scheduled"`
	InboundRecentTotal       int           `json:"inbound_recent_total"`
	NoFollowUpScheduledTotal int           `json:"no_follow_up_scheduled_total"`
}

type AtRisk struct {
	GoingCold       []ContactItem `json:"going_cold"`
	StaleDeals      []DealItem    `json:"stale_deals"`
	GoingColdTotal  int           `json:"going_cold_total"`
	StaleDealsTotal int           `json:"stale_deals_total"`
}

type ReadyToReachOut struct {
	NewContacts      []ContactItem `json:"new_contacts"`
	NewContactsTotal int           `json:"new_contacts_total"`
}

// ActionFeed is the full triage result for one as-of instant.
type ActionFeed struct {
	AsOf            time.Time       `json:"as_of"`
	Today           models.Date     `json:"today"`
	Stats           Stats           `json:"stats"`
	ActionRequired  ActionRequired  `json:"action_required"`
	Momentum        Momentum        `json:"momentum"`
	AtRisk          AtRisk          `json:"at_risk"`
	ReadyToReachOut ReadyToReachOut `json:"ready_to_reach_out"`
	PipelineByStage []StageSummary  `json:"pipeline_by_stage"`
}

// Queue is one named list of items in display order.
type Queue struct {
	Name  string
	Title string
	Total int
	Items []Item
}

// Queues returns the feed's seven queues in dashboard order.
func (f *ActionFeed) Queues() []Queue {
	return []Queue{
		{"overdue_follow_ups", "Overdue", f.ActionRequired.OverdueTotal, asItems(f.ActionRequired.OverdueFollowUps)},
		{"due_today", "Due Today", f.ActionRequired.DueTodayTotal, asItems(f.ActionRequired.DueToday)},
		{"inbound_recent", "Recent Replies", f.Momentum.InboundRecentTotal, asItems(f.Momentum.InboundRecent)},
		{"no_follow_up_scheduled", "No Follow-up Scheduled", f.Momentum.NoFollowUpScheduledTotal, asItems(f.Momentum.NoFollowUpScheduled)},
		{"going_cold", "Going Cold", f.AtRisk.GoingColdTotal, asItems(f.AtRisk.GoingCold)},
		{"stale_deals", "Stale Deals", f.AtRisk.StaleDealsTotal, asItems(f.AtRisk.StaleDeals)},
		{"new_contacts", "Ready to Reach Out", f.ReadyToReachOut.NewContactsTotal, asItems(f.ReadyToReachOut.NewContacts)},
	}
}

func asItems[T Item](list []T) []Item {
	out := make([]Item, len(list))
	for i, v := range list {
		out[i] = v
	}
	return out
}
