// ABOUTME: Engagement triage engine
// ABOUTME: Pure classification of a snapshot into the action feed's queues and summary stats
package triage

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
)

// Engine computes action feeds. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	th Thresholds
}

func NewEngine(th Thresholds) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Engine{th: th}, nil
}

func (e *Engine) Thresholds() Thresholds { return e.th }

// contactState is everything the rules need to know about one contact.
type contactState struct {
	contact      *models.Contact
	company      string
	lastAny      *models.Interaction
	lastInbound  *models.Interaction
	pendingCount int
}

// Compute classifies snap as of asOf. Interactions after asOf are ignored, as
// are rows belonging to archived or unknown contacts.
func (e *Engine) Compute(snap *models.Snapshot, asOf time.Time) *ActionFeed {
	today := models.DateOf(asOf.In(e.th.location()))
	feed := &ActionFeed{AsOf: asOf, Today: today}

	companies := make(map[uuid.UUID]string, len(snap.Companies))
	for _, c := range snap.Companies {
		companies[c.ID] = c.Name
	}

	states := make(map[uuid.UUID]*contactState, len(snap.Contacts))
	for i := range snap.Contacts {
		c := &snap.Contacts[i]
		if c.IsArchived() {
			continue
		}
		st := &contactState{contact: c}
		if c.CompanyID != nil {
			st.company = companies[*c.CompanyID]
		}
		states[c.ID] = st
	}

	for i := range snap.Interactions {
		in := &snap.Interactions[i]
		st, ok := states[in.ContactID]
		if !ok || in.OccurredAt.After(asOf) {
			continue
		}
		if later(in, st.lastAny) {
			st.lastAny = in
		}
		if in.Direction == models.DirectionInbound && later(in, st.lastInbound) {
			st.lastInbound = in
		}
	}

	var overdue, dueToday []FollowUpItem
	weekStart, weekEnd := models.WeekBounds(today, e.th.WeekStart)
	for i := range snap.FollowUps {
		f := &snap.FollowUps[i]
		st, ok := states[f.ContactID]
		if !ok || !f.IsPending() {
			continue
		}
		st.pendingCount++
		if !f.DueDate.Before(weekStart) && !f.DueDate.After(weekEnd) {
			feed.Stats.FollowUpsThisWeek++
		}
		switch {
		case followups.IsOverdue(f, today):
			item := followUpItem(f, st)
			item.DaysOverdue = followups.DaysOverdue(f, today)
			item.Reason = overdueReason(item.DaysOverdue)
			overdue = append(overdue, item)
		case followups.IsDueToday(f, today):
			item := followUpItem(f, st)
			item.Reason = dueTodayReason(f.DueTime)
			dueToday = append(dueToday, item)
		}
	}
	slices.SortFunc(overdue, compareFollowUpItems)
	slices.SortFunc(dueToday, compareFollowUpItems)
	feed.ActionRequired.OverdueTotal = len(overdue)
	feed.ActionRequired.DueTodayTotal = len(dueToday)
	feed.ActionRequired.OverdueFollowUps = truncate(overdue, e.th.Limits.Overdue)
	feed.ActionRequired.DueToday = truncate(dueToday, e.th.Limits.DueToday)

	inboundSince := asOf.Add(-e.th.inboundWindow())
	coldBefore := asOf.Add(-e.th.staleness())
	var inbound, noFollowUp, cold, fresh []ContactItem
	for _, st := range states {
		c := st.contact
		if c.EngagementStage != models.EngagementChurned {
			feed.Stats.TotalActiveContacts++
		}
		conversing := models.IsInConversation(c.EngagementStage)
		if conversing {
			feed.Stats.InConversation++
		}

		if st.lastInbound != nil && !st.lastInbound.OccurredAt.Before(inboundSince) {
			item := contactItem(st, st.lastInbound)
			item.Reason = inboundReason(st.lastInbound.Type, asOf, st.lastInbound.OccurredAt)
			inbound = append(inbound, item)
		}
		if conversing && st.lastAny != nil && st.pendingCount == 0 {
			item := contactItem(st, st.lastAny)
			item.Reason = noFollowUpReason(asOf, st.lastAny.OccurredAt)
			noFollowUp = append(noFollowUp, item)
		}
		if conversing && (st.lastAny == nil || st.lastAny.OccurredAt.Before(coldBefore)) {
			item := contactItem(st, st.lastAny)
			item.Reason = goingColdReason(asOf, item.LastInteractionAt)
			cold = append(cold, item)
		}
		if c.EngagementStage == models.EngagementNew && !c.DoNotContact {
			item := contactItem(st, nil)
			item.Reason = newContactReason
			fresh = append(fresh, item)
		}
	}

	slices.SortFunc(inbound, func(a, b ContactItem) int {
		return cmp.Or(compareTimes(b.LastInteractionAt, a.LastInteractionAt), compareIDs(a.ContactID, b.ContactID))
	})
	slices.SortFunc(noFollowUp, func(a, b ContactItem) int {
		return cmp.Or(compareTimes(b.LastInteractionAt, a.LastInteractionAt), compareIDs(a.ContactID, b.ContactID))
	})
	slices.SortFunc(cold, func(a, b ContactItem) int {
		return cmp.Or(compareTimes(a.LastInteractionAt, b.LastInteractionAt), compareNames(a, b))
	})
	slices.SortFunc(fresh, compareNames)

	feed.Momentum.InboundRecentTotal = len(inbound)
	feed.Momentum.NoFollowUpScheduledTotal = len(noFollowUp)
	feed.Momentum.InboundRecent = truncate(inbound, e.th.Limits.Inbound)
	feed.Momentum.NoFollowUpScheduled = truncate(noFollowUp, e.th.Limits.NoFollowUp)
	feed.AtRisk.GoingColdTotal = len(cold)
	feed.AtRisk.GoingCold = truncate(cold, e.th.Limits.GoingCold)
	feed.ReadyToReachOut.NewContactsTotal = len(fresh)
	feed.ReadyToReachOut.NewContacts = truncate(fresh, e.th.Limits.NewContacts)

	byStage := make(map[string]*StageSummary, len(models.DealStages))
	for _, s := range models.DealStages {
		byStage[s] = &StageSummary{Stage: s}
	}
	var stale []DealItem
	for i := range snap.Deals {
		d := &snap.Deals[i]
		st, ok := states[d.ContactID]
		if !ok {
			continue
		}
		if sum, ok := byStage[d.Stage]; ok {
			sum.Count++
			sum.Value += d.Value
		}
		if !d.IsOpen() {
			continue
		}
		feed.Stats.DealsInPipeline++
		feed.Stats.PipelineValue += d.Value
		if d.UpdatedAt.Before(coldBefore) {
			stale = append(stale, dealItem(d, st, companies, asOf))
		}
	}
	slices.SortFunc(stale, func(a, b DealItem) int {
		return cmp.Or(cmp.Compare(b.DaysStale, a.DaysStale), compareIDs(a.DealID, b.DealID))
	})
	feed.AtRisk.StaleDealsTotal = len(stale)
	feed.AtRisk.StaleDeals = truncate(stale, e.th.Limits.StaleDeals)

	feed.PipelineByStage = make([]StageSummary, 0, len(models.DealStages))
	for _, s := range models.DealStages {
		feed.PipelineByStage = append(feed.PipelineByStage, *byStage[s])
	}
	return feed
}

func followUpItem(f *models.FollowUp, st *contactState) FollowUpItem {
	return FollowUpItem{
		FollowUpID:  f.ID,
		ContactID:   f.ContactID,
		DealID:      f.DealID,
		Title:       f.Title,
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		ContactName: st.contact.DisplayName(),
		CompanyName: st.company,
	}
}

func contactItem(st *contactState, last *models.Interaction) ContactItem {
	item := ContactItem{
		ContactID:       st.contact.ID,
		Name:            st.contact.DisplayName(),
		Email:           st.contact.Email,
		CompanyName:     st.company,
		EngagementStage: st.contact.EngagementStage,
	}
	if last != nil {
		at := last.OccurredAt
		item.LastInteractionAt = &at
		item.LastInteractionType = last.Type
	}
	return item
}

func dealItem(d *models.Deal, st *contactState, companies map[uuid.UUID]string, asOf time.Time) DealItem {
	company := st.company
	if d.CompanyID != nil {
		if name, ok := companies[*d.CompanyID]; ok {
			company = name
		}
	}
	days := wholeDays(asOf, d.UpdatedAt)
	return DealItem{
		DealID:      d.ID,
		ContactID:   d.ContactID,
		Title:       d.Title,
		Stage:       d.Stage,
		Value:       d.Value,
		Currency:    d.Currency,
		ContactName: st.contact.DisplayName(),
		CompanyName: company,
		UpdatedAt:   d.UpdatedAt,
		DaysStale:   days,
		Reason:      staleDealReason(days),
	}
}

// later reports whether in is strictly more recent than cur, breaking ties by id.
func later(in, cur *models.Interaction) bool {
	if cur == nil {
		return true
	}
	if !in.OccurredAt.Equal(cur.OccurredAt) {
		return in.OccurredAt.After(cur.OccurredAt)
	}
	return compareIDs(in.ID, cur.ID) > 0
}

// compareFollowUpItems orders by due date, then due time with untimed last, then id.
func compareFollowUpItems(a, b FollowUpItem) int {
	if c := cmp.Compare(a.DueDate, b.DueDate); c != 0 {
		return c
	}
	switch {
	case a.DueTime.IsZero() && !b.DueTime.IsZero():
		return 1
	case !a.DueTime.IsZero() && b.DueTime.IsZero():
		return -1
	}
	return cmp.Or(cmp.Compare(a.DueTime, b.DueTime), compareIDs(a.FollowUpID, b.FollowUpID))
}

// compareTimes sorts nil before any time.
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func compareNames(a, b ContactItem) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		compareIDs(a.ContactID, b.ContactID),
	)
}

func compareIDs(a, b uuid.UUID) int {
	return strings.Compare(a.String(), b.String())
}

// truncate caps list at limit and never returns nil so empty queues encode as [].
func truncate[T any](list []T, limit int) []T {
	if len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		return []T{}
	}
	return list
}
