// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive action feed viewer with follow-up complete and snooze
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/triage"
)

// FeedSource computes the action feed.
type FeedSource interface {
	ActionFeed(ctx context.Context, asOf time.Time) (*triage.ActionFeed, error)
}

// FollowUpActions mutates follow-ups from the feed.
type FollowUpActions interface {
	Complete(ctx context.Context, id uuid.UUID, asOf time.Time) (*models.FollowUp, error)
	Snooze(ctx context.Context, id uuid.UUID, newDate, newTime string, asOf time.Time) (*models.FollowUp, error)
}

type feedMsg struct {
	feed *triage.ActionFeed
	err  error
}

type actionMsg struct {
	status string
	err    error
}

// Model is the main bubbletea model
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	feeds     FeedSource
	followUps FollowUpActions
	loc       *time.Location
	now       func() time.Time

	feed   *triage.ActionFeed
	queue  int
	table  table.Model
	status string
	err    error

	width  int
	height int
}

// NewModel creates a new TUI model. Store calls run under a child of ctx
// that is cancelled when the user quits.
func NewModel(ctx context.Context, feeds FeedSource, followUps FollowUpActions, loc *time.Location, now func() time.Time) Model {
	ctx, cancel := context.WithCancel(ctx)
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(14),
	)
	return Model{
		ctx:       ctx,
		cancel:    cancel,
		feeds:     feeds,
		followUps: followUps,
		loc:       loc,
		now:       now,
		table:     t,
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		feed, err := m.feeds.ActionFeed(m.ctx, m.now())
		return feedMsg{feed: feed, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-10, 3))
		return m, nil
	case feedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.feed = msg.feed
			m.syncRows()
		}
		return m, nil
	case actionMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.status = msg.status
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "tab":
		m.queue = (m.queue + 1) % len(queueNames)
		m.syncRows()
		return m, nil
	case "shift+tab":
		m.queue = (m.queue + len(queueNames) - 1) % len(queueNames)
		m.syncRows()
		return m, nil
	case "r":
		m.status = ""
		return m, m.refresh()
	case "c":
		if f, ok := m.selectedFollowUp(); ok {
			return m, m.complete(f)
		}
		return m, nil
	case "s":
		if f, ok := m.selectedFollowUp(); ok {
			return m, m.snooze(f)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) complete(f triage.FollowUpItem) tea.Cmd {
	return func() tea.Msg {
		_, err := m.followUps.Complete(m.ctx, f.FollowUpID, m.now())
		return actionMsg{status: "Completed: " + f.Title, err: err}
	}
}

// snooze moves a follow-up to tomorrow, keeping its time of day.
func (m Model) snooze(f triage.FollowUpItem) tea.Cmd {
	return func() tea.Msg {
		now := m.now()
		tomorrow := models.DateOf(now.In(m.loc)).AddDays(1)
		_, err := m.followUps.Snooze(m.ctx, f.FollowUpID, tomorrow.String(), f.DueTime.String(), now)
		return actionMsg{status: "Snoozed to " + tomorrow.String() + ": " + f.Title, err: err}
	}
}

func (m Model) currentQueue() (triage.Queue, bool) {
	if m.feed == nil {
		return triage.Queue{}, false
	}
	return m.feed.Queues()[m.queue], true
}

func (m Model) selectedFollowUp() (triage.FollowUpItem, bool) {
	q, ok := m.currentQueue()
	if !ok {
		return triage.FollowUpItem{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(q.Items) {
		return triage.FollowUpItem{}, false
	}
	f, ok := q.Items[i].(triage.FollowUpItem)
	return f, ok
}

func (m *Model) syncRows() {
	q, ok := m.currentQueue()
	if !ok {
		return
	}
	rows := make([]table.Row, 0, len(q.Items))
	for _, item := range q.Items {
		d := item.Display()
		rows = append(rows, table.Row{d.Title, d.Subtitle, d.Reason})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func columns(width int) []table.Column {
	rest := max(width-40, 20)
	return []table.Column{
		{Title: "Item", Width: 30},
		{Title: "Who", Width: rest / 2},
		{Title: "Why", Width: rest - rest/2},
	}
}

// queueNames mirrors the order of triage.ActionFeed.Queues.
var queueNames = []string{
	"Overdue", "Due Today", "Recent Replies", "No Follow-up", "Going Cold", "Stale Deals", "Reach Out",
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Run starts the full-screen viewer and blocks until the user quits.
func Run(m Model) error {
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
