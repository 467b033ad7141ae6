// ABOUTME: Rendering for the action feed viewer
// ABOUTME: Title, queue tabs with counts, the item table, and key help
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var s strings.Builder

	title := "VOSS"
	if m.feed != nil {
		title = fmt.Sprintf("VOSS  %s", m.feed.Today)
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if m.feed == nil && m.err == nil {
		s.WriteString("Loading…\n")
		return s.String()
	}

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")
	s.WriteString(m.table.View())
	s.WriteString("\n")

	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	case m.status != "":
		s.WriteString(okStyle.Render(m.status))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("tab: next queue • ↑/↓: move • c: complete • s: snooze to tomorrow • r: refresh • q: quit"))
	return s.String()
}

func (m Model) renderTabs() string {
	var totals []int
	if m.feed != nil {
		for _, q := range m.feed.Queues() {
			totals = append(totals, q.Total)
		}
	}

	rendered := make([]string, len(queueNames))
	for i, name := range queueNames {
		label := name
		if i < len(totals) {
			label = fmt.Sprintf("%s (%d)", name, totals[i])
		}
		if i == m.queue {
			rendered[i] = tabActiveStyle.Render(label)
		} else {
			rendered[i] = tabInactiveStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
