// ABOUTME: Terminal dashboard rendering for the action feed
// ABOUTME: Renders queues, stats, and a pipeline bar chart, styled or plain
package viz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/harperreed/voss/triage"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	reasonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Renderer turns feeds into text. Plain renderers emit no escape codes.
type Renderer struct {
	styled bool
}

func NewRenderer(styled bool) *Renderer {
	return &Renderer{styled: styled}
}

// ForWriter styles output only when w is a terminal.
func ForWriter(w io.Writer) *Renderer {
	f, ok := w.(*os.File)
	return NewRenderer(ok && term.IsTerminal(int(f.Fd())))
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return style.Render(s)
}

// RenderActionFeed renders every non-empty queue followed by stats and the pipeline.
func (r *Renderer) RenderActionFeed(feed *triage.ActionFeed) string {
	var out strings.Builder

	out.WriteString(r.paint(headerStyle, fmt.Sprintf("ACTION FEED  %s", feed.Today)))
	out.WriteString("\n\n")

	empty := true
	for _, q := range feed.Queues() {
		if q.Total == 0 {
			continue
		}
		empty = false
		out.WriteString(r.paint(sectionStyle, fmt.Sprintf("%s (%d)", strings.ToUpper(q.Title), q.Total)))
		out.WriteString("\n")
		for _, item := range q.Items {
			d := item.Display()
			line := "  • " + d.Title
			if d.Subtitle != "" {
				line += r.paint(mutedStyle, " - "+d.Subtitle)
			}
			out.WriteString(line)
			out.WriteString("  ")
			out.WriteString(r.paint(reasonStyle, d.Reason))
			out.WriteString("\n")
		}
		if hidden := q.Total - len(q.Items); hidden > 0 {
			out.WriteString(r.paint(mutedStyle, fmt.Sprintf("  … and %d more", hidden)))
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}
	if empty {
		out.WriteString("All clear! Nothing needs attention.\n\n")
	}

	s := feed.Stats
	out.WriteString(r.paint(sectionStyle, "STATS"))
	out.WriteString("\n")
	out.WriteString(fmt.Sprintf("  %d active contacts  %d in conversation  %d follow-ups this week\n",
		s.TotalActiveContacts, s.InConversation, s.FollowUpsThisWeek))
	out.WriteString(fmt.Sprintf("  %d open deals worth %s\n\n", s.DealsInPipeline, triage.FormatMoney(s.PipelineValue, "")))

	out.WriteString(r.paint(sectionStyle, "PIPELINE"))
	out.WriteString("\n")
	r.renderPipeline(&out, feed.PipelineByStage)
	return out.String()
}

func (r *Renderer) renderPipeline(out *strings.Builder, stages []triage.StageSummary) {
	maxCount := 0
	for _, s := range stages {
		maxCount = max(maxCount, s.Count)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range stages {
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		fmt.Fprintf(out, "  %-12s %s  %2d (%s)\n", s.Stage, bar, s.Count, triage.FormatMoney(s.Value, ""))
	}
}
