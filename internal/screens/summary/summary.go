// Package summary displays the result of a finished exam session.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pathologix/emtrainer/internal/exam"
	"github.com/pathologix/emtrainer/internal/router"
	"github.com/pathologix/emtrainer/internal/screen"
	"github.com/pathologix/emtrainer/internal/ui/layout"
	"github.com/pathologix/emtrainer/internal/ui/theme"
)

// TopicResult is the per-topic tally for one exam session.
type TopicResult struct {
	Topic     string
	Attempted int
	Correct   int
	Expired   int
}

// SummaryScreen displays the exam result.
type SummaryScreen struct {
	result exam.Result
	topics []TopicResult
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen.
func New(result exam.Result, topics []TopicResult) *SummaryScreen {
	return &SummaryScreen{result: result, topics: topics}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Exam Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			// Pop both summary and exam screens to get back to home.
			return s, tea.Batch(
				func() tea.Msg { return router.PopScreenMsg{} },
				func() tea.Msg { return router.PopScreenMsg{} },
			)
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result

	var b strings.Builder

	title := "Exam complete!"
	if res.Exited {
		title = "Exam ended early"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	if res.Exited {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Scored on the %d of %d questions seen", res.ItemsSeen, res.PlannedCount)))
		b.WriteString("\n\n")
	}

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Score: %.0f%%",
		res.ItemsSeen, res.Correct, res.Percent())
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	if len(s.topics) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Topics")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, tr := range s.topics {
			line := fmt.Sprintf("  %-16s  %d/%d correct", tr.Topic, tr.Correct, tr.Attempted)
			if tr.Expired > 0 {
				line += fmt.Sprintf("   (%d timed out)", tr.Expired)
			}
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if tr.Correct == tr.Attempted {
				style = style.Foreground(theme.Success)
			} else if tr.Correct == 0 {
				style = style.Foreground(theme.Error)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
