// Package progress displays per-topic accuracy and recent exam results.
package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/router"
	"github.com/pathologix/emtrainer/internal/screen"
	"github.com/pathologix/emtrainer/internal/store"
	"github.com/pathologix/emtrainer/internal/ui/components"
	"github.com/pathologix/emtrainer/internal/ui/layout"
	"github.com/pathologix/emtrainer/internal/ui/theme"
)

type progressLoadedMsg struct {
	Records  []*performance.Record
	Sessions []*store.SessionSummary
	Cached   map[string]int
	Err      error
}

// ProgressScreen shows the accuracy table, weakest topic first.
type ProgressScreen struct {
	userID    string
	tracker   *performance.Tracker
	attempts  *store.AttemptRepo
	scenarios *store.ScenarioRepo

	records  []*performance.Record
	sessions []*store.SessionSummary
	cached   map[string]int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a new ProgressScreen.
func New(userID string, tracker *performance.Tracker, attempts *store.AttemptRepo, scenarios *store.ScenarioRepo) *ProgressScreen {
	return &ProgressScreen{
		userID:    userID,
		tracker:   tracker,
		attempts:  attempts,
		scenarios: scenarios,
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	userID, tracker, attempts, scenarios := s.userID, s.tracker, s.attempts, s.scenarios
	return func() tea.Msg {
		ctx := context.Background()

		records, err := tracker.Summary(ctx, userID)
		if err != nil {
			return progressLoadedMsg{Err: err}
		}

		sessions, err := attempts.RecentSessions(ctx, userID, 5)
		if err != nil {
			return progressLoadedMsg{Records: records, Err: err}
		}

		cached, err := scenarios.CountByTopic(ctx, userID)
		if err != nil {
			cached = nil
		}

		return progressLoadedMsg{Records: records, Sessions: sessions, Cached: cached}
	}
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.records = msg.Records
		s.sessions = msg.Sessions
		s.cached = msg.Cached
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading progress...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Accuracy by topic (weakest first)")))
	b.WriteString("\n\n")

	barWidth := min(width-40, 40)
	for i, rec := range s.records {
		bar := components.NewProgressBar("", rec.Accuracy, true, barWidth)

		label := fmt.Sprintf("  %-16s", rec.Topic)
		labelStyle := lipgloss.NewStyle().Foreground(theme.Text)
		if i == 0 {
			labelStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		}

		extra := fmt.Sprintf("  %d attempts", rec.Attempts)
		if n := s.cached[rec.Topic]; n > 0 {
			extra += fmt.Sprintf(", %d cached", n)
		}

		line := labelStyle.Render(label) + bar.View() +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(extra)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	if len(s.sessions) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Recent exams")))
		b.WriteString("\n\n")

		for _, sess := range s.sessions {
			var pct float64
			if sess.ItemsSeen > 0 {
				pct = float64(sess.Correct) / float64(sess.ItemsSeen) * 100
			}
			line := fmt.Sprintf("  %s  %d/%d correct  %.0f%%",
				sess.CompletedAt.Local().Format("Jan 02 15:04"),
				sess.Correct, sess.ItemsSeen, pct)
			if sess.Exited {
				line += fmt.Sprintf("  (exited at %d of %d)", sess.ItemsSeen, sess.PlannedCount)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
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
