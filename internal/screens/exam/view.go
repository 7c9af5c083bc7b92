package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	engine "github.com/pathologix/emtrainer/internal/exam"
	"github.com/pathologix/emtrainer/internal/ui/theme"
)

func (e *ExamScreen) View(width, height int) string {
	if e.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", e.errMsg))
	}

	switch e.phase {
	case phaseSetup:
		return e.renderSetup(width)
	case phaseQuitConfirm:
		return renderQuitConfirm(width)
	case phaseQuestion, phaseFeedback:
		return e.renderQuestion(width)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading...")
}

func (e *ExamScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Exam mode"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d seconds per question. No going back. Unanswered questions count as wrong.",
			int(engine.QuestionDuration.Seconds()))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("How many questions (%d-%d)?  %s",
			engine.MinQuestionCount, engine.MaxQuestionCount, e.input.View())))
	return b.String()
}

func (e *ExamScreen) renderQuestion(width int) string {
	q := e.sess.Current
	if q == nil {
		return ""
	}

	var b strings.Builder

	timerStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	if q.RemainingSeconds <= 15 {
		timerStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Q %d/%d", q.OrderIndex+1, e.sess.PlannedCount))
	infoRight := timerStyle.Render(fmt.Sprintf("0:%02d", q.RemainingSeconds))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	textWidth := min(width-8, 78)

	vignette := lipgloss.NewStyle().
		Width(textWidth).
		Foreground(theme.Text).
		Render(q.Item.Vignette)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, vignette))
	b.WriteString("\n\n")

	question := lipgloss.NewStyle().
		Width(textWidth).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Item.Question)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, question))
	b.WriteString("\n\n")

	b.WriteString(e.renderChoices(q, width))

	if e.phase == phaseFeedback {
		b.WriteString("\n")
		b.WriteString(e.renderVerdict(q, width))
	}

	return b.String()
}

func (e *ExamScreen) renderChoices(q *engine.Question, width int) string {
	selected := selectedIndex(q)
	submitted := q.Phase == engine.PhaseSubmitted

	var b strings.Builder
	for i, c := range q.Item.Choices {
		prefix := "  "
		if i == selected && !submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, c.ID, c.Text)

		var style lipgloss.Style
		switch {
		case submitted && c.Correct:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case submitted && q.Attempt != nil && c.ID == q.Attempt.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (e *ExamScreen) renderVerdict(q *engine.Question, width int) string {
	a := q.Attempt
	if a == nil {
		return ""
	}

	var verdict string
	switch {
	case a.Correct:
		verdict = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Correct")
	case a.Expired && a.Selected == "":
		verdict = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Time expired")
	default:
		verdict = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Incorrect")
	}

	hint := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Enter for the next question")

	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(verdict) +
		"\n" +
		lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(hint)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Exit the exam?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("You will be scored on the questions seen so far."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, exit and score"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
