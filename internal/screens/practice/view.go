package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pathologix/emtrainer/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	if p.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", p.errMsg))
	}
	if p.loading || p.scen == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Preparing a scenario...")
	}
	if p.showingFeedback {
		return p.renderFeedback(width)
	}
	return p.renderScenario(width)
}

func (p *PracticeScreen) renderScenario(width int) string {
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Topic: %s (%s)", p.scen.Topic, p.scen.Domain))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Answered %d  Correct %d", p.answered, p.correct))

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
		Render(p.scen.Vignette)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, vignette))
	b.WriteString("\n\n")

	question := lipgloss.NewStyle().
		Width(textWidth).
		Foreground(theme.Text).
		Bold(true).
		Render(p.scen.Question)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, question))
	b.WriteString("\n\n")

	b.WriteString(p.renderChoices(width))
	return b.String()
}

func (p *PracticeScreen) renderChoices(width int) string {
	var b strings.Builder
	for i, c := range p.scen.Choices {
		prefix := "  "
		if i == p.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, c.ID, c.Text)
		if i == p.selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (p *PracticeScreen) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	if p.lastCorrect {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		correct := p.scen.CorrectChoice()
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		if correct != nil {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Correct answer: %s) %s", correct.ID, correct.Text)))
		}
	}
	b.WriteString("\n\n")

	textWidth := min(width-8, 78)

	// Rationale for the chosen answer, then the correct one.
	if chosen := p.scen.ChoiceByID(p.chosen); chosen != nil && !chosen.Correct {
		why := lipgloss.NewStyle().
			Width(textWidth).
			Foreground(theme.Text).
			Render(fmt.Sprintf("Why %s is wrong: %s", chosen.ID, chosen.WhyWrong))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, why))
		b.WriteString("\n\n")
	}
	if correct := p.scen.CorrectChoice(); correct != nil {
		why := lipgloss.NewStyle().
			Width(textWidth).
			Foreground(theme.Text).
			Render(fmt.Sprintf("Why %s is right: %s", correct.ID, correct.WhyRight))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, why))
		b.WriteString("\n\n")
	}

	// Clinical reasoning chain.
	if len(p.scen.ReasoningSteps) > 0 {
		header := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Reasoning")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, header))
		b.WriteString("\n")
		var steps strings.Builder
		for i, step := range p.scen.ReasoningSteps {
			steps.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
				Render(fmt.Sprintf("%d. %s: ", i+1, step.Label)))
			steps.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(step.Detail))
			steps.WriteString("\n")
		}
		block := lipgloss.NewStyle().Width(textWidth).Render(steps.String())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
		b.WriteString("\n")
	}

	// Cue anchors from the vignette.
	if len(p.scen.Cues) > 0 {
		header := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Cues")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, header))
		b.WriteString("\n")
		var cues strings.Builder
		for _, cue := range p.scen.Cues {
			cues.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("• " + cue.Text))
			cues.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(" — " + cue.Rationale))
			cues.WriteString("\n")
		}
		block := lipgloss.NewStyle().Width(textWidth).Render(cues.String())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
	}

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
