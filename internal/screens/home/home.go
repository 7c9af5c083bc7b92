// Package home implements the main menu screen.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pathologix/emtrainer/internal/exam"
	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/router"
	"github.com/pathologix/emtrainer/internal/screen"
	examscreen "github.com/pathologix/emtrainer/internal/screens/exam"
	"github.com/pathologix/emtrainer/internal/screens/practice"
	"github.com/pathologix/emtrainer/internal/screens/progress"
	"github.com/pathologix/emtrainer/internal/store"
	"github.com/pathologix/emtrainer/internal/ui/components"
	"github.com/pathologix/emtrainer/internal/ui/theme"
)

// Deps carries the services the home screen hands to child screens.
type Deps struct {
	UserID    string
	Tracker   *performance.Tracker
	Getter    exam.ScenarioGetter // nil when no LLM provider is configured
	Attempts  *store.AttemptRepo
	Scenarios *store.ScenarioRepo
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu     components.Menu
	noGetter bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "PRACTICE WEAK TOPIC", Disabled: deps.Getter == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: practice.New(deps.UserID, deps.Tracker, deps.Getter),
				}
			}
		}},
		{Label: "EXAM MODE", Disabled: deps.Getter == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: examscreen.New(deps.UserID, deps.Tracker, deps.Getter, deps.Attempts),
				}
			}
		}},
		{Label: "PROGRESS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: progress.New(deps.UserID, deps.Tracker, deps.Attempts, deps.Scenarios),
				}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:     components.NewMenu(items),
		noGetter: deps.Getter == nil,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("EMTrainer")
	subtitle := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("NREMT scenario practice")
	sections = append(sections, title+"\n"+subtitle)

	sections = append(sections, h.menu.View())

	if h.noGetter {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("Set EMTRAINER_OPENAI_API_KEY (or Anthropic/Gemini) to enable practice and exams."))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
