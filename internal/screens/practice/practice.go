// Package practice implements the untimed practice screen: one scenario
// at a time for the user's weakest topic, with full rationale feedback.
package practice

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/pathologix/emtrainer/internal/exam"
	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/router"
	"github.com/pathologix/emtrainer/internal/scenario"
	"github.com/pathologix/emtrainer/internal/screen"
	"github.com/pathologix/emtrainer/internal/ui/layout"
)

// scenarioReadyMsg is sent when the next scenario is available.
type scenarioReadyMsg struct {
	Topic    string
	Scenario *scenario.Scenario
	Err      error
}

// attemptRecordedMsg is sent after the attempt has been folded into the
// performance tracker.
type attemptRecordedMsg struct {
	Err error
}

// PracticeScreen serves scenarios for the weakest topic.
type PracticeScreen struct {
	userID  string
	tracker *performance.Tracker
	getter  exam.ScenarioGetter

	topic           string
	scen            *scenario.Scenario
	selected        int
	chosen          scenario.ChoiceID
	showingFeedback bool
	lastCorrect     bool
	loading         bool
	errMsg          string

	answered int
	correct  int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen.
func New(userID string, tracker *performance.Tracker, getter exam.ScenarioGetter) *PracticeScreen {
	return &PracticeScreen{
		userID:  userID,
		tracker: tracker,
		getter:  getter,
		loading: true,
	}
}

func (p *PracticeScreen) Init() tea.Cmd {
	return p.loadScenario()
}

func (p *PracticeScreen) Title() string {
	return "Practice"
}

// HeaderStatus shows the topic currently being drilled.
func (p *PracticeScreen) HeaderStatus() string {
	if p.topic == "" {
		return ""
	}
	return p.topic
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.showingFeedback {
		return []layout.KeyHint{
			{Key: "N", Description: "Next scenario"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4/↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scenarioReadyMsg:
		p.loading = false
		if msg.Err != nil {
			p.errMsg = msg.Err.Error()
			return p, nil
		}
		p.topic = msg.Topic
		p.scen = msg.Scenario
		p.selected = 0
		p.chosen = ""
		p.showingFeedback = false
		return p, nil

	case attemptRecordedMsg:
		// Recording failures are not fatal to the practice loop.
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.errMsg != "" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if p.loading || p.scen == nil {
		return p, nil
	}

	if p.showingFeedback {
		switch key {
		case "n", "N", "enter":
			p.loading = true
			return p, p.loadScenario()
		}
		return p, nil
	}

	switch key {
	case "up", "k":
		if p.selected > 0 {
			p.selected--
		}
	case "down", "j":
		if p.selected < len(p.scen.Choices)-1 {
			p.selected++
		}
	case "1", "2", "3", "4":
		idx := int(key[0] - '1')
		if idx < len(p.scen.Choices) {
			p.selected = idx
			return p.submit()
		}
	case "enter":
		return p.submit()
	}
	return p, nil
}

func (p *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	choice := p.scen.Choices[p.selected]
	p.chosen = choice.ID
	p.lastCorrect = choice.Correct
	p.showingFeedback = true
	p.answered++
	if choice.Correct {
		p.correct++
	}

	userID, topic, correct := p.userID, p.scen.Topic, choice.Correct
	tracker := p.tracker
	return p, func() tea.Msg {
		_, err := tracker.RecordAttempt(context.Background(), userID, topic, correct)
		return attemptRecordedMsg{Err: err}
	}
}

// loadScenario picks the weakest topic and fetches a scenario for it.
func (p *PracticeScreen) loadScenario() tea.Cmd {
	userID := p.userID
	tracker := p.tracker
	getter := p.getter
	return func() tea.Msg {
		ctx := context.Background()
		topic, err := tracker.WeakestTopic(ctx, userID)
		if err != nil {
			return scenarioReadyMsg{Err: err}
		}
		s, err := getter.GetOrGenerate(ctx, userID, topic)
		if err != nil {
			return scenarioReadyMsg{Topic: topic, Err: err}
		}
		return scenarioReadyMsg{Topic: topic, Scenario: s}
	}
}
