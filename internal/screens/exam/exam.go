// Package exam implements the timed exam screen: a fixed-length run of
// questions with a 90-second countdown each, no backtracking, and a
// score based on the items actually seen.
package exam

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	engine "github.com/pathologix/emtrainer/internal/exam"
	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/router"
	"github.com/pathologix/emtrainer/internal/screen"
	"github.com/pathologix/emtrainer/internal/screens/summary"
	"github.com/pathologix/emtrainer/internal/store"
	"github.com/pathologix/emtrainer/internal/ui/components"
	"github.com/pathologix/emtrainer/internal/ui/layout"
)

// phase is the screen-level phase, distinct from the engine's phases.
type phase int

const (
	phaseSetup phase = iota
	phaseLoading
	phaseQuestion
	phaseFeedback
	phaseQuitConfirm
	phaseDone
)

// ExamScreen drives one exam session.
type ExamScreen struct {
	userID   string
	tracker  *performance.Tracker
	getter   engine.ScenarioGetter
	attempts *store.AttemptRepo

	phase     phase
	prevPhase phase // phase to restore when quit confirm is dismissed
	sess      *engine.Session
	input     components.TextInput
	errMsg    string

	perTopic map[string]*summary.TopicResult
	order    []string
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.EscInterceptor = (*ExamScreen)(nil)

// New creates an ExamScreen starting at the length prompt.
func New(userID string, tracker *performance.Tracker, getter engine.ScenarioGetter, attempts *store.AttemptRepo) *ExamScreen {
	return &ExamScreen{
		userID:   userID,
		tracker:  tracker,
		getter:   getter,
		attempts: attempts,
		phase:    phaseSetup,
		input:    components.NewTextInput("40", true, 3),
		perTopic: make(map[string]*summary.TopicResult),
	}
}

func (e *ExamScreen) Init() tea.Cmd {
	return e.input.Init()
}

func (e *ExamScreen) Title() string {
	return "Exam"
}

// WantsEsc keeps Esc inside the screen while an exam is in flight so it
// can confirm before counting an early exit.
func (e *ExamScreen) WantsEsc() bool {
	return e.phase != phaseSetup && e.phase != phaseDone && e.errMsg == ""
}

func (e *ExamScreen) KeyHints() []layout.KeyHint {
	switch e.phase {
	case phaseSetup:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "1-4/↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Lock in"},
			{Key: "Esc", Description: "Exit exam"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next question"},
			{Key: "Esc", Description: "Exit exam"},
		}
	case phaseQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Exit and score"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return nil
}

func (e *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case examReadyMsg:
		if msg.Err != nil {
			e.errMsg = msg.Err.Error()
			return e, nil
		}
		e.sess = msg.Session
		e.phase = phaseQuestion
		return e, tickCmd()

	case advancedMsg:
		// Attempt reporting errors are tolerated; the session has
		// already moved on either way.
		if e.sess.Phase == engine.SessionCompleted {
			return e, e.finish()
		}
		e.phase = phaseQuestion
		return e, nil

	case examSavedMsg:
		return e, e.pushSummary()

	case timerTickMsg:
		return e.handleTick()

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	if e.phase == phaseSetup {
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return e, cmd
	}
	return e, nil
}

func (e *ExamScreen) handleTick() (screen.Screen, tea.Cmd) {
	if e.sess == nil || e.phase == phaseDone {
		return e, nil
	}
	// Only touch the session from the update loop while no advance
	// command is in flight. The countdown keeps running behind the
	// quit confirm dialog.
	ticking := e.phase == phaseQuestion ||
		(e.phase == phaseQuitConfirm && e.prevPhase == phaseQuestion)
	if !ticking {
		return e, tickCmd()
	}
	if q := e.sess.Current; q != nil && q.Phase == engine.PhaseUnanswered {
		if attempt := engine.Tick(q); attempt != nil {
			e.recordTopic(attempt)
			if e.phase == phaseQuestion {
				e.phase = phaseFeedback
			}
		}
	}
	return e, tickCmd()
}

func (e *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if e.errMsg != "" {
		return e, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch e.phase {
	case phaseSetup:
		if key == "enter" {
			return e.startExam()
		}
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return e, cmd

	case phaseQuestion:
		return e.handleQuestionKey(key)

	case phaseFeedback:
		switch key {
		case "enter", "n":
			return e.advance()
		case "esc":
			e.prevPhase = e.phase
			e.phase = phaseQuitConfirm
		}

	case phaseQuitConfirm:
		switch key {
		case "y", "Y":
			return e.exitEarly()
		case "n", "N", "esc":
			e.phase = e.prevPhase
		}
	}
	return e, nil
}

func (e *ExamScreen) handleQuestionKey(key string) (screen.Screen, tea.Cmd) {
	q := e.sess.Current
	if q == nil {
		return e, nil
	}

	switch key {
	case "esc":
		e.prevPhase = e.phase
		e.phase = phaseQuitConfirm
	case "up", "k":
		idx := selectedIndex(q)
		if idx > 0 {
			engine.Select(q, q.Item.Choices[idx-1].ID)
		}
	case "down", "j":
		idx := selectedIndex(q)
		if idx < len(q.Item.Choices)-1 {
			engine.Select(q, q.Item.Choices[idx+1].ID)
		}
	case "1", "2", "3", "4":
		idx := int(key[0] - '1')
		if idx < len(q.Item.Choices) {
			engine.Select(q, q.Item.Choices[idx].ID)
		}
	case "enter":
		if attempt := engine.LockIn(q); attempt != nil {
			e.recordTopic(attempt)
			e.phase = phaseFeedback
		}
	}
	return e, nil
}

func (e *ExamScreen) startExam() (screen.Screen, tea.Cmd) {
	count, err := e.input.NumericValue()
	if err != nil {
		count = 0 // empty input means the default length
	}

	e.phase = phaseLoading
	userID, tracker, getter, attempts := e.userID, e.tracker, e.getter, e.attempts
	return e, func() tea.Msg {
		ctx := context.Background()
		topics, err := tracker.TopWeakTopics(ctx, userID, 4)
		if err != nil {
			return examReadyMsg{Err: err}
		}
		src := engine.NewTopicCycleSource(userID, topics, getter)
		sess := engine.NewSession(userID, src, count,
			engine.NewTrackerReporter(tracker), attempts)
		if err := sess.Start(ctx); err != nil {
			return examReadyMsg{Err: err}
		}
		return examReadyMsg{Session: sess}
	}
}

func (e *ExamScreen) advance() (screen.Screen, tea.Cmd) {
	e.phase = phaseLoading
	sess := e.sess
	return e, func() tea.Msg {
		return advancedMsg{Err: sess.Advance(context.Background())}
	}
}

func (e *ExamScreen) exitEarly() (screen.Screen, tea.Cmd) {
	e.phase = phaseLoading
	sess := e.sess
	return e, func() tea.Msg {
		if err := sess.Exit(context.Background()); err != nil {
			return advancedMsg{Err: err}
		}
		return advancedMsg{}
	}
}

func (e *ExamScreen) finish() tea.Cmd {
	e.phase = phaseDone
	sess, attempts := e.sess, e.attempts
	return func() tea.Msg {
		return examSavedMsg{Err: attempts.SaveSession(context.Background(), sess)}
	}
}

func (e *ExamScreen) pushSummary() tea.Cmd {
	res := e.sess.Score()
	topics := make([]summary.TopicResult, 0, len(e.order))
	for _, t := range e.order {
		topics = append(topics, *e.perTopic[t])
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(res, topics)}
	}
}

// recordTopic folds an attempt into the per-topic tally for the summary.
func (e *ExamScreen) recordTopic(a *engine.Attempt) {
	tr := e.perTopic[a.Topic]
	if tr == nil {
		tr = &summary.TopicResult{Topic: a.Topic}
		e.perTopic[a.Topic] = tr
		e.order = append(e.order, a.Topic)
	}
	tr.Attempted++
	if a.Correct {
		tr.Correct++
	}
	if a.Expired {
		tr.Expired++
	}
}

// selectedIndex maps the engine's selected choice ID back to a slice
// index, -1 when nothing is selected.
func selectedIndex(q *engine.Question) int {
	for i, c := range q.Item.Choices {
		if c.ID == q.Selected {
			return i
		}
	}
	return -1
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
