// Package exam implements timed exam sessions: a per-question countdown
// state machine and an orchestrator that serves items in a fixed forward
// order and reports each attempt exactly once.
package exam

import (
	"time"

	"github.com/pathologix/emtrainer/internal/scenario"
)

// QuestionDuration is the per-question time limit.
const QuestionDuration = 90 * time.Second

// QuestionPhase is the lifecycle phase of a single exam question.
type QuestionPhase int

const (
	// PhaseUnanswered means the countdown is running and the choice can
	// still change.
	PhaseUnanswered QuestionPhase = iota

	// PhaseSubmitted means the answer is final. No further selection,
	// lock-in, or tick has any effect.
	PhaseSubmitted
)

// Attempt is the graded outcome of one submitted question.
type Attempt struct {
	ItemID           string
	Topic            string
	Selected         scenario.ChoiceID // empty when the timer ran out with no selection
	Correct          bool
	TimeSpentSeconds int
	Expired          bool
}

// Question tracks one exam item through its countdown. Transitions are
// one-way: once submitted, a question never leaves PhaseSubmitted and
// its Attempt is produced exactly once.
type Question struct {
	Item       *scenario.Scenario
	OrderIndex int
	Phase      QuestionPhase
	Selected   scenario.ChoiceID

	// RemainingSeconds counts down from the full duration to 0.
	RemainingSeconds int

	// Attempt is nil until the question is submitted, then immutable.
	Attempt *Attempt
}

// NewQuestion starts the countdown for an item.
func NewQuestion(item *scenario.Scenario, orderIndex int) *Question {
	return &Question{
		Item:             item,
		OrderIndex:       orderIndex,
		Phase:            PhaseUnanswered,
		RemainingSeconds: int(QuestionDuration / time.Second),
	}
}

// Select records a tentative choice. Selecting again overwrites the
// previous choice. Returns false once the question is submitted.
func Select(q *Question, id scenario.ChoiceID) bool {
	if q.Phase != PhaseUnanswered {
		return false
	}
	q.Selected = id
	return true
}

// LockIn finalizes the current selection and returns the attempt.
// It requires a selection. Calling it again, or after the timer has
// already expired, returns nil.
func LockIn(q *Question) *Attempt {
	if q.Phase != PhaseUnanswered || q.Selected == "" {
		return nil
	}
	return submit(q, false)
}

// Tick advances the countdown by one second. On expiry the question is
// auto-submitted: a pending selection is graded as-is, no selection
// counts as incorrect. The expiry attempt is returned exactly once;
// every later tick is a no-op returning nil.
func Tick(q *Question) *Attempt {
	if q.Phase != PhaseUnanswered {
		return nil
	}
	q.RemainingSeconds--
	if q.RemainingSeconds > 0 {
		return nil
	}
	q.RemainingSeconds = 0
	return submit(q, true)
}

func submit(q *Question, expired bool) *Attempt {
	q.Phase = PhaseSubmitted

	correct := false
	if q.Selected != "" {
		if c := q.Item.ChoiceByID(q.Selected); c != nil {
			correct = c.Correct
		}
	}

	q.Attempt = &Attempt{
		ItemID:           q.Item.ID,
		Topic:            q.Item.Topic,
		Selected:         q.Selected,
		Correct:          correct,
		TimeSpentSeconds: int(QuestionDuration/time.Second) - q.RemainingSeconds,
		Expired:          expired,
	}
	return q.Attempt
}
