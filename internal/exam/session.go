package exam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pathologix/emtrainer/internal/scenario"
)

// Exam length bounds. A requested count outside the bounds is clamped,
// and zero means "use the default".
const (
	MinQuestionCount     = 10
	MaxQuestionCount     = 120
	DefaultQuestionCount = 40
)

// ErrSessionCompleted is returned by operations on a finished session.
var ErrSessionCompleted = errors.New("exam session already completed")

// ErrNotSubmitted is returned by Advance when the current question has
// not been locked in or expired yet.
var ErrNotSubmitted = errors.New("current question not yet submitted")

// ItemSource supplies exam items in order. Implementations may generate
// lazily; orderIndex is zero-based.
type ItemSource interface {
	Next(ctx context.Context, orderIndex int) (*scenario.Scenario, error)
}

// Reporter consumes graded attempts. Each attempt is delivered at most
// once per reporter.
type Reporter interface {
	Report(ctx context.Context, sessionID, userID string, a *Attempt) error
}

// SessionPhase is the lifecycle phase of an exam session.
type SessionPhase int

const (
	SessionActive SessionPhase = iota
	SessionCompleted
)

// Result is the final score of a session. ItemsSeen is the denominator:
// an early exit scores only the questions actually consumed.
type Result struct {
	ItemsSeen    int
	Correct      int
	PlannedCount int
	Exited       bool // true when the session ended before PlannedCount
}

// Percent returns the score as a 0-100 percentage, 0 for an empty session.
func (r Result) Percent() float64 {
	if r.ItemsSeen == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.ItemsSeen) * 100
}

// Session drives one exam from start to completion. Movement is strictly
// forward: a consumed question can never be revisited, and each attempt
// is reported exactly once even when the session ends early.
type Session struct {
	ID           string
	UserID       string
	PlannedCount int
	StartTime    time.Time

	Phase   SessionPhase
	Current *Question

	src       ItemSource
	reporters []Reporter
	seen      int
	correct   int
	exited    bool
}

// ClampQuestionCount normalizes a requested exam length.
func ClampQuestionCount(n int) int {
	switch {
	case n == 0:
		return DefaultQuestionCount
	case n < MinQuestionCount:
		return MinQuestionCount
	case n > MaxQuestionCount:
		return MaxQuestionCount
	}
	return n
}

// NewSession creates a session for the user. The count is clamped to
// the allowed bounds. Call Start to load the first question.
func NewSession(userID string, src ItemSource, count int, reporters ...Reporter) *Session {
	return &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		PlannedCount: ClampQuestionCount(count),
		StartTime:    time.Now(),
		Phase:        SessionActive,
		src:          src,
		reporters:    reporters,
	}
}

// Start loads the first question.
func (s *Session) Start(ctx context.Context) error {
	if s.Phase != SessionActive {
		return ErrSessionCompleted
	}
	return s.load(ctx)
}

// Advance consumes the current question's attempt and moves to the next
// item. The current question must be submitted first. When the planned
// count is reached, or the source fails, the session completes.
func (s *Session) Advance(ctx context.Context) error {
	if s.Phase != SessionActive {
		return ErrSessionCompleted
	}
	if s.Current == nil || s.Current.Attempt == nil {
		return ErrNotSubmitted
	}

	reportErr := s.consume(ctx)

	if s.seen >= s.PlannedCount {
		s.complete(false)
		return reportErr
	}

	if err := s.load(ctx); err != nil {
		// A dead item source ends the exam with the items seen so far
		// rather than stranding the user mid-session.
		s.complete(true)
		if reportErr != nil {
			return errors.Join(reportErr, err)
		}
		return err
	}
	return reportErr
}

// Exit ends the session early. A submitted-but-unconsumed attempt on the
// current question still counts; an unanswered current question does not.
// The score denominator becomes the number of items seen.
func (s *Session) Exit(ctx context.Context) error {
	if s.Phase != SessionActive {
		return ErrSessionCompleted
	}

	var reportErr error
	if s.Current != nil && s.Current.Attempt != nil {
		reportErr = s.consume(ctx)
	}
	s.complete(s.seen < s.PlannedCount)
	return reportErr
}

// Score returns the session result so far. After completion it is final.
func (s *Session) Score() Result {
	return Result{
		ItemsSeen:    s.seen,
		Correct:      s.correct,
		PlannedCount: s.PlannedCount,
		Exited:       s.exited,
	}
}

// consume reports the current attempt to every reporter and folds it
// into the tally. The question is discarded afterward, so the attempt
// cannot be delivered twice.
func (s *Session) consume(ctx context.Context) error {
	a := s.Current.Attempt
	s.Current = nil
	s.seen++
	if a.Correct {
		s.correct++
	}

	var errs []error
	for _, r := range s.reporters {
		if err := r.Report(ctx, s.ID, s.UserID, a); err != nil {
			errs = append(errs, fmt.Errorf("report attempt for item %q: %w", a.ItemID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Session) load(ctx context.Context) error {
	item, err := s.src.Next(ctx, s.seen)
	if err != nil {
		return fmt.Errorf("load exam item %d: %w", s.seen, err)
	}
	s.Current = NewQuestion(item, s.seen)
	return nil
}

func (s *Session) complete(exited bool) {
	s.Phase = SessionCompleted
	s.Current = nil
	s.exited = exited
}
