package exam

import (
	"context"
	"errors"

	"github.com/pathologix/emtrainer/internal/performance"
	"github.com/pathologix/emtrainer/internal/scenario"
)

// ScenarioGetter fetches or generates scenarios for a (user, topic)
// pair. *scenario.Cache satisfies it.
type ScenarioGetter interface {
	GetOrGenerate(ctx context.Context, userID, topic string) (*scenario.Scenario, error)
	GenerateFresh(ctx context.Context, userID, topic string) (*scenario.Scenario, error)
}

// TopicCycleSource serves exam items by cycling through a fixed topic
// rotation. Items within a session are sampled without replacement: the
// cached scenario for a topic is served at most once, and repeat visits
// to the topic get a freshly generated item.
type TopicCycleSource struct {
	userID string
	topics []string
	getter ScenarioGetter
	served map[string]bool
}

// NewTopicCycleSource builds a source over the given topic rotation.
// An empty rotation falls back to the seed topics.
func NewTopicCycleSource(userID string, topics []string, getter ScenarioGetter) *TopicCycleSource {
	if len(topics) == 0 {
		topics = performance.FallbackTopics
	}
	return &TopicCycleSource{
		userID: userID,
		topics: topics,
		getter: getter,
		served: make(map[string]bool),
	}
}

func (s *TopicCycleSource) Next(ctx context.Context, orderIndex int) (*scenario.Scenario, error) {
	topic := s.topics[orderIndex%len(s.topics)]
	item, err := s.getter.GetOrGenerate(ctx, s.userID, topic)
	if err != nil {
		return nil, err
	}
	if s.served[item.ID] {
		// The cache hands back its latest item for the topic; a repeat
		// within this session must be replaced with a fresh one.
		item, err = s.getter.GenerateFresh(ctx, s.userID, topic)
		if err != nil {
			return nil, err
		}
	}
	s.served[item.ID] = true
	return item, nil
}

// AttemptTracker is the slice of the performance tracker the exam
// reporter needs.
type AttemptTracker interface {
	RecordAttempt(ctx context.Context, userID, topic string, correct bool) (*performance.Record, error)
}

// TrackerReporter feeds graded attempts into the performance tracker so
// exam results shift future topic selection.
type TrackerReporter struct {
	tracker AttemptTracker
}

// NewTrackerReporter wraps a performance tracker as a Reporter.
func NewTrackerReporter(tracker AttemptTracker) *TrackerReporter {
	return &TrackerReporter{tracker: tracker}
}

func (r *TrackerReporter) Report(ctx context.Context, _ string, userID string, a *Attempt) error {
	if a == nil {
		return errors.New("nil attempt")
	}
	_, err := r.tracker.RecordAttempt(ctx, userID, a.Topic, a.Correct)
	return err
}
