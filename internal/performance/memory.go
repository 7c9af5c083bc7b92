package performance

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo. It serializes folds with a mutex so
// concurrent RecordAttempt calls never lose an update.
type MemoryRepo struct {
	mu   sync.Mutex
	recs map[string]map[string]*Record // userID -> topic -> record
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{recs: make(map[string]map[string]*Record)}
}

func (m *MemoryRepo) RecordAttempt(_ context.Context, userID, topic string, correct bool) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byTopic := m.recs[userID]
	if byTopic == nil {
		byTopic = make(map[string]*Record)
		m.recs[userID] = byTopic
	}

	x := 0.0
	if correct {
		x = 1.0
	}

	rec := byTopic[topic]
	if rec == nil {
		rec = &Record{UserID: userID, Topic: topic}
		byTopic[topic] = rec
	}
	rec.Accuracy = OnlineMean(rec.Accuracy, rec.Attempts, x)
	rec.Attempts++
	rec.UpdatedAt = time.Now()

	out := *rec
	return &out, nil
}

func (m *MemoryRepo) ListByAccuracy(_ context.Context, userID string) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byTopic := m.recs[userID]
	out := make([]*Record, 0, len(byTopic))
	for _, rec := range byTopic {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy < out[j].Accuracy
		}
		return out[i].Topic < out[j].Topic
	})
	return out, nil
}

func (m *MemoryRepo) Reset(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, userID)
	return nil
}
