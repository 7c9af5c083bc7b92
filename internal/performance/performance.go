// Package performance tracks per-topic answer accuracy and surfaces
// the topics a user most needs to practice.
package performance

import (
	"context"
	"fmt"
	"time"
)

// FallbackTopics is the seed ordering used before any attempts are
// recorded. The first entry doubles as the default when a user has no
// history at all.
var FallbackTopics = []string{"Airway", "Trauma", "Cardiology", "Respiratory"}

// Record is one user's running accuracy for a single topic.
type Record struct {
	UserID    string
	Topic     string
	Accuracy  float64 // running mean of correctness in [0,1]
	Attempts  int
	UpdatedAt time.Time
}

// Repo persists per-(user, topic) accuracy records.
type Repo interface {
	// RecordAttempt folds one attempt outcome into the running mean
	// for (user, topic), creating the record on first attempt. The
	// fold must be atomic with respect to concurrent callers.
	RecordAttempt(ctx context.Context, userID, topic string, correct bool) (*Record, error)

	// ListByAccuracy returns all records for the user ordered by
	// accuracy ascending, then topic ascending.
	ListByAccuracy(ctx context.Context, userID string) ([]*Record, error)

	// Reset deletes all records for the user.
	Reset(ctx context.Context, userID string) error
}

// OnlineMean folds one observation into a running mean without
// storing the history: (prev*n + x) / (n+1).
func OnlineMean(prev float64, n int, x float64) float64 {
	return (prev*float64(n) + x) / float64(n+1)
}

// Tracker answers "where is this user weakest" on top of a Repo.
type Tracker struct {
	repo Repo
}

// NewTracker creates a Tracker over the given repo.
func NewTracker(repo Repo) *Tracker {
	return &Tracker{repo: repo}
}

// RecordAttempt records one answered question for the user.
func (t *Tracker) RecordAttempt(ctx context.Context, userID, topic string, correct bool) (*Record, error) {
	rec, err := t.repo.RecordAttempt(ctx, userID, topic, correct)
	if err != nil {
		return nil, fmt.Errorf("record attempt for topic %q: %w", topic, err)
	}
	return rec, nil
}

// WeakestTopic returns the topic with the lowest running accuracy,
// breaking ties alphabetically. A user with no history gets the first
// fallback topic.
func (t *Tracker) WeakestTopic(ctx context.Context, userID string) (string, error) {
	recs, err := t.repo.ListByAccuracy(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list accuracy for user %q: %w", userID, err)
	}
	if len(recs) == 0 {
		return FallbackTopics[0], nil
	}
	return recs[0].Topic, nil
}

// TopWeakTopics returns up to k topics ordered weakest first. When the
// user has fewer than k topics on record, fallback topics not already
// present pad the tail in their seed order.
func (t *Tracker) TopWeakTopics(ctx context.Context, userID string, k int) ([]string, error) {
	recs, err := t.repo.ListByAccuracy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accuracy for user %q: %w", userID, err)
	}

	seen := make(map[string]bool, len(recs))
	topics := make([]string, 0, k)
	for _, r := range recs {
		if len(topics) == k {
			return topics, nil
		}
		topics = append(topics, r.Topic)
		seen[r.Topic] = true
	}
	for _, f := range FallbackTopics {
		if len(topics) == k {
			break
		}
		if !seen[f] {
			topics = append(topics, f)
		}
	}
	return topics, nil
}

// Summary returns the user's full accuracy table, weakest first.
func (t *Tracker) Summary(ctx context.Context, userID string) ([]*Record, error) {
	return t.repo.ListByAccuracy(ctx, userID)
}

// Reset wipes the user's history.
func (t *Tracker) Reset(ctx context.Context, userID string) error {
	return t.repo.Reset(ctx, userID)
}
