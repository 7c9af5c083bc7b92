package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pathologix/emtrainer/internal/scenario"
)

// ScenarioRepo implements scenario.Repo on SQLite. Rows are append-only;
// the cache reads back the most recent row per (user, topic).
type ScenarioRepo struct {
	db *sql.DB
}

func (r *ScenarioRepo) Insert(ctx context.Context, userID string, s *scenario.Scenario) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode scenario %q: %w", s.ID, err)
	}

	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, user_id, topic, domain, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, userID, s.Topic, s.Domain, string(payload), createdAt,
	); err != nil {
		return fmt.Errorf("insert scenario %q: %w", s.ID, err)
	}
	return nil
}

func (r *ScenarioRepo) Latest(ctx context.Context, userID, topic string) (*scenario.Scenario, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `
		SELECT payload
		FROM scenarios
		WHERE user_id = ? AND topic = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`,
		userID, topic,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest scenario: %w", err)
	}

	var s scenario.Scenario
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("decode cached scenario: %w", err)
	}
	return &s, nil
}

// CountByTopic returns the number of cached scenarios per topic for a user.
func (r *ScenarioRepo) CountByTopic(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT topic, COUNT(*)
		FROM scenarios
		WHERE user_id = ?
		GROUP BY topic`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("count scenarios: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var topic string
		var n int
		if err := rows.Scan(&topic, &n); err != nil {
			return nil, fmt.Errorf("scan scenario count: %w", err)
		}
		counts[topic] = n
	}
	return counts, rows.Err()
}

// Reset deletes all cached scenarios for the user.
func (r *ScenarioRepo) Reset(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM scenarios WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("reset scenarios: %w", err)
	}
	return nil
}
