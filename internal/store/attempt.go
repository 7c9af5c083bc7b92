package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pathologix/emtrainer/internal/exam"
)

// SessionSummary is one finished exam session as stored.
type SessionSummary struct {
	ID           string
	UserID       string
	PlannedCount int
	ItemsSeen    int
	Correct      int
	Exited       bool
	StartedAt    time.Time
	CompletedAt  time.Time
}

// AttemptRepo persists exam attempts and session results. It satisfies
// exam.Reporter, so the orchestrator writes attempts through it directly.
type AttemptRepo struct {
	db *sql.DB
}

// Report appends one graded attempt. Implements exam.Reporter.
func (r *AttemptRepo) Report(ctx context.Context, sessionID, userID string, a *exam.Attempt) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO exam_attempts
			(session_id, user_id, item_id, topic, selected, correct, time_spent_seconds, expired, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, userID, a.ItemID, a.Topic, string(a.Selected),
		a.Correct, a.TimeSpentSeconds, a.Expired, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert exam attempt: %w", err)
	}
	return nil
}

// SaveSession records the final result of a completed session.
func (r *AttemptRepo) SaveSession(ctx context.Context, s *exam.Session) error {
	res := s.Score()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO exam_sessions
			(id, user_id, planned_count, items_seen, correct, exited, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, res.PlannedCount, res.ItemsSeen, res.Correct,
		res.Exited, s.StartTime.UTC(), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert exam session: %w", err)
	}
	return nil
}

// RecentSessions returns the user's most recent session results,
// newest first.
func (r *AttemptRepo) RecentSessions(ctx context.Context, userID string, limit int) ([]*SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, planned_count, items_seen, correct, exited, started_at, completed_at
		FROM exam_sessions
		WHERE user_id = ?
		ORDER BY completed_at DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list exam sessions: %w", err)
	}
	defer rows.Close()

	var out []*SessionSummary
	for rows.Next() {
		s := &SessionSummary{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.PlannedCount, &s.ItemsSeen,
			&s.Correct, &s.Exited, &s.StartedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan exam session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Reset deletes all attempts and session results for the user.
func (r *AttemptRepo) Reset(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM exam_attempts WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("reset exam attempts: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM exam_sessions WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("reset exam sessions: %w", err)
	}
	return nil
}
