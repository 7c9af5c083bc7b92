package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pathologix/emtrainer/internal/performance"
)

// PerformanceRepo implements performance.Repo on SQLite. The online
// mean is folded inside a single upsert so concurrent attempts for the
// same (user, topic) serialize at the database and never lose updates.
type PerformanceRepo struct {
	db *sql.DB
}

func (r *PerformanceRepo) RecordAttempt(ctx context.Context, userID, topic string, correct bool) (*performance.Record, error) {
	x := 0.0
	if correct {
		x = 1.0
	}

	rec := &performance.Record{UserID: userID, Topic: topic}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO topic_performance (user_id, topic, accuracy, attempts, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (user_id, topic) DO UPDATE SET
			accuracy   = (topic_performance.accuracy * topic_performance.attempts + excluded.accuracy)
			             / (topic_performance.attempts + 1),
			attempts   = topic_performance.attempts + 1,
			updated_at = excluded.updated_at
		RETURNING accuracy, attempts, updated_at`,
		userID, topic, x, time.Now().UTC(),
	).Scan(&rec.Accuracy, &rec.Attempts, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert topic performance: %w", err)
	}
	return rec, nil
}

func (r *PerformanceRepo) ListByAccuracy(ctx context.Context, userID string) ([]*performance.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, topic, accuracy, attempts, updated_at
		FROM topic_performance
		WHERE user_id = ?
		ORDER BY accuracy ASC, topic ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list topic performance: %w", err)
	}
	defer rows.Close()

	var recs []*performance.Record
	for rows.Next() {
		rec := &performance.Record{}
		if err := rows.Scan(&rec.UserID, &rec.Topic, &rec.Accuracy, &rec.Attempts, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic performance: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *PerformanceRepo) Reset(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM topic_performance WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("reset topic performance: %w", err)
	}
	return nil
}
