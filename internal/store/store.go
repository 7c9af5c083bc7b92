// Package store persists trainer state in a single SQLite database:
// per-topic accuracy, cached scenarios, exam attempts, and LLM request
// events.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the database and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PerformanceRepo returns the per-topic accuracy repository.
func (s *Store) PerformanceRepo() *PerformanceRepo {
	return &PerformanceRepo{db: s.db}
}

// ScenarioRepo returns the cached-scenario repository.
func (s *Store) ScenarioRepo() *ScenarioRepo {
	return &ScenarioRepo{db: s.db}
}

// AttemptRepo returns the exam attempt repository.
func (s *Store) AttemptRepo() *AttemptRepo {
	return &AttemptRepo{db: s.db}
}

// EventRepo returns the LLM event repository.
func (s *Store) EventRepo() LLMEventRepo {
	return &llmEventRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS topic_performance (
			user_id    TEXT NOT NULL,
			topic      TEXT NOT NULL,
			accuracy   REAL NOT NULL,
			attempts   INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, topic)
		)`,
		`CREATE TABLE IF NOT EXISTS scenarios (
			id         TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			topic      TEXT NOT NULL,
			domain     TEXT NOT NULL,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scenarios_user_topic
			ON scenarios (user_id, topic, created_at)`,
		`CREATE TABLE IF NOT EXISTS exam_sessions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			planned_count INTEGER NOT NULL,
			items_seen    INTEGER NOT NULL,
			correct       INTEGER NOT NULL,
			exited        BOOLEAN NOT NULL,
			started_at    TIMESTAMP NOT NULL,
			completed_at  TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exam_attempts (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id         TEXT NOT NULL,
			user_id            TEXT NOT NULL,
			item_id            TEXT NOT NULL,
			topic              TEXT NOT NULL,
			selected           TEXT NOT NULL,
			correct            BOOLEAN NOT NULL,
			time_spent_seconds INTEGER NOT NULL,
			expired            BOOLEAN NOT NULL,
			created_at         TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exam_attempts_session
			ON exam_attempts (session_id)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     TIMESTAMP NOT NULL,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms    INTEGER NOT NULL,
			success       BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body  TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. EMTRAINER_DB environment variable
// 2. $XDG_DATA_HOME/emtrainer/emtrainer.db
// 3. ~/.local/share/emtrainer/emtrainer.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EMTRAINER_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "emtrainer", "emtrainer.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
