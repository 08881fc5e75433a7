// Package eventstore records build history in SQLite.
package eventstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Build is one recorded build.
type Build struct {
	ID         string
	Trigger    string
	Status     string
	StartedAt  time.Time
	DurationMS int64
	Error      string
}

// Build status values.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Store is a SQLite-backed build-history store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the build-history database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		trigger TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordStart inserts a new running build.
func (s *Store) RecordStart(ctx context.Context, buildID, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, trigger, status, started_at) VALUES (?, ?, ?, ?)",
		buildID, trigger, StatusRunning, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// RecordOutcome finalizes a build's status, duration, and error message.
func (s *Store) RecordOutcome(ctx context.Context, buildID string, duration time.Duration, buildErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := StatusSucceeded
	message := ""
	if buildErr != nil {
		status = StatusFailed
		message = buildErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE builds SET status = ?, duration_ms = ?, error = ? WHERE id = ?",
		status, duration.Milliseconds(), message, buildID,
	)
	if err != nil {
		return fmt.Errorf("update build: %w", err)
	}
	return nil
}

// Recent returns the most recent builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trigger, status, started_at, duration_ms, error FROM builds ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var started int64
		if err := rows.Scan(&b.ID, &b.Trigger, &b.Status, &started, &b.DurationMS, &b.Error); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.StartedAt = time.Unix(started, 0)
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
