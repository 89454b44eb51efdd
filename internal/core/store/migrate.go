package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS backoff (
		endpoint TEXT PRIMARY KEY,
		request_count INTEGER NOT NULL DEFAULT 0,
		window_start INTEGER NOT NULL,
		backoff_until INTEGER,
		last_limited_at INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		state TEXT NOT NULL,
		requested INTEGER NOT NULL,
		checked INTEGER NOT NULL,
		available INTEGER NOT NULL,
		taken INTEGER NOT NULL,
		rate_limited INTEGER NOT NULL,
		errors INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
}

// Migrate ensures the required database tables exist.
func (s *StateDB) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("state db is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("state db migration failed: %w", err)
		}
	}

	return nil
}
