package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/handlescout/handlescout/internal/core"
)

// SaveRun upserts one run-history row.
func (s *StateDB) SaveRun(ctx context.Context, rec core.RunRecord) error {
	if s == nil || s.DB == nil {
		return errors.New("state db is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if rec.ID == "" {
		return errors.New("run id is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, state, requested, checked, available, taken, rate_limited, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			state = excluded.state,
			checked = excluded.checked,
			available = excluded.available,
			taken = excluded.taken,
			rate_limited = excluded.rate_limited,
			errors = excluded.errors
	`, rec.ID, rec.StartedAt.UTC().Unix(), rec.FinishedAt.UTC().Unix(), rec.State,
		rec.Requested, rec.Tally.Checked, rec.Tally.Available, rec.Tally.Taken,
		rec.Tally.RateLimited, rec.Tally.Errors)
	if err != nil {
		return fmt.Errorf("store run record: %w", err)
	}

	return nil
}

// ListRuns returns run-history rows, most recent first.
func (s *StateDB) ListRuns(ctx context.Context, limit int) ([]core.RunRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("state db is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, started_at, finished_at, state, requested, checked, available, taken, rate_limited, errors
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var records []core.RunRecord
	for rows.Next() {
		var (
			rec                 core.RunRecord
			startedAt, finished int64
		)
		if err := rows.Scan(&rec.ID, &startedAt, &finished, &rec.State, &rec.Requested,
			&rec.Tally.Checked, &rec.Tally.Available, &rec.Tally.Taken,
			&rec.Tally.RateLimited, &rec.Tally.Errors); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		rec.StartedAt = time.Unix(startedAt, 0).UTC()
		rec.FinishedAt = time.Unix(finished, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return records, nil
}
