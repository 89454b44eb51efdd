package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/handlescout/handlescout/internal/core"
)

// GetBackoff returns stored backoff state for an oracle endpoint, or nil
// when none has been recorded.
func (s *StateDB) GetBackoff(ctx context.Context, endpoint string) (*core.BackoffState, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("state db is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}

	var (
		requestCount  int
		windowStart   int64
		backoffUntil  sql.NullInt64
		lastLimitedAt sql.NullInt64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT request_count, window_start, backoff_until, last_limited_at
		FROM backoff
		WHERE endpoint = ?
	`, endpoint)

	if err := row.Scan(&requestCount, &windowStart, &backoffUntil, &lastLimitedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch backoff state: %w", err)
	}

	state := &core.BackoffState{
		RequestCount: requestCount,
		WindowStart:  time.Unix(windowStart, 0).UTC(),
	}

	if backoffUntil.Valid {
		value := time.Unix(backoffUntil.Int64, 0).UTC()
		state.BackoffUntil = &value
	}
	if lastLimitedAt.Valid {
		value := time.Unix(lastLimitedAt.Int64, 0).UTC()
		state.LastLimitedAt = &value
	}

	return state, nil
}

// UpdateBackoff persists backoff state for an oracle endpoint.
func (s *StateDB) UpdateBackoff(ctx context.Context, endpoint string, state *core.BackoffState) error {
	if s == nil || s.DB == nil {
		return errors.New("state db is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.New("endpoint is required")
	}
	if state == nil {
		return errors.New("backoff state is required")
	}

	var backoffUntil sql.NullInt64
	if state.BackoffUntil != nil {
		backoffUntil = sql.NullInt64{Int64: state.BackoffUntil.UTC().Unix(), Valid: true}
	}

	var lastLimitedAt sql.NullInt64
	if state.LastLimitedAt != nil {
		lastLimitedAt = sql.NullInt64{Int64: state.LastLimitedAt.UTC().Unix(), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO backoff (endpoint, request_count, window_start, backoff_until, last_limited_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(endpoint) DO UPDATE SET
			request_count = excluded.request_count,
			window_start = excluded.window_start,
			backoff_until = excluded.backoff_until,
			last_limited_at = excluded.last_limited_at
	`, endpoint, state.RequestCount, state.WindowStart.UTC().Unix(), backoffUntil, lastLimitedAt)
	if err != nil {
		return fmt.Errorf("store backoff state: %w", err)
	}

	return nil
}
