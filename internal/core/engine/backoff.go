package engine

import (
	"context"
	"time"

	"github.com/handlescout/handlescout/internal/core"
)

// BackoffStore persists oracle backoff state across runs.
type BackoffStore interface {
	GetBackoff(ctx context.Context, endpoint string) (*core.BackoffState, error)
	UpdateBackoff(ctx context.Context, endpoint string, state *core.BackoffState) error
}

// Backoff tracks the oracle's backoff instructions durably, so a restarted
// run sleeps out any still-active window before its first call.
type Backoff struct {
	Store BackoffStore
	Clock func() time.Time
}

// Pending returns how long an active backoff window has left, zero if none.
func (b *Backoff) Pending(ctx context.Context, endpoint string) (time.Duration, error) {
	if b == nil || b.Store == nil {
		return 0, nil
	}

	state, err := b.Store.GetBackoff(ctx, endpoint)
	if err != nil {
		return 0, err
	}
	if state == nil || state.BackoffUntil == nil {
		return 0, nil
	}

	now := b.now()
	if now.Before(*state.BackoffUntil) {
		return state.BackoffUntil.Sub(now), nil
	}
	return 0, nil
}

// RecordCall increments the request count for an endpoint.
func (b *Backoff) RecordCall(ctx context.Context, endpoint string) error {
	if b == nil || b.Store == nil {
		return nil
	}

	state, err := b.Store.GetBackoff(ctx, endpoint)
	if err != nil {
		return err
	}
	if state == nil {
		state = &core.BackoffState{WindowStart: b.now()}
	}

	state.RequestCount++
	if state.WindowStart.IsZero() {
		state.WindowStart = b.now()
	}

	return b.Store.UpdateBackoff(ctx, endpoint, state)
}

// RecordLimited persists the backoff window the oracle demanded.
func (b *Backoff) RecordLimited(ctx context.Context, endpoint string, retryAfter time.Duration) error {
	if b == nil || b.Store == nil {
		return nil
	}

	state, err := b.Store.GetBackoff(ctx, endpoint)
	if err != nil {
		return err
	}
	if state == nil {
		state = &core.BackoffState{WindowStart: b.now()}
	}

	now := b.now()
	state.LastLimitedAt = &now
	if retryAfter > 0 {
		until := now.Add(retryAfter)
		state.BackoffUntil = &until
	}

	return b.Store.UpdateBackoff(ctx, endpoint, state)
}

func (b *Backoff) now() time.Time {
	if b != nil && b.Clock != nil {
		return b.Clock()
	}
	return time.Now().UTC()
}
