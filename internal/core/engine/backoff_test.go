package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/handlescout/handlescout/internal/core"
)

type memoryBackoffStore struct {
	state map[string]*core.BackoffState
}

func (m *memoryBackoffStore) GetBackoff(_ context.Context, endpoint string) (*core.BackoffState, error) {
	if m.state == nil {
		return nil, nil
	}
	return m.state[endpoint], nil
}

func (m *memoryBackoffStore) UpdateBackoff(_ context.Context, endpoint string, state *core.BackoffState) error {
	if m.state == nil {
		m.state = make(map[string]*core.BackoffState)
	}
	m.state[endpoint] = state
	return nil
}

func TestBackoffPending(t *testing.T) {
	store := &memoryBackoffStore{}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	backoff := &Backoff{Store: store, Clock: func() time.Time { return now }}

	wait, err := backoff.Pending(context.Background(), "oracle.test")
	require.NoError(t, err)
	require.Zero(t, wait)

	require.NoError(t, backoff.RecordLimited(context.Background(), "oracle.test", 30*time.Second))

	wait, err = backoff.Pending(context.Background(), "oracle.test")
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, wait)

	// An expired window stops binding.
	now = now.Add(31 * time.Second)
	wait, err = backoff.Pending(context.Background(), "oracle.test")
	require.NoError(t, err)
	require.Zero(t, wait)
}

func TestBackoffRecordCall(t *testing.T) {
	store := &memoryBackoffStore{}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	backoff := &Backoff{Store: store, Clock: func() time.Time { return now }}

	require.NoError(t, backoff.RecordCall(context.Background(), "oracle.test"))
	require.NoError(t, backoff.RecordCall(context.Background(), "oracle.test"))

	state := store.state["oracle.test"]
	require.NotNil(t, state)
	require.Equal(t, 2, state.RequestCount)
	require.Equal(t, now, state.WindowStart)
}

func TestBackoffNilSafe(t *testing.T) {
	var backoff *Backoff

	wait, err := backoff.Pending(context.Background(), "oracle.test")
	require.NoError(t, err)
	require.Zero(t, wait)
	require.NoError(t, backoff.RecordCall(context.Background(), "oracle.test"))
	require.NoError(t, backoff.RecordLimited(context.Background(), "oracle.test", time.Second))
}
