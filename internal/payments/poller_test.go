package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForTerminalPaid(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, id string) (string, error) {
		calls++
		if calls < 3 {
			return StatusPending, nil
		}
		return StatusPaid, nil
	}

	status, err := WaitForTerminal(context.Background(), "p1", fetch, 5*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, status)
	assert.Equal(t, 3, calls)
}

func TestWaitForTerminalFailedStopsPolling(t *testing.T) {
	fetch := func(ctx context.Context, id string) (string, error) {
		return StatusFailed, nil
	}
	status, err := WaitForTerminal(context.Background(), "p1", fetch, 5*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, status)
}

func TestWaitForTerminalDeadline(t *testing.T) {
	fetch := func(ctx context.Context, id string) (string, error) {
		return StatusPending, nil
	}
	status, err := WaitForTerminal(context.Background(), "p1", fetch, 5*time.Millisecond, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrDeadline)
	assert.Equal(t, StatusPending, status)
}

func TestWaitForTerminalCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context, id string) (string, error) {
		cancel()
		return StatusPending, nil
	}
	_, err := WaitForTerminal(ctx, "p1", fetch, 5*time.Millisecond, time.Second)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWaitForTerminalToleratesFetchErrors(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, id string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("réseau indisponible")
		}
		return StatusCompleted, nil
	}
	status, err := WaitForTerminal(context.Background(), "p1", fetch, 5*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []string{StatusPaid, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded} {
		assert.True(t, IsTerminal(s), s)
	}
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(""))
}
