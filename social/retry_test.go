package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), DefaultRetry, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesUnavailable(t *testing.T) {
	calls := 0
	p := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	err := Retry(context.Background(), p, func() error {
		calls++
		if calls < 3 {
			return ErrUnavailable
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	p := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	err := Retry(context.Background(), p, func() error {
		calls++
		return ErrUnavailable
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, calls)
}

// Only ErrUnavailable is retried; domain errors surface immediately.
func TestRetry_DoesNotRetryDomainErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), DefaultRetry, func() error {
		calls++
		return ErrConflict
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, calls)
}

func TestRetry_HonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RetryPolicy{Attempts: 5, Backoff: 10 * time.Second}
	err := Retry(ctx, p, func() error { return ErrUnavailable })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrapStore_TransientMapsToUnavailable(t *testing.T) {
	err := wrapStore(errors.New("database is locked"))
	assert.ErrorIs(t, err, ErrUnavailable)

	err = wrapStore(errors.New("Error 1213: Deadlock found when trying to get lock"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWrapStore_PassesDomainThrough(t *testing.T) {
	assert.NoError(t, wrapStore(nil))
	assert.ErrorIs(t, wrapStore(ErrForbidden), ErrForbidden)
}
