package social

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds how often a transiently failing store call is retried.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetry is used when no policy is configured.
var DefaultRetry = RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond}

// Retry runs fn, retrying with exponential backoff while the error is
// ErrUnavailable. Any other error, or context cancellation, ends the loop.
func Retry(ctx context.Context, p RetryPolicy, fn func() error) error {
	if p.Attempts <= 0 {
		p = DefaultRetry
	}
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = DefaultRetry.Backoff
	}

	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err = fn(); !errors.Is(err, ErrUnavailable) {
			return err
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return err
}
