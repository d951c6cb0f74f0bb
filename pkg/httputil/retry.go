package httputil

import (
	"context"
	"errors"
	"time"
)

// Dump endpoints are typically CI artifact servers or debug handlers;
// they flap, rate-limit, and restart. These are the fetch defaults.
const (
	fetchAttempts     = 3
	fetchInitialDelay = time.Second
)

// RetryableError marks a failure as transient. [Fetch] wraps network
// errors, 5xx responses and 429 rate limiting in it; anything else (a
// 404, an oversized dump) fails the whole fetch immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling delay after each
// failed attempt. Only errors wrapped in [RetryableError] trigger a
// retry; other errors return immediately. Returns the last error when
// every attempt fails, or ctx.Err() if the context is cancelled while
// backing off.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
		if attempt == attempts {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff runs fn with the dump-fetch defaults: 3 attempts
// starting at a 1 second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, fetchAttempts, fetchInitialDelay, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
