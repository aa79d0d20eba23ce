package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient so [RetryWithBackoff]
// attempts the operation again. Backend IO failures qualify; anything
// structural (bad key, bad payload) does not.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff parameters for cache writes. Flushes run on background
// timers, so the total worst-case wait stays under a second.
const (
	retryAttempts     = 3
	retryInitialDelay = 250 * time.Millisecond
)

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable
// error, or exhausts the attempt budget. The delay doubles between
// attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryInitialDelay
	var lastErr error

	for attempt := 0; attempt < retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == retryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
