package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a backend failure as transient, such as a dropped
// connection or a failover in progress.
type RetryableError struct{ Err error }

// Retryable wraps err so that [Retry] tries again. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// BaseDelay is the first wait between attempts; it doubles after each one.
var BaseDelay = time.Second

// DefaultAttempts is used by [RetryWithBackoff].
const DefaultAttempts = 3

// Retry calls fn until it succeeds, returns a non-retryable error, or has
// been called attempts times. The last error is returned.
func Retry(ctx context.Context, attempts int, fn func() error) error {
	delay := BaseDelay
	var err error
	for i := range max(attempts, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// RetryWithBackoff is Retry with [DefaultAttempts].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultAttempts, fn)
}
