package retry

import (
	"context"
	"errors"
	"time"
)

// Policy is a bounded retry loop: how many attempts to make and how long to
// sleep between them. The same policy shape covers both retry layers in this
// system, transient-fault retries inside the remote client and per-document
// retries in the batch orchestrator.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration // slept after failed attempt (zero-based); nil retries immediately
	Sleep       func(time.Duration)             // defaults to time.Sleep
}

// Do runs op until it succeeds, attempts are exhausted, or ctx is done.
// Backoff(i) is slept after failed attempt i but never after the last one.
// The error from the final attempt is returned.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = op(ctx); err == nil {
			return nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			return pe.err
		}
		if attempt == attempts-1 {
			break
		}
		if p.Backoff != nil {
			sleep(p.Backoff(attempt))
		}
	}
	return err
}

// ExponentialBackoff doubles base after every failed attempt:
// base<<0, base<<1, base<<2, ...
func ExponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base << uint(attempt)
	}
}

// Permanent marks err as not worth retrying; Do returns the wrapped error
// immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }
