package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

// Default retry settings for external generation calls.
const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 30 * time.Second
)

// RetryPolicy centralizes retry behavior for external calls: how many
// attempts, how to back off between them, how long a single attempt may
// run, and which errors are worth retrying at all.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts (first call included).
	MaxAttempts uint64

	// InitialInterval and MaxInterval bound the exponential backoff.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// AttemptTimeout bounds a single attempt; exceeding it counts as a
	// transient failure. Zero disables the per-attempt deadline.
	AttemptTimeout time.Duration

	// Retryable decides whether a failure is transient. Defaults to
	// ports.IsTransient.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns the policy used for generation calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     DefaultMaxAttempts,
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		AttemptTimeout:  DefaultAttemptTimeout,
		Retryable:       ports.IsTransient,
	}
}

// Do runs op under the policy, returning the last error once attempts are
// exhausted or a permanent failure is seen.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = ports.IsTransient
	}

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	attempt := func() error {
		attemptCtx := ctx
		cancel := func() {}
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		defer cancel()

		err := op(attemptCtx)
		if err == nil {
			return nil
		}

		// An attempt that hit its own deadline is transient as long as
		// the caller's context is still live.
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return err
		}

		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}

	return backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
}
