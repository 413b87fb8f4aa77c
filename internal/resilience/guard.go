// Package resilience composes the circuit breaker and retry primitives from
// internal/errors into a single per-dependency Guard, matching spec §4.5:
// the breaker observes only the terminal outcome of a call, after its
// retries (if any) have been exhausted.
package resilience

import (
	"context"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

// Guard wraps an external collaborator call with retry-then-breaker
// semantics: Allow() is checked once up front, then fn is retried per
// cfg, and only the final outcome is reported to the breaker.
type Guard struct {
	breaker *domainerrors.CircuitBreaker
	retry   domainerrors.RetryConfig
}

// New creates a Guard for the named dependency.
func New(name string, breakerOpts []domainerrors.CircuitBreakerOption, retry domainerrors.RetryConfig) *Guard {
	return &Guard{
		breaker: domainerrors.NewCircuitBreaker(name, breakerOpts...),
		retry:   retry,
	}
}

// Name returns the guarded dependency's name.
func (g *Guard) Name() string { return g.breaker.Name() }

// Breaker exposes the underlying breaker, mainly for health reporting.
func (g *Guard) Breaker() *domainerrors.CircuitBreaker { return g.breaker }

// Run executes fn under the breaker and retry policy. If the breaker is
// open, fn is never called. Otherwise fn is retried per the retry policy,
// and the breaker only observes the final, post-retry outcome.
func (g *Guard) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if !g.breaker.Allow() {
		return domainerrors.CircuitOpenErr(g.breaker.Name())
	}

	err := domainerrors.Retry(ctx, g.retry, func() error {
		return fn(ctx)
	})

	if err != nil {
		g.breaker.RecordFailure()
		return err
	}
	g.breaker.RecordSuccess()
	return nil
}

// RunWithResult is the value-returning variant of Run.
func RunWithResult[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !g.breaker.Allow() {
		return zero, domainerrors.CircuitOpenErr(g.breaker.Name())
	}

	result, err := domainerrors.RetryWithResult(ctx, g.retry, func() (T, error) {
		return fn(ctx)
	})

	if err != nil {
		g.breaker.RecordFailure()
		return zero, err
	}
	g.breaker.RecordSuccess()
	return result, nil
}
