package errors

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig controls exponential backoff with jitter (spec §4.5).
type RetryConfig struct {
	// MaxAttempts is the total number of calls, including the first
	// (default 3).
	MaxAttempts int

	// BaseDelay is the delay before the first retry (default 200ms).
	BaseDelay time.Duration

	// MaxDelay caps the delay both before and after jitter (default 5s).
	MaxDelay time.Duration

	// Jitter is the fractional jitter applied to each delay, e.g. 0.2 means
	// the delay is scaled by a random factor in [1-0.2, 1+0.2] (default 0.2).
	Jitter float64
}

// DefaultRetryConfig returns the spec §4.5 defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Jitter:      0.2,
	}
}

// delayForAttempt computes the delay before retry n (1-indexed: n=1 is the
// delay before the second call), satisfying baseDelay*2^(n-1)*(1-jitter) <=
// delay <= baseDelay*2^(n-1)*(1+jitter), capped at maxDelay.
func delayForAttempt(cfg RetryConfig, n int) time.Duration {
	backoff := float64(cfg.BaseDelay) * pow2(n-1)
	if max := float64(cfg.MaxDelay); backoff > max {
		backoff = max
	}
	if cfg.Jitter > 0 {
		factor := 1 - cfg.Jitter + rand.Float64()*2*cfg.Jitter
		backoff *= factor
	}
	d := time.Duration(backoff)
	if d > cfg.MaxDelay {
		d = cfg.MaxDelay
	}
	return d
}

func pow2(n int) float64 {
	if n <= 0 {
		return 1
	}
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 2
	}
	return v
}

// Retry runs fn up to cfg.MaxAttempts times, retrying only when the returned
// error is retryable (spec §7: Throttled, DependencyUnavailable). A provider
// retry-after hint attached to the error (via WithRetryAfter) is honored by
// taking the max of the hint and the computed backoff delay (spec §4.5).
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || attempt == cfg.MaxAttempts {
			return lastErr
		}

		delay := delayForAttempt(cfg, attempt)
		if hint := RetryAfterOf(lastErr); hint > 0 {
			hintDelay := time.Duration(hint) * time.Millisecond
			if hintDelay > delay {
				delay = hintDelay
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// RetryWithResult is the value-returning variant of Retry.
func RetryWithResult[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}

	var lastErr error
	var lastVal T
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastVal, lastErr = fn()
		if lastErr == nil {
			return lastVal, nil
		}
		if !IsRetryable(lastErr) || attempt == cfg.MaxAttempts {
			return zero, lastErr
		}

		delay := delayForAttempt(cfg, attempt)
		if hint := RetryAfterOf(lastErr); hint > 0 {
			hintDelay := time.Duration(hint) * time.Millisecond
			if hintDelay > delay {
				delay = hintDelay
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
