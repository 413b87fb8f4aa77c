package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

func fastRetry() domainerrors.RetryConfig {
	return domainerrors.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Jitter: 0}
}

func TestGuard_BreakerOnlySeesTerminalOutcome(t *testing.T) {
	// Given a guard whose underlying call fails once, then succeeds
	g := New("embedding", []domainerrors.CircuitBreakerOption{domainerrors.WithMaxFailures(1)}, fastRetry())
	calls := 0
	err := g.Run(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return domainerrors.DependencyUnavailable("embedding", "flaky", nil)
		}
		return nil
	})

	// Then the retry absorbs the failure and the breaker never opens
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, domainerrors.StateClosed, g.Breaker().State())
}

func TestGuard_BreakerOpensAfterRetriesExhausted(t *testing.T) {
	// Given a guard whose call always fails retryably
	g := New("vectorIndex", []domainerrors.CircuitBreakerOption{domainerrors.WithMaxFailures(1)}, fastRetry())
	err := g.Run(context.Background(), func(ctx context.Context) error {
		return domainerrors.DependencyUnavailable("vectorIndex", "down", nil)
	})

	// Then the breaker records exactly one terminal failure, not one per attempt
	require.Error(t, err)
	assert.Equal(t, domainerrors.StateOpen, g.Breaker().State())
	assert.Equal(t, 1, g.Breaker().Failures())
}

func TestGuard_SkipsCallWhenOpen(t *testing.T) {
	// Given a guard with an already-open breaker
	g := New("completion", []domainerrors.CircuitBreakerOption{domainerrors.WithMaxFailures(1)}, fastRetry())
	_ = g.Run(context.Background(), func(ctx context.Context) error {
		return domainerrors.DependencyUnavailable("completion", "down", nil)
	})
	require.Equal(t, domainerrors.StateOpen, g.Breaker().State())

	// When Run is called again
	calls := 0
	err := g.Run(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	// Then fn is never invoked
	require.Error(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, domainerrors.ErrCodeCircuitOpen, domainerrors.CodeOf(err))
}

func TestRunWithResult_ReturnsValueOnSuccess(t *testing.T) {
	// Given a guard whose call succeeds
	g := New("catalog", nil, fastRetry())

	// When RunWithResult executes it
	val, err := RunWithResult(context.Background(), g, func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	// Then the value and nil error propagate
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
}
