package errors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_ClosedAllowsCalls(t *testing.T) {
	// Given a fresh breaker
	cb := NewCircuitBreaker("embedding")

	// When no failures have been recorded
	// Then it stays closed and admits calls
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	// Given a breaker with a threshold of 3
	cb := NewCircuitBreaker("vectorIndex", WithMaxFailures(3))

	// When it sees 3 consecutive failures
	err := cb.Execute(func() error { return assertErr })
	require.Error(t, err)
	_ = cb.Execute(func() error { return assertErr })
	_ = cb.Execute(func() error { return assertErr })

	// Then it opens and stops admitting calls
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())

	err = cb.Execute(func() error { return nil })
	var matchErr *MatchError
	require.ErrorAs(t, err, &matchErr)
	assert.Equal(t, ErrCodeCircuitOpen, matchErr.Code)
	assert.Equal(t, "vectorIndex", matchErr.Dependency)
}

func TestCircuitBreaker_HalfOpenAfterResetTimeout(t *testing.T) {
	// Given a breaker that has tripped open with a short reset timeout
	cb := NewCircuitBreaker("completion", WithMaxFailures(1), WithResetTimeout(10*time.Millisecond))
	_ = cb.Execute(func() error { return assertErr })
	require.Equal(t, StateOpen, cb.State())

	// When the reset timeout elapses
	time.Sleep(15 * time.Millisecond)

	// Then the breaker reports half-open and admits a single probe
	assert.Equal(t, StateHalfOpen, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenSuccessCloses(t *testing.T) {
	// Given a breaker in half-open state
	cb := NewCircuitBreaker("catalog", WithMaxFailures(1), WithResetTimeout(5*time.Millisecond))
	_ = cb.Execute(func() error { return assertErr })
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	// When the probe call succeeds
	err := cb.Execute(func() error { return nil })

	// Then the breaker closes and clears its failure count
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	// Given a breaker in half-open state
	cb := NewCircuitBreaker("persistence", WithMaxFailures(1), WithResetTimeout(5*time.Millisecond))
	_ = cb.Execute(func() error { return assertErr })
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	// When the probe call fails
	err := cb.Execute(func() error { return assertErr })

	// Then the breaker reopens
	require.Error(t, err)
	assert.Equal(t, StateOpen, cb.State())
}

func TestExecuteWithResult_FallbackWhenOpen(t *testing.T) {
	// Given an open breaker
	cb := NewCircuitBreaker("embedding", WithMaxFailures(1))
	_ = cb.Execute(func() error { return assertErr })
	require.Equal(t, StateOpen, cb.State())

	// When ExecuteWithResult is called
	val, err := ExecuteWithResult(cb,
		func() (int, error) { return 1, nil },
		func() (int, error) { return -1, nil },
	)

	// Then the fallback runs instead of fn
	require.NoError(t, err)
	assert.Equal(t, -1, val)
}

var assertErr = New(ErrCodeDependencyUnavailable, "boom", nil)
