package errors

import (
	"sync"
	"time"
)

// State represents the circuit breaker state (spec §4.5).
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker implements the per-dependency circuit breaker: it fails
// fast once a dependency has shown failureThreshold consecutive failures,
// and probes for recovery after resetTimeout.
type CircuitBreaker struct {
	name         string
	maxFailures  int
	resetTimeout time.Duration

	mu          sync.RWMutex
	state       State
	failures    int
	lastFailure time.Time
	halfOpenBusy bool
}

// CircuitBreakerOption configures a CircuitBreaker.
type CircuitBreakerOption func(*CircuitBreaker)

// WithMaxFailures sets the number of consecutive failures before opening.
func WithMaxFailures(n int) CircuitBreakerOption {
	return func(cb *CircuitBreaker) { cb.maxFailures = n }
}

// WithResetTimeout sets the time to wait before probing recovery.
func WithResetTimeout(d time.Duration) CircuitBreakerOption {
	return func(cb *CircuitBreaker) { cb.resetTimeout = d }
}

// NewCircuitBreaker creates a breaker for the named dependency.
// Defaults: 5 consecutive failures, 30s reset timeout (spec §4.5).
func NewCircuitBreaker(name string, opts ...CircuitBreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:         name,
		maxFailures:  5,
		resetTimeout: 30 * time.Second,
		state:        StateClosed,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

// Name returns the dependency name this breaker guards.
func (cb *CircuitBreaker) Name() string { return cb.name }

// State returns the current state, resolving a timed-out Open to HalfOpen.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.currentState()
}

// currentState must be called with at least a read lock held.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) > cb.resetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// Failures returns the current consecutive-failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// Allow reports whether a call should be admitted right now.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.currentState() != StateOpen
}

// RecordSuccess resets the breaker to Closed with a zeroed failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.state = StateClosed
	cb.halfOpenBusy = false
}

// RecordFailure records a failed terminal outcome and opens the circuit once
// the failure threshold is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	cb.lastFailure = time.Now()
	cb.halfOpenBusy = false
	if cb.failures >= cb.maxFailures {
		cb.state = StateOpen
	}
}

// Execute runs fn through the breaker, counting only the terminal outcome
// (spec §4.5: "the breaker counts terminal outcomes after retries complete").
// Returns CircuitOpenErr without calling fn if the breaker is Open, or if a
// HalfOpen probe is already in flight.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	switch cb.currentState() {
	case StateOpen:
		cb.mu.Unlock()
		return CircuitOpenErr(cb.name)
	case StateHalfOpen:
		if cb.halfOpenBusy {
			cb.mu.Unlock()
			return CircuitOpenErr(cb.name)
		}
		cb.halfOpenBusy = true
		cb.mu.Unlock()
	default:
		cb.mu.Unlock()
	}

	err := fn()
	if err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

// ExecuteWithResult runs a value-returning function through the breaker. If
// the breaker is Open, fallback is called instead of fn.
func ExecuteWithResult[T any](cb *CircuitBreaker, fn func() (T, error), fallback func() (T, error)) (T, error) {
	cb.mu.Lock()
	switch cb.currentState() {
	case StateOpen:
		cb.mu.Unlock()
		return fallback()
	case StateHalfOpen:
		if cb.halfOpenBusy {
			cb.mu.Unlock()
			return fallback()
		}
		cb.halfOpenBusy = true
		cb.mu.Unlock()
	default:
		cb.mu.Unlock()
	}

	result, err := fn()
	if err != nil {
		cb.RecordFailure()
		return result, err
	}
	cb.RecordSuccess()
	return result, nil
}
