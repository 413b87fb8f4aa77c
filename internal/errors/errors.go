package errors

import "fmt"

// MatchError is the structured error type for creatormatch. It carries the
// context the orchestrator and the HTTP layer need to decide how to respond:
// whether to retry, degrade, or surface a 4xx/5xx to the caller.
type MatchError struct {
	// Code is the stable error code (e.g. "ERR_202_THROTTLED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category classifies the error for logging/metrics.
	Category Category

	// Severity indicates how serious the error is.
	Severity Severity

	// Dependency names which external collaborator raised this error, if any
	// ("embedding", "vectorIndex", "completion", "persistence", "catalog").
	Dependency string

	// Fields lists the offending assignment fields for ValidationError.
	Fields []string

	// RetryAfter is a provider-supplied retry-after hint, honored by the
	// retrier per spec §4.5 ("use max of hint and computed delay").
	RetryAfter int64 // milliseconds; 0 means no hint

	// Cause is the underlying error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

func (e *MatchError) Error() string {
	if e.Dependency != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Dependency, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is/As against the underlying cause.
func (e *MatchError) Unwrap() error {
	return e.Cause
}

// Is matches MatchError values by code, so errors.Is(err, ErrCircuitOpen-like
// sentinels) works without comparing messages.
func (e *MatchError) Is(target error) bool {
	t, ok := target.(*MatchError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a MatchError with category/severity/retryability derived from
// the code.
func New(code, message string, cause error) *MatchError {
	return &MatchError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// WithDependency tags the error with the collaborator name that raised it.
func (e *MatchError) WithDependency(name string) *MatchError {
	e.Dependency = name
	return e
}

// WithFields attaches the offending field names (ValidationError).
func (e *MatchError) WithFields(fields ...string) *MatchError {
	e.Fields = fields
	return e
}

// WithRetryAfter attaches a provider retry-after hint in milliseconds.
func (e *MatchError) WithRetryAfter(ms int64) *MatchError {
	e.RetryAfter = ms
	return e
}

// Validation creates a ValidationError for the named offending fields.
func Validation(message string, fields ...string) *MatchError {
	return New(ErrCodeValidation, message, nil).WithFields(fields...)
}

// DependencyUnavailable creates a retryable transport/5xx error.
func DependencyUnavailable(dependency, message string, cause error) *MatchError {
	return New(ErrCodeDependencyUnavailable, message, cause).WithDependency(dependency)
}

// Throttled creates a retryable rate-limit error, optionally carrying a
// provider retry-after hint in milliseconds.
func Throttled(dependency, message string, retryAfterMS int64) *MatchError {
	return New(ErrCodeThrottled, message, nil).WithDependency(dependency).WithRetryAfter(retryAfterMS)
}

// CircuitOpenErr creates the error a breaker returns while open.
func CircuitOpenErr(dependency string) *MatchError {
	return New(ErrCodeCircuitOpen, "circuit breaker is open", nil).WithDependency(dependency)
}

// DeadlineExceededErr creates a deadline error for a call or the whole request.
func DeadlineExceededErr(dependency string) *MatchError {
	return New(ErrCodeDeadlineExceeded, "deadline exceeded", nil).WithDependency(dependency)
}

// ConfigInvalid creates a fatal configuration error (e.g. dimension mismatch).
func ConfigInvalid(message string, cause error) *MatchError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// NotFoundErr creates a data error (e.g. candidate id missing from catalog).
func NotFoundErr(message string) *MatchError {
	return New(ErrCodeNotFound, message, nil)
}

// Internal creates an internal error.
func Internal(message string, cause error) *MatchError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable reports whether err is a MatchError flagged as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if me, ok := err.(*MatchError); ok {
		return me.Retryable
	}
	return false
}

// RetryAfterOf extracts a provider retry-after hint in milliseconds, or 0.
func RetryAfterOf(err error) int64 {
	if me, ok := err.(*MatchError); ok {
		return me.RetryAfter
	}
	return 0
}

// CodeOf extracts the error code, or "" if err is not a MatchError.
func CodeOf(err error) string {
	if me, ok := err.(*MatchError); ok {
		return me.Code
	}
	return ""
}
