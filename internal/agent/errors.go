package agent

import "fmt"

// ValidationError reports rejected input: non-mathematical problems or
// malformed feedback payloads. Its reason is safe to surface to the caller
// and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InternalError wraps an unexpected failure during routing or persistence.
// Callers see a generic message; the cause is kept for logging only.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return "Failed to solve the mathematical problem. Please try again or rephrase your question."
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}
