package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrapped by VerifyError so callers can classify
// failures with errors.Is.
var (
	// ErrTimeout marks a bounded wait that was exceeded. The whole task is
	// eligible for an outer retry.
	ErrTimeout = errors.New("bounded wait exceeded")

	// ErrRootNotFound marks a missing root mounting element. This signals a
	// structural story-definition bug, not flakiness, and is never retried.
	ErrRootNotFound = errors.New("root element not found")

	// ErrMismatch marks a snapshot comparison over the dissimilarity
	// threshold.
	ErrMismatch = errors.New("snapshot mismatch")
)

// VerifyError is the base error type with verification context.
type VerifyError struct {
	Phase   string // "config", "catalog", "readiness", "region", "capture", "compare"
	Story   string
	Browser string
	Theme   string
	Message string
	Cause   error
}

func (e *VerifyError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.Story != "" {
		s += fmt.Sprintf(" %s", e.Story)
	}
	if e.Browser != "" {
		s += fmt.Sprintf(" (%s)", e.Browser)
	}
	if e.Theme != "" {
		s += fmt.Sprintf(" theme=%s", e.Theme)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *VerifyError) Unwrap() error {
	return e.Cause
}

// NewError creates a new VerifyError.
func NewError(phase, story, browser, theme, message string, cause error) *VerifyError {
	return &VerifyError{
		Phase:   phase,
		Story:   story,
		Browser: browser,
		Theme:   theme,
		Message: message,
		Cause:   cause,
	}
}

// Retryable reports whether a failed task may be re-run by the outer retry
// wrapper. Structural failures (missing root) are excluded.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, ErrRootNotFound)
}
