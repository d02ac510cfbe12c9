package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ValidationError reports a malformed or incomplete payload, keyed by field.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Invalid builds a single-field validation error.
func Invalid(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns nil when no field failed, so callers can `return verr.OrNil()`.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ErrValidation is the sentinel for errors.Is matching.
var ErrValidation = &ValidationError{}

// InvalidTransitionError is returned for a transition from the wrong state,
// by an actor who may not perform it, or missing a required artifact.
type InvalidTransitionError struct {
	Message string
	// Forbidden marks failures caused by the actor rather than the state.
	Forbidden bool
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

func (e *InvalidTransitionError) Is(target error) bool {
	_, ok := target.(*InvalidTransitionError)
	return ok
}

var ErrInvalidTransition = &InvalidTransitionError{}

func InvalidTransition(msg string) *InvalidTransitionError {
	return &InvalidTransitionError{Message: msg}
}

func NotAParty(msg string) *InvalidTransitionError {
	return &InvalidTransitionError{Message: msg, Forbidden: true}
}

// AuthExpiredError means the session token is missing, invalid or expired.
type AuthExpiredError struct {
	Reason string
}

func (e AuthExpiredError) Error() string {
	if e.Reason == "" {
		return "Authentication credentials were not provided."
	}
	return e.Reason
}

func (e AuthExpiredError) Is(target error) bool {
	_, ok := target.(AuthExpiredError)
	return ok
}

var ErrAuthExpired = AuthExpiredError{}

// ErrStaleState is returned by conditional updates when the stored status no longer
// matches the status the transition was computed from.
var ErrStaleState = errors.New("mandate status changed concurrently")

// ErrOpenMandateExists is returned when a property already has a pending or active mandate.
var ErrOpenMandateExists = errors.New("property already has an open mandate")
