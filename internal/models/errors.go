package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	// ErrNotFound is returned when an order, product or account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create would duplicate an existing record.
	ErrConflict = errors.New("already exists")

	// ErrUnauthenticated is returned when an operation needs a signed-in purchaser.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError rejects an operation before any state is changed.
type ValidationError struct {
	Reason string
	// Transition is set when the rejection came from the order lifecycle.
	Transition bool
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NewValidationError builds a ValidationError from a formatted reason.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func newTransitionError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...), Transition: true}
}

// RemoteError marks a failed call to persistence or the assistant backend.
// It is never retried by this module.
type RemoteError struct {
	Service string
	err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.err)
}

func (e *RemoteError) Unwrap() error {
	return e.err
}

// NewRemoteError wraps err as a remote failure of the named service.
func NewRemoteError(service string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Service: service, err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsInvalidTransition reports whether err rejected an order status change.
func IsInvalidTransition(err error) bool {
	var v *ValidationError
	return errors.As(err, &v) && v.Transition
}

// IsRemote reports whether err is a RemoteError.
func IsRemote(err error) bool {
	var r *RemoteError
	return errors.As(err, &r)
}

func missingFields(fields []string) error {
	return NewValidationError("missing or invalid fields: %s", strings.Join(fields, ", "))
}
