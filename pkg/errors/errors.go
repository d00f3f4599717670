package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind represents the category of a failure
type Kind string

const (
	// KindNotFound is returned when a referenced id is absent
	KindNotFound Kind = "not_found"
	// KindSelfReferenceRejected is returned when a user tries to follow itself
	KindSelfReferenceRejected Kind = "self_reference_rejected"
	// KindValidationFailed is returned for malformed input
	KindValidationFailed Kind = "validation_failed"
	// KindStorageUnavailable is returned for transient store failures
	KindStorageUnavailable Kind = "storage_unavailable"
	// KindUpstreamCollaboratorFailed is returned when the media or identity service fails
	KindUpstreamCollaboratorFailed Kind = "upstream_collaborator_failed"
	// KindUnauthenticated is returned when an operation needs an actor and none was supplied
	KindUnauthenticated Kind = "unauthenticated"
)

// AppError is the error type shared by repositories and services
type AppError struct {
	Kind      Kind
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

func NewNotFound(entity, id string) *AppError {
	return New(KindNotFound, fmt.Sprintf("%s not found: %s", entity, id), nil)
}

func NewSelfReferenceRejected(id string) *AppError {
	return New(KindSelfReferenceRejected, fmt.Sprintf("user %s cannot follow itself", id), nil)
}

func NewValidationFailed(reason string, err error) *AppError {
	return New(KindValidationFailed, reason, err)
}

func NewStorageUnavailable(operation string, err error) *AppError {
	return New(KindStorageUnavailable, fmt.Sprintf("storage unavailable: %s", operation), err)
}

func NewUpstreamCollaboratorFailed(collaborator string, err error) *AppError {
	return New(KindUpstreamCollaboratorFailed, fmt.Sprintf("%s failed", collaborator), err)
}

// ErrUnauthenticated is returned when no session actor is present
var ErrUnauthenticated = New(KindUnauthenticated, "no authenticated actor", nil)

// KindOf returns the kind of the first AppError in the chain, or KindStorageUnavailable
// for errors that never passed through this package
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorageUnavailable
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// Message returns the client-safe message of the first AppError in the chain.
// Wrapped causes are left out.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

// IsRetryable checks if the caller may retry the failed operation
func IsRetryable(err error) bool {
	return IsKind(err, KindStorageUnavailable)
}
