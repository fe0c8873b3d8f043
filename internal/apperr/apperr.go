package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindStorage
	KindInternal
)

// Error is the application-wide error carrier. All validation happens before
// any write, so a client-kind error always means nothing was persisted.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kindString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.kindString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) kindString() string {
	switch e.Kind {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindStorage:
		return "StorageError"
	default:
		return "InternalError"
	}
}

// Validation creates a 400-class input error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a 404-class missing-resource error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a 409-class state-conflict error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an upstream storage failure.
func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind, defaulting to internal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for an error.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "unexpected server error"
}

// IsNotFound reports whether the error is a missing-resource error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether the error is a client input error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsConflict reports whether the error is a state-conflict error.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
