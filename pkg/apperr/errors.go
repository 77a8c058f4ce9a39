package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable, client-facing error category. Handlers map kinds to HTTP
// status codes; messages are safe to return to callers.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindExhausted         Kind = "exhausted"
	KindNoBackupAvailable Kind = "no_backup_available"
	KindAlreadyActivated  Kind = "already_activated"
	KindInactiveType      Kind = "inactive_type"
	KindValidation        Kind = "validation"
	KindInvalidState      Kind = "invalid_state"
	KindForbidden         Kind = "forbidden"
	KindConflict          Kind = "conflict"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Exhausted(format string, args ...any) *Error {
	return New(KindExhausted, format, args...)
}

func NoBackupAvailable(format string, args ...any) *Error {
	return New(KindNoBackupAvailable, format, args...)
}

func AlreadyActivated(format string, args ...any) *Error {
	return New(KindAlreadyActivated, format, args...)
}

func InactiveType(format string, args ...any) *Error {
	return New(KindInactiveType, format, args...)
}

// Validation marks malformed input; InvalidState marks a well-formed request
// that the current state of the entity does not allow.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return New(KindInvalidState, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// KindOf extracts the Kind from an error chain, or "" when none is present.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// MessageOf returns the client-safe message of a business error, or a generic
// message for everything else so persistence errors never leak.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
