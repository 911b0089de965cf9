package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can map it to a status code
// without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindAccountDisabled
	KindForbidden
	KindNotFound
	KindValidationFailed
	KindConflict
	KindUnverifiedIdentity
)

// Error is the typed failure returned by services and middleware.
// Forbidden errors produced by the authorization gate additionally carry the
// permissions the principal was missing.
type Error struct {
	Kind    Kind
	Message string
	Missing []string // populated only for permission denials
	Err     error    // wrapped cause, if any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Unauthenticated builds the standard credential-failure error.
func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

// AccountDisabled builds the deactivated-account error. It is a distinct kind
// from Unauthenticated even though both map to 401.
func AccountDisabled() *Error {
	return New(KindAccountDisabled, "your account has been deactivated")
}

// Forbidden builds a permission/ownership denial.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// MissingPermissions builds a denial listing exactly the permissions the
// principal's role lacks. The list is diagnostic only.
func MissingPermissions(missing []string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Message: fmt.Sprintf("insufficient permissions, missing: %v", missing),
		Missing: missing,
	}
}

// NotFound builds a missing-resource error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Conflict builds a duplicate-key error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// KindOf extracts the kind from an error chain. Unclassified errors are
// Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MissingOf returns the missing-permission list from a denial, or nil.
func MissingOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Missing
	}
	return nil
}
