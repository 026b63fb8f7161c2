package types

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind categorises failures so callers can react without string matching.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindInvalidState ErrorKind = "invalid_state"
	KindNotFound     ErrorKind = "not_found"
	KindDependency   ErrorKind = "dependency"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
)

// AppError is the error type returned by every service operation.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same kind, so sentinel values such as
// ErrDuplicateAssignment work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrDuplicateAssignment = &AppError{Kind: KindConflict, Message: "duplicate assignment"}
	ErrSubscriptionActive  = &AppError{Kind: KindInvalidState, Message: "subscription still active"}
	ErrOwedPending         = &AppError{Kind: KindInvalidState, Message: "owed deliveries pending"}
	ErrInvalidCredentials  = &AppError{Kind: KindUnauthorized, Message: "invalid credentials"}
)

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Dependency wraps a storage failure.
func Dependency(message string, err error) *AppError {
	return &AppError{Kind: KindDependency, Message: message, Err: err}
}

// FromDB classifies a gorm error. what names the entity for NotFound messages.
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &AppError{Kind: KindConflict, Message: what + " already exists", Err: err}
	default:
		return Dependency("failed to access "+what, err)
	}
}

// KindOf returns the category of err, KindDependency for unknown errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindDependency
}
