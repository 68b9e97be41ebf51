package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so the HTTP boundary can pick a
// status code without inspecting error strings.
type ErrorKind int

const (
	// KindValidation covers client-correctable input problems.
	KindValidation ErrorKind = iota
	// KindNotFound covers ids that do not resolve to a recipe.
	KindNotFound
	// KindDependency covers unexpected repository, cache or media store failures.
	KindDependency
)

// Error is a service error tagged with a kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError returns a validation error with the given message.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError returns a not-found error with the given message.
func NewNotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewDependencyError wraps a collaborator failure.
func NewDependencyError(message string, err error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}

// KindOf returns the kind of err, defaulting to KindDependency for
// untagged errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindDependency
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
