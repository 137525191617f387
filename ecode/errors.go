package ecode

import (
	"errors"
	"fmt"
)

const (
	emptyMsg    = "empty"
	requiredMsg = "required"
	invalidMsg  = "invalid"
	existMsg    = "already exists"
	notExistMsg = "does not exist"
	tooLongMsg  = "too long"
)

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], requiredMsg)
	}
	return emptyMsg
}

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], emptyMsg)
	}
	return emptyMsg
}

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], invalidMsg)
	}
	return invalidMsg
}

// FieldIsTooLong returns field too long message
func FieldIsTooLong(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], tooLongMsg)
	}
	return tooLongMsg
}

// AlreadyExist returns already exist message
func AlreadyExist(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], existMsg)
	}
	return existMsg
}

// NotExist returns not exist message
func NotExist(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], notExistMsg)
	}
	return notExistMsg
}

// Kind classifies a domain error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindValidation
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation_failed"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage_error"
	default:
		return "internal_error"
	}
}

// Error is a classified domain error. Message is safe to show to callers;
// Err carries the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinel
// errors can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, message string, err ...error) *Error {
	e := &Error{Kind: kind, Message: message}
	if len(err) > 0 {
		e.Err = err[0]
	}
	return e
}

// NotFound reports a missing entity.
func NotFound(message string, err ...error) *Error { return newError(KindNotFound, message, err...) }

// Forbidden reports an ownership or permission failure.
func Forbidden(message string, err ...error) *Error { return newError(KindForbidden, message, err...) }

// Unauthenticated reports a missing or invalid credential.
func Unauthenticated(message string, err ...error) *Error {
	return newError(KindUnauthorized, message, err...)
}

// Validation reports malformed, missing or oversized input.
func Validation(message string, err ...error) *Error {
	return newError(KindValidation, message, err...)
}

// Duplicate reports a unique field collision.
func Duplicate(message string, err ...error) *Error { return newError(KindConflict, message, err...) }

// Storage reports an object storage failure.
func Storage(message string, err ...error) *Error { return newError(KindStorage, message, err...) }

// Internal reports an unexpected failure.
func Internal(message string, err ...error) *Error { return newError(KindInternal, message, err...) }

// KindOf returns the kind of err, KindInternal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is classified as not found.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsForbidden reports whether err is classified as forbidden.
func IsForbidden(err error) bool { return err != nil && KindOf(err) == KindForbidden }
