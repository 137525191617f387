package resp

import (
	"errors"
	"net/http"

	"github.com/ncobase/socialhub/ecode"
)

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newException(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newException(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newException(http.StatusUnauthorized, ecode.Unauthorized, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newException(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newException(http.StatusConflict, ecode.Conflict, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newException(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// StorageFailed indicates an object storage error.
func StorageFailed(message string, data ...any) *Exception {
	return newException(http.StatusInternalServerError, ecode.StorageErr, message, data...)
}

// ErrorOption adjusts how FromError maps a domain error.
type ErrorOption func(*errorOptions)

type errorOptions struct {
	forbiddenStatus int
}

// ForbiddenAs overrides the HTTP status used for ownership failures.
func ForbiddenAs(status int) ErrorOption {
	return func(o *errorOptions) { o.forbiddenStatus = status }
}

// FromError maps a domain error to a failure response. Unclassified and
// internal errors never expose their text.
func FromError(err error, opts ...ErrorOption) *Exception {
	o := &errorOptions{forbiddenStatus: http.StatusForbidden}
	for _, opt := range opts {
		opt(o)
	}

	var message string
	var e *ecode.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	switch ecode.KindOf(err) {
	case ecode.KindNotFound:
		return NotFound(message)
	case ecode.KindForbidden:
		if o.forbiddenStatus == http.StatusUnauthorized {
			return UnAuthorized(message)
		}
		return Forbidden(message)
	case ecode.KindUnauthorized:
		return UnAuthorized(message)
	case ecode.KindValidation:
		return BadRequest(message)
	case ecode.KindConflict:
		return Conflict(message)
	case ecode.KindStorage:
		return StorageFailed(ecode.Text(ecode.StorageErr))
	default:
		return InternalServer(ecode.Text(ecode.ServerErr))
	}
}
