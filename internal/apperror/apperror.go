package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the transport-independent categories
// used across the services. Handlers map a Kind to an HTTP status exactly once,
// at the boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindBadRequest
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from any error; plain errors count as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus returns the status code a Kind maps to at the HTTP boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Status returns the symbolic status string used in the API error envelope.
func (k Kind) Status() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Reason returns the human readable reason line for the API error envelope.
func (k Kind) Reason() string {
	switch k {
	case KindNotFound:
		return "The required object was not found."
	case KindForbidden:
		return "For the requested operation the conditions are not met."
	case KindBadRequest:
		return "Incorrectly made request."
	case KindConflict:
		return "Integrity constraint has been violated."
	default:
		return "Internal server error."
	}
}
