package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Every *Error wraps exactly one of these, so callers can
// branch with errors.Is without inspecting messages.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
)

// Error is the closed error type raised by the services. The HTTP boundary
// maps it to a status code and the uniform response envelope; it never
// contains authorization logic of its own.
type Error struct {
	kind    error
	Message string
	Details interface{}
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code for this error kind.
func (e *Error) Status() int {
	switch e.kind {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrAuthentication:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Name returns the error label used in the response envelope.
func (e *Error) Name() string {
	switch e.kind {
	case ErrValidation:
		return "Validation Error"
	case ErrAuthentication:
		return "Unauthorized"
	case ErrForbidden:
		return "Forbidden"
	case ErrNotFound:
		return "Not Found"
	case ErrConflict:
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}

func Validation(message string, details interface{}) *Error {
	return &Error{kind: ErrValidation, Message: message, Details: details}
}

func Authentication(message string) *Error {
	return &Error{kind: ErrAuthentication, Message: message}
}

func Forbidden(resource string) *Error {
	return &Error{
		kind:    ErrForbidden,
		Message: fmt.Sprintf("You do not have permission to access this %s", resource),
	}
}

func NotFound(resource string, identifier interface{}) *Error {
	message := fmt.Sprintf("%s not found", resource)
	if identifier != nil {
		message = fmt.Sprintf("%s with identifier '%v' not found", resource, identifier)
	}
	return &Error{kind: ErrNotFound, Message: message}
}

func Conflict(resource, field string) *Error {
	return &Error{
		kind:    ErrConflict,
		Message: fmt.Sprintf("%s with this %s already exists", resource, field),
	}
}

// Internal wraps an unexpected error. The cause is kept for server-side
// logging only; the client sees a generic message.
func Internal(cause error) *Error {
	return &Error{kind: ErrInternal, Message: "Internal server error", cause: cause}
}
