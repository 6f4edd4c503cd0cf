package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	BadRequestError ErrorType = "BAD_REQUEST"
	NotFoundError   ErrorType = "NOT_FOUND"
	AuthError       ErrorType = "AUTHENTICATION_ERROR"
	ForbiddenError  ErrorType = "FORBIDDEN"
	ConflictError   ErrorType = "CONFLICT"
	RateLimitError  ErrorType = "RATE_LIMIT_EXCEEDED"
	ServerError     ErrorType = "SERVER_ERROR"
)

// AppError is the single error shape that reaches the HTTP layer.
//
// Operational errors are expected outcomes (bad input, missing records, denied access)
// whose message is safe to show to clients. Non-operational errors are bugs or
// infrastructure failures; their message is masked in production.
type AppError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Detail      string    `json:"detail,omitempty"`
	HTTPStatus  int       `json:"-"`
	Operational bool      `json:"-"`
	Stack       string    `json:"-"`
	Raw         error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// StatusCode returns the HTTP status, falling back to the status implied by the type.
func (e *AppError) StatusCode() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new operational AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:        errType,
		Message:     message,
		Detail:      detail,
		HTTPStatus:  getHTTPStatus(errType),
		Operational: true,
		Stack:       string(debug.Stack()),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	appErr := New(errType, message, err.Error())
	appErr.Raw = err
	return appErr
}

// Convert turns any error into an AppError. AppErrors anywhere in the chain pass
// through untouched; everything else becomes a non-operational 500 that keeps the
// original message for logs and development responses.
func Convert(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Type:        ServerError,
		Message:     err.Error(),
		HTTPStatus:  http.StatusInternalServerError,
		Operational: false,
		Stack:       string(debug.Stack()),
		Raw:         err,
	}
}

// FromPanic builds a non-operational error from a recovered panic value.
func FromPanic(rec any) *AppError {
	var raw error
	switch v := rec.(type) {
	case error:
		raw = v
	default:
		raw = fmt.Errorf("panic: %v", v)
	}
	return &AppError{
		Type:        ServerError,
		Message:     raw.Error(),
		HTTPStatus:  http.StatusInternalServerError,
		Operational: false,
		Stack:       string(debug.Stack()),
		Raw:         raw,
	}
}

// Helper functions for common errors
func NotFound(entity string, id interface{}) *AppError {
	err := New(NotFoundError, fmt.Sprintf("%s not found", entity), "")
	if id != nil {
		err.Detail = fmt.Sprintf("ID: %v", id)
	}
	return err
}

func BadRequest(message string) *AppError {
	return New(BadRequestError, message, "")
}

func ValidationFailed(message string, details string) *AppError {
	return New(ValidationError, message, details)
}

func AuthenticationFailed(message string) *AppError {
	return New(AuthError, message, "")
}

func Forbidden(message string, details string) *AppError {
	return New(ForbiddenError, message, details)
}

func Conflict(message string, detail string) *AppError {
	return New(ConflictError, message, detail)
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return New(RateLimitError, message, fmt.Sprintf("retry after %d seconds", retryAfterSeconds))
}

// InternalServerError marks a programming or infrastructure fault. It is never
// operational, so its message is hidden from clients in production.
func InternalServerError(message string) *AppError {
	err := New(ServerError, message, "")
	err.Operational = false
	return err
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
