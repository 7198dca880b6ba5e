// Package apperrors defines the error taxonomy shared by the service and API
// layers. Errors carry a machine-readable code and the HTTP status the API
// layer should answer with.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is a structured application error.
type AppError struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// HTTPStatus is the corresponding HTTP status code.
	HTTPStatus int `json:"-"`

	// Err is the wrapped underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap supports errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on the error code so sentinel-style comparisons work.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// InvalidInput reports malformed or out-of-range request data.
func InvalidInput(msg string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: msg, HTTPStatus: http.StatusBadRequest}
}

// Unauthenticated reports a request with no valid session.
func Unauthenticated() *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: "authentication required", HTTPStatus: http.StatusUnauthorized}
}

// Forbidden reports an authenticated request lacking privilege.
func Forbidden() *AppError {
	return &AppError{Code: CodeForbidden, Message: "insufficient privileges", HTTPStatus: http.StatusForbidden}
}

// NotFound reports a resource that is absent or not owned by the requester.
// The two cases are deliberately indistinguishable.
func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found", HTTPStatus: http.StatusNotFound}
}

// DuplicateUsername reports a registration with a taken username.
func DuplicateUsername() *AppError {
	return &AppError{Code: CodeDuplicateUsername, Message: "username already exists", HTTPStatus: http.StatusBadRequest}
}

// DuplicateEmail reports a uniqueness violation on email.
func DuplicateEmail() *AppError {
	return &AppError{Code: CodeDuplicateEmail, Message: "email already in use", HTTPStatus: http.StatusBadRequest}
}

// InvalidCredentials reports a login failure. The same error is returned for
// an unknown username and a wrong password.
func InvalidCredentials() *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: "invalid credentials", HTTPStatus: http.StatusUnauthorized}
}

// Internal wraps an unexpected error. The cause is logged server-side; the
// message never carries internal detail.
func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "an internal error occurred", HTTPStatus: http.StatusInternalServerError, Err: err}
}
