// Package errors defines the structured error types used across the gateway.
// Every failure in the request path resolves to one of these values; nothing
// in this taxonomy is fatal to the process.
package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

// AppError is a structured application error carrying a stable code, the HTTP
// status it maps to at the boundary, and an optional wrapped cause. The
// Message is safe to log; only Code and a generic description ever reach a
// client.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error-chain support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError returns a copy of the error with the given cause attached. The
// predefined error values stay immutable.
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Status:  e.Status,
		Message: e.Message,
		Err:     err,
	}
}

// Is matches errors by code so predefined values work with errors.Is even
// after WithError copies.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if goerrors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// New creates a new AppError.
func New(code string, status int, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

// ================================================================================
// Authorization Errors
//
// All of these resolve to a DENY decision inside the authorizer and are never
// distinguishable to the caller. They exist so operational logs and metrics
// can tell the cases apart.
// ================================================================================

var (
	// ErrMalformedToken marks a missing or unparseable identity-source value.
	ErrMalformedToken = New("malformed_token", http.StatusUnauthorized, "identity source value is missing or malformed")

	// ErrTokenMismatch marks a well-formed token that does not match the current secret.
	ErrTokenMismatch = New("token_mismatch", http.StatusForbidden, "presented token does not match the current secret")

	// ErrSecretUnavailable marks a secret-store failure with no usable cached copy.
	ErrSecretUnavailable = New("secret_unavailable", http.StatusServiceUnavailable, "secret store is unavailable")
)

// ================================================================================
// Router Errors
// ================================================================================

var (
	// ErrBackendUnreachable marks a connection-level failure reaching the backend.
	ErrBackendUnreachable = New("backend_unreachable", http.StatusBadGateway, "backend is unreachable")

	// ErrBackendTimeout marks a backend call aborted at the forwarding ceiling.
	ErrBackendTimeout = New("backend_timeout", http.StatusGatewayTimeout, "backend call timed out")

	// ErrBadGateway marks any other failure relaying the backend response.
	ErrBadGateway = New("bad_gateway", http.StatusBadGateway, "failed to relay backend response")
)

// ================================================================================
// Gateway Errors
// ================================================================================

var (
	// ErrInvalidRequest marks a request the gateway itself cannot parse.
	ErrInvalidRequest = New("invalid_request", http.StatusBadRequest, "the request is malformed")

	// ErrUnauthorized is the deny response when no credential was presented.
	ErrUnauthorized = New("unauthorized", http.StatusUnauthorized, "request is not authenticated")

	// ErrForbidden is the deny response when a credential was presented and rejected.
	ErrForbidden = New("forbidden", http.StatusForbidden, "request is not authorized")

	// ErrServiceNotFound marks a path prefix with no route-table entry.
	ErrServiceNotFound = New("service_not_found", http.StatusNotFound, "no route for the requested service")

	// ErrMethodNotAllowed marks a method outside a route's allow list.
	ErrMethodNotAllowed = New("method_not_allowed", http.StatusMethodNotAllowed, "method not allowed for the requested service")

	// ErrCache marks a decision-cache backend failure.
	ErrCache = New("cache_failure", http.StatusInternalServerError, "decision cache operation failed")

	// ErrInternal is the generic mapped category for unexpected failures.
	ErrInternal = New("internal_error", http.StatusInternalServerError, "internal server error")
)

// From converts any error into an AppError, falling back to the generic
// internal category so no raw error detail crosses the boundary.
func From(err error) *AppError {
	var appErr *AppError
	if goerrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithError(err)
}
