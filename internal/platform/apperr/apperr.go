// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by every Inkwell layer.

Repositories translate storage failures into an [AppError], services add their
own business errors, and the respond package serializes whatever reaches the
handler into the JSON envelope:

	{"error": "Post not found", "code": "NOT_FOUND", "details": [...]}

Anything that is not an [AppError] by the time it reaches a handler is treated
as an internal failure and its text is never shown to the client.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes carried in the "code" field of the envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered over HTTP.
//
// # Security
//
// Cause is kept for server-side logs only. It is excluded from JSON so SQL
// fragments and driver messages never reach a response body.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that records cause for logging.
//
// Sentinels such as post.ErrNotFound are shared values, so the receiver is
// never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	copied := *e
	copied.Cause = cause
	return &copied
}

// # Client Errors (4xx)

// NotFound reports a missing resource, e.g. NotFound("Post") reads "Post not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Forbidden reports an authenticated caller acting outside their role or ownership.
func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a unique-constraint clash such as a taken username.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError reports rejected input with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	e := newError(http.StatusBadRequest, CodeValidation, msg)
	e.Details = details
	return e
}

// RateLimited reports a caller that exceeded its request budget.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred").WithCause(cause)
}

// # Helpers

// IsAppError reports whether err's chain contains an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
