// Package apperrors defines the error taxonomy shared by the repository
// and API layers. Every error carries a stable code and the HTTP status
// it maps to at the facade.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class on the wire.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeInvalidUUID  Code = "INVALID_UUID"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodePersistence  Code = "PERSISTENCE_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is the unified API error. Extensions surface structured detail
// alongside the message, mirroring the wire error shape.
type Error struct {
	Code       Code
	Message    string
	Extensions map[string]interface{}
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error class to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeInvalidUUID:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports a missing entity.
func NotFound(entityType, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Entity not found: %s with id '%s'", entityType, id),
		Extensions: map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   id,
		},
	}
}

// InvalidInput reports a semantically invalid request.
func InvalidInput(reason string) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("Invalid input: %s", reason),
	}
}

// InvalidID reports a malformed UUID.
func InvalidID(value string, cause error) *Error {
	return &Error{
		Code:    CodeInvalidUUID,
		Message: fmt.Sprintf("Invalid UUID format: %s", value),
		Err:     cause,
	}
}

// Unauthorized reports a failed authorization check.
func Unauthorized(reason string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Message: fmt.Sprintf("Unauthorized: %s", reason),
	}
}

// RateLimited reports throttling, carrying the retry hint in the
// extensions.
func RateLimited(retryAfterSecs int) *Error {
	return &Error{
		Code:    CodeRateLimited,
		Message: fmt.Sprintf("Rate limited: retry after %d seconds", retryAfterSecs),
		Extensions: map[string]interface{}{
			"retry_after_secs": retryAfterSecs,
		},
	}
}

// Persistence wraps a storage tier failure.
func Persistence(err error) *Error {
	return &Error{
		Code:    CodePersistence,
		Message: fmt.Sprintf("Persistence error: %v", err),
		Err:     err,
	}
}

// Internal reports an unclassified server fault.
func Internal(reason string) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: fmt.Sprintf("Internal server error: %s", reason),
	}
}

// From normalizes an arbitrary error into the taxonomy. Errors already
// in the taxonomy pass through unchanged.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Persistence(err)
}
