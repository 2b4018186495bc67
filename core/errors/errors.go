package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

// AppError carries an error code and the HTTP status handlers should map it to.
// Validation, conflict and not-found failures reject the single operation with
// no partial state change. Data-quality conditions are NOT AppErrors; they
// travel as warning strings inside successful responses.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value detail for the client.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap records the underlying cause.
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

func newAppError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Validation rejects bad input shape or range before any mutation.
func Validation(format string, args ...interface{}) *AppError {
	return newAppError(CodeValidation, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

// Conflict rejects an operation that would violate uniqueness or an
// invariant (duplicate mapping, mapping cycle, over-receiving a PO line).
func Conflict(format string, args ...interface{}) *AppError {
	return newAppError(CodeConflict, fmt.Sprintf(format, args...), http.StatusConflict)
}

// NotFound rejects a reference to an unknown entity.
func NotFound(resource string) *AppError {
	return newAppError(CodeNotFound, resource+" not found", http.StatusNotFound)
}

// NotFoundID is NotFound with the looked-up identifier attached.
func NotFoundID(resource string, id interface{}) *AppError {
	return NotFound(resource).WithDetail("id", fmt.Sprintf("%v", id))
}

// Internal wraps an unexpected failure.
func Internal(err error) *AppError {
	return newAppError(CodeInternal, "internal error", http.StatusInternalServerError).Wrap(err)
}

// Status returns the HTTP status for err: the AppError's own status when err
// is one, 500 otherwise.
func Status(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Code returns the error code for err, CodeInternal for plain errors.
func Code(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// IsConflict reports whether err is a conflict AppError.
func IsConflict(err error) bool {
	return Code(err) == CodeConflict
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	return Code(err) == CodeNotFound
}
