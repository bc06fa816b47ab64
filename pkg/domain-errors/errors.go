// Package domainerrors carries coded errors across layers. Services return
// these so transports can map them to responses without string matching.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeValidation             Code = "validation_error"
	CodeBadRequest             Code = "bad_request"
	CodeInvalidInput           Code = "invalid_input"
	CodeNotFound               Code = "not_found"
	CodeInvalidStateTransition Code = "invalid_state_transition"
	CodeConcurrencyConflict    Code = "concurrency_conflict"
	CodeConflict               Code = "conflict"
	CodeInvariantViolation     Code = "invariant_violation"
	CodeTimeout                Code = "timeout"
	CodeInternal               Code = "internal_error"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
// A nil err yields a plain coded error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// chain carries no domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost domain error in the chain has code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ToHTTPStatus maps a code to the HTTP status a transport should use.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidStateTransition, CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeConcurrencyConflict:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
