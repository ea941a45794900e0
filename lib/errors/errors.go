// Package errors provides structured error types for the meshdev control plane.
//
// This package provides:
//   - Sentinel errors for the control-plane error taxonomy
//   - Error codes for categorizing failures
//   - Error wrapping with context preservation
//   - A NativeError type carrying the status code of a failed native call
package errors

import (
	"errors"
	"fmt"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Error codes for categorizing errors.
const (
	// CodeInternal indicates an unclassified internal error.
	CodeInternal = 1
	// CodeInvalidParams indicates invalid caller-supplied arguments.
	CodeInvalidParams = 2
	// CodeConfiguration indicates a required configuration field is missing.
	CodeConfiguration = 3
	// CodeNative indicates a native stack call returned a non-success status.
	CodeNative = 4
	// CodeState indicates an invalid lifecycle state.
	CodeState = 5
)

// Sentinel errors for the control-plane error taxonomy.
// Use errors.Is() to check for these conditions.
var (
	// ErrInvalidInput indicates invalid input: a config field over its length
	// bound, an unknown config key, or a non-callable event handler value.
	// Always detected before any mutation or native call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a required field (SSID, password, channel)
	// is missing at activation time. The activation attempt is aborted and
	// the device stays inactive.
	ErrConfiguration = errors.New("configuration error")

	// ErrNative indicates an underlying native stack call failed.
	ErrNative = errors.New("native operation failed")

	// ErrInvalidState indicates an invalid lifecycle state transition.
	ErrInvalidState = errors.New("invalid state")

	// ErrClosed indicates a resource is closed.
	ErrClosed = errors.New("closed")
)

// Error is a structured error with a code and message.
type Error struct {
	// Code is the error code for categorization
	Code int `json:"code"`
	// Message is a user-facing error message
	Message string `json:"message"`
	// Err is the underlying error
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new structured error with the given code and message.
func New(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, err error) *Error {
	if err != nil {
		log.WithField("code", code).WithError(err).Debug("wrapping error")
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidInput creates a caller-argument error with a stable message.
// The result matches both ErrInvalidInput and *Error.
func InvalidInput(message string) *Error {
	return &Error{
		Code:    CodeInvalidParams,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// Configuration creates an activation-precondition error naming the
// missing field, e.g. Configuration("ssid not set").
func Configuration(message string) *Error {
	return &Error{
		Code:    CodeConfiguration,
		Message: message,
		Err:     ErrConfiguration,
	}
}

// NativeError reports a native stack call that returned a non-success
// status. It preserves the operation name and the raw status code for
// diagnostics.
type NativeError struct {
	// Op is the native operation that failed, e.g. "mesh_start".
	Op string
	// Status is the native status code returned by the call.
	Status int32
}

// Error implements the error interface.
func (e *NativeError) Error() string {
	return fmt.Sprintf("native call %s failed with status %d", e.Op, e.Status)
}

// Unwrap makes the error match ErrNative via errors.Is.
func (e *NativeError) Unwrap() error {
	return ErrNative
}

// Native creates a NativeError for the given operation and status code.
func Native(op string, status int32) *NativeError {
	log.WithField("op", op).WithField("status", status).Debug("native call failed")
	return &NativeError{Op: op, Status: status}
}

// IsInvalidInput returns true if the error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfiguration returns true if the error indicates a missing
// configuration field.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsNative returns true if the error indicates a failed native call.
func IsNative(err error) bool {
	return errors.Is(err, ErrNative)
}

// IsInvalidState returns true if the error indicates an invalid state.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// Join combines multiple errors into a single error.
// Returns nil if all errors are nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target,
// and if so, sets target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}
