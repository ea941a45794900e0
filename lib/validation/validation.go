// Package validation provides reusable input validation for the meshdev
// control plane. All validators follow a consistent pattern: they return nil
// on success and a descriptive error on failure. Length checks operate on
// bytes, matching the fixed-size credential buffers of the native stack.
package validation

import (
	"errors"
	"fmt"
)

// Common validation errors. These are sentinel errors that can be checked with errors.Is().
var (
	// ErrRequired indicates a required field is missing or empty.
	ErrRequired = errors.New("field is required")

	// ErrTooLong indicates a value exceeds the maximum length.
	ErrTooLong = errors.New("value exceeds maximum length")

	// ErrOutOfRange indicates a numeric value is outside the allowed range.
	ErrOutOfRange = errors.New("value out of range")
)

// Constraints for mesh configuration fields. The byte lengths mirror the
// fixed-size buffers of the native mesh configuration struct.
const (
	// MaxSSIDLen is the maximum length of the router SSID in bytes.
	MaxSSIDLen = 32

	// MaxPasswordLen is the maximum length of the router password in bytes.
	MaxPasswordLen = 64

	// MaxAPPasswordLen is the maximum length of the soft-AP password in bytes.
	MaxAPPasswordLen = 64

	// MinChannel is the lowest valid Wi-Fi channel. Channel 0 means
	// "auto-discover via full scan".
	MinChannel = 0

	// MaxChannel is the highest valid Wi-Fi channel.
	MaxChannel = 14

	// MaxTreeLayer is the maximum mesh depth for a tree topology.
	MaxTreeLayer = 25

	// MaxChainLayer is the maximum mesh depth for a chain topology.
	MaxChainLayer = 100

	// MaxDutyPercent is the maximum duty-cycle percentage.
	MaxDutyPercent = 100
)

// Result represents a validation result with field context.
type Result struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (r *Result) Error() string {
	if r.Field != "" {
		return fmt.Sprintf("%s: %s", r.Field, r.Message)
	}
	return r.Message
}

// Unwrap returns the underlying error for errors.Is() support.
func (r *Result) Unwrap() error {
	return r.Err
}

// NewResult creates a validation result.
func NewResult(field, message string, err error) *Result {
	return &Result{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Required validates that a string is non-empty.
func Required(field, value string) error {
	if value == "" {
		return NewResult(field, "is required", ErrRequired)
	}
	return nil
}

// MaxBytes validates that a string doesn't exceed the maximum byte length.
func MaxBytes(field, value string, max int) error {
	if len(value) > max {
		return NewResult(field, fmt.Sprintf("exceeds maximum length of %d bytes", max), ErrTooLong)
	}
	return nil
}

// IntRange validates that an integer is within the given range (inclusive).
func IntRange(field string, value, min, max int) error {
	if value < min || value > max {
		return NewResult(field, fmt.Sprintf("must be between %d and %d", min, max), ErrOutOfRange)
	}
	return nil
}

// Channel validates a Wi-Fi channel number.
func Channel(field string, value int) error {
	return IntRange(field, value, MinChannel, MaxChannel)
}

// DutyPercent validates a power-save duty-cycle percentage.
func DutyPercent(field string, value int) error {
	return IntRange(field, value, 0, MaxDutyPercent)
}

// MaxLayer validates a mesh depth bound against the topology-dependent
// maximum. maxForTopology is MaxTreeLayer or MaxChainLayer.
func MaxLayer(field string, value, maxForTopology int) error {
	return IntRange(field, value, 1, maxForTopology)
}
