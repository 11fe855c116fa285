// Package errors provides custom error types for the fleetmap system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the fleetmap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates that the key-value store could not be reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrCorruptValue indicates that a stored value could not be decoded
	ErrCorruptValue = errors.New("corrupt stored value")
)

// ValidationError represents a malformed node record. It carries the
// hostname when one could be determined and the field that failed.
type ValidationError struct {
	Hostname string
	Field    string
	Value    interface{}
	Message  string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch {
	case e.Hostname != "" && e.Field != "":
		return fmt.Sprintf("invalid record %s: field %s: %s", e.Hostname, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("invalid record: field %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("invalid record: %s", e.Message)
	}
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(hostname, field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Hostname: hostname, Field: field, Value: value, Message: message}
}

// ManifestError represents a file-level failure while loading a manifest.
// Entry is the zero-based position of the offending node entry, or -1 when
// the failure is not attributable to a single entry.
type ManifestError struct {
	Path     string
	Entry    int
	Hostname string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *ManifestError) Error() string {
	if e.Entry >= 0 {
		if e.Hostname != "" {
			return fmt.Sprintf("manifest %s: entry %d (%s): %s", e.Path, e.Entry, e.Hostname, e.Message)
		}
		return fmt.Sprintf("manifest %s: entry %d: %s", e.Path, e.Entry, e.Message)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ManifestError) Unwrap() error {
	return e.Err
}

// NewManifestError creates a ManifestError not tied to a specific entry
func NewManifestError(path, message string, err error) *ManifestError {
	return &ManifestError{Path: path, Entry: -1, Message: message, Err: err}
}

// StoreWriteError represents a failed write to the key-value store.
type StoreWriteError struct {
	Hostname   string
	Key        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *StoreWriteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("store write for %s (status %d): %s", e.Hostname, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store write for %s: %s", e.Hostname, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreWriteError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrStoreUnavailable
	}
	return false
}

// StoreReadError represents a failed read from the key-value store.
// A missing key is not a StoreReadError; reads report absence explicitly.
type StoreReadError struct {
	Hostname   string
	Key        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *StoreReadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("store read for %s (status %d): %s", e.Hostname, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store read for %s: %s", e.Hostname, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreReadError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrStoreUnavailable
	}
	return false
}

// DecodeError represents a stored value that failed transport decoding or
// did not parse as the expected serialized form. It is distinct from both
// "not found" and transport failure: a corrupt record must never be
// silently treated as absent or as valid.
type DecodeError struct {
	Key     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("decode %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("decode: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DecodeError) Is(target error) bool {
	return target == ErrCorruptValue
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(key, message string, err error) *DecodeError {
	return &DecodeError{Key: key, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStoreUnavailable checks if an error indicates the store cannot be reached
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsCorruptValue checks if an error indicates an undecodable stored value
func IsCorruptValue(err error) bool {
	return errors.Is(err, ErrCorruptValue)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
