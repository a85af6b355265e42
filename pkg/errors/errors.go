// Package errors provides the error taxonomy for practicemap.
// Every failure that can end a run is one of these types, so callers can
// branch on them with errors.Is and errors.As and the CLI can map them to
// exit statuses.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers need a single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Sentinel errors for the practicemap system
var (
	// ErrUsage indicates the command line was missing required arguments
	ErrUsage = errors.New("usage")

	// ErrSchema indicates a row did not match the expected column layout
	ErrSchema = errors.New("schema mismatch")

	// ErrMissingField indicates a lookup for a field name the record does not carry
	ErrMissingField = errors.New("missing field")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration value could not be used
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UsageError represents a command line that lacks required arguments.
type UsageError struct {
	Usage   string
	Message string
}

// Error implements the error interface
func (e *UsageError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%s)", e.Usage, e.Message)
	}
	return e.Usage
}

// Is implements errors.Is support
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// NewUsageError creates a new UsageError
func NewUsageError(usage, message string) *UsageError {
	return &UsageError{Usage: usage, Message: message}
}

// SchemaError represents a row whose column count does not match the schema.
type SchemaError struct {
	File     string
	Line     int
	Expected int
	Actual   int
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("schema error in %s at line %d: expected %d columns, got %d", e.File, e.Line, e.Expected, e.Actual)
	}
	return fmt.Sprintf("schema error: expected %d columns, got %d", e.Expected, e.Actual)
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(file string, line, expected, actual int) *SchemaError {
	return &SchemaError{File: file, Line: line, Expected: expected, Actual: actual}
}

// MissingFieldError represents a lookup of a field name that is not part of
// the record. It signals a contract violation or upstream format drift,
// never a per-record data problem.
type MissingFieldError struct {
	Record string // "registry", "directory"
	Field  string
	File   string
}

// Error implements the error interface
func (e *MissingFieldError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s record in %s has no field %q", e.Record, e.File, e.Field)
	}
	return fmt.Sprintf("%s record has no field %q", e.Record, e.Field)
}

// Is implements errors.Is support
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// NewMissingFieldError creates a new MissingFieldError
func NewMissingFieldError(record, field string) *MissingFieldError {
	return &MissingFieldError{Record: record, Field: field}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "open", "read", "write"
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

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
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

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsUsage checks if an error is a usage error
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// IsSchema checks if an error is a schema error
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsMissingField checks if an error is a missing field error
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}

// IsIO checks if an error is, or wraps, an IOError
func IsIO(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}
