// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrCatalogInvalid = errors.New("invalid catalog")
	ErrExportFailed   = errors.New("export failed")
	ErrDataNotFound   = errors.New("data not found")
	ErrDatabaseError  = errors.New("database error")
	ErrUnknownDataset = errors.New("unknown dataset")
)

// ValidationError represents a configuration or input validation error.
// It always matches ErrConfigInvalid via errors.Is.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ExportError represents a failure writing a table to its destination.
type ExportError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export error [%s] %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("export error [%s] %s", e.Op, e.Path)
}

func (e *ExportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExportFailed}
	}
	return []error{ErrExportFailed, e.Err}
}

// NewExportError creates a new ExportError.
func NewExportError(path, op string, err error) *ExportError {
	return &ExportError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Key      string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Key, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, key, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Key:      key,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid) || errors.Is(err, ErrCatalogInvalid)
}

// IsExportError reports whether err is an export (I/O) error.
func IsExportError(err error) bool {
	return errors.Is(err, ErrExportFailed)
}
