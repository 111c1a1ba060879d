// Package errors defines the structured error used at the I/O edges of the
// formula engine (catalog loading, AST decoding, saving).
//
// The engine itself never returns errors for malformed formulas; those are
// reported as validator messages or error nodes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for different categories of failures
const (
	// Catalog errors
	ErrCatalogRead    = "CATALOG_READ_ERROR"
	ErrCatalogSchema  = "CATALOG_SCHEMA_ERROR"
	ErrCatalogVersion = "CATALOG_VERSION_ERROR"

	// Formula errors
	ErrNotSavable     = "FORMULA_NOT_SAVABLE"
	ErrRecursive      = "RECURSIVE_FORMULA"
	ErrASTDecode      = "AST_DECODE_ERROR"
	ErrFormulaRead    = "FORMULA_READ_ERROR"
	ErrUnknownFormat  = "UNKNOWN_FORMAT"
	ErrWatcherFailure = "WATCHER_ERROR"
)

// FormulaError represents a structured error with type and context
type FormulaError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *FormulaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *FormulaError) Unwrap() error {
	return e.Cause
}

// New creates a new FormulaError
func New(errorType, message string) *FormulaError {
	return &FormulaError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Newf creates a new FormulaError with a formatted message
func Newf(errorType, format string, args ...interface{}) *FormulaError {
	return New(errorType, fmt.Sprintf(format, args...))
}

// Wrap creates a new FormulaError wrapping an existing error
func Wrap(errorType, message string, cause error) *FormulaError {
	return &FormulaError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *FormulaError) WithContext(key string, value interface{}) *FormulaError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *FormulaError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// NewCatalogReadError creates a catalog input error
func NewCatalogReadError(path string, cause error) *FormulaError {
	return Wrap(ErrCatalogRead, fmt.Sprintf("failed to read catalog '%s'", path), cause).
		WithContext("path", path)
}

// NewNotSavableError creates the error returned when saving a formula the
// validator rejected. reason is the first validator message.
func NewNotSavableError(reason string) *FormulaError {
	return New(ErrNotSavable, "la fórmula no se puede guardar: "+reason).
		WithContext("reason", reason)
}

// IsErrorType checks if err, or any error it wraps, is a FormulaError of the given type
func IsErrorType(err error, errorType string) bool {
	var fe *FormulaError
	if stderrors.As(err, &fe) {
		return fe.Type == errorType
	}
	return false
}
