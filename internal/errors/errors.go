// Package errors provides a lightweight structured error type (SorterError)
// for category-based classification across the sorter pipeline and CLI.
package errors

import (
	"fmt"
)

// Category classifies a SorterError for reporting and handling decisions.
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"

	// Per-directory processing errors
	CategoryCabinet    Category = "cabinet"
	CategoryReadme     Category = "readme"
	CategoryFileSystem Category = "filesystem"

	// External system integration errors
	CategoryGit   Category = "git"
	CategoryCache Category = "cache"

	// Runtime and infrastructure errors
	CategoryInternal Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Aborts the whole run
	SeverityError   Severity = "error"   // Aborts the current directory only
	SeverityWarning Severity = "warning" // Recorded, processing continues
	SeverityInfo    Severity = "info"    // Informational, no impact
)

// SorterError is a structured error with category, severity, and context.
type SorterError struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SorterError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *SorterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *SorterError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *SorterError) WithContext(key string, value any) *SorterError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SorterError.
func New(category Category, severity Severity, message string) *SorterError {
	return &SorterError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SorterError that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *SorterError {
	return &SorterError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// Config creates a fatal configuration error. Configuration errors halt the
// entire run before any directory processing begins.
func Config(message string) *SorterError {
	return New(CategoryConfig, SeverityFatal, message)
}

// WrapConfig wraps an existing error as a fatal configuration error.
func WrapConfig(err error, message string) *SorterError {
	return Wrap(err, CategoryConfig, SeverityFatal, message)
}

// Directory creates an error that aborts processing of a single directory.
// The directory contributes nothing to the projection for this run and its
// cache entry is not updated, forcing a retry next run.
func Directory(dir, message string) *SorterError {
	return New(CategoryFileSystem, SeverityError, message).WithContext("directory", dir)
}

// WrapDirectory wraps an existing error as a per-directory error.
func WrapDirectory(err error, dir, message string) *SorterError {
	return Wrap(err, CategoryFileSystem, SeverityError, message).WithContext("directory", dir)
}

// Validation creates a non-fatal diagnostic-grade error.
func Validation(message string) *SorterError {
	return New(CategoryValidation, SeverityWarning, message)
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category Category) bool {
	if se, ok := err.(*SorterError); ok {
		return se.Category == category
	}
	return false
}

// IsFatal reports whether the error should halt the whole run.
func IsFatal(err error) bool {
	if se, ok := err.(*SorterError); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if
// the error is not a SorterError.
func GetCategory(err error) Category {
	if se, ok := err.(*SorterError); ok {
		return se.Category
	}
	return CategoryInternal
}

// GetSeverity extracts the severity from an error, defaulting to SeverityError.
func GetSeverity(err error) Severity {
	if se, ok := err.(*SorterError); ok {
		return se.Severity
	}
	return SeverityError
}
