// Package errors provides a lightweight structured error type (BlogError)
// for category-based classification across the build pipeline and its
// HTTP/queue adapters.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a build error for classification.
type ErrorCategory string

const (
	// Document-level errors raised by the compile pipeline
	CategoryMarkup   ErrorCategory = "markup"
	CategoryConfig   ErrorCategory = "config"
	CategorySecurity ErrorCategory = "security"
	CategoryAsset    ErrorCategory = "asset"
	CategoryTemplate ErrorCategory = "template"

	// External system integration errors
	CategoryGit   ErrorCategory = "git"
	CategoryQueue ErrorCategory = "queue"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the whole build
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Logged, build continues
)

// BlogError is a structured error with category, severity, and context.
type BlogError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BlogError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *BlogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *BlogError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *BlogError) WithContext(key string, value any) *BlogError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BlogError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *BlogError {
	return &BlogError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BlogError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BlogError {
	return &BlogError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category, unwrapping
// as needed.
func IsCategory(err error, category ErrorCategory) bool {
	var be *BlogError
	if errors.As(err, &be) {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns
// CategoryInternal if it is not a BlogError.
func GetCategory(err error) ErrorCategory {
	var be *BlogError
	if errors.As(err, &be) {
		return be.Category
	}
	return CategoryInternal
}

// IsFatal reports whether an error is fatal for the current build.
// Non-BlogError values are treated as fatal: an unclassified failure must
// never be downgraded to a warning.
func IsFatal(err error) bool {
	var be *BlogError
	if errors.As(err, &be) {
		return be.Severity == SeverityFatal
	}
	return err != nil
}
