package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryLifecycle Category = "lifecycle"
	CategoryProtocol  Category = "protocol"
	CategoryCLI       Category = "cli"
)

// BuoyError is a structured error with a stable code, a category, and an
// optional fix suggestion. Construction-time misconfiguration surfaces as a
// BuoyError so callers can match on the code rather than on message text.
type BuoyError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (config, lifecycle, protocol, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BuoyError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BuoyError) Unwrap() error {
	return e.Wrapped
}

// WithDetail replaces the detailed explanation.
func (e *BuoyError) WithDetail(format string, args ...any) *BuoyError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BuoyError) WithSuggestion(s string) *BuoyError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *BuoyError) Wrap(err error) *BuoyError {
	e.Wrapped = err
	return e
}

// New creates a BuoyError from a registered error code.
func New(code string) *BuoyError {
	template, ok := registry[code]
	if !ok {
		return &BuoyError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BuoyError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new BuoyError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BuoyError {
	return &BuoyError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BuoyError.
func FromError(err error, code string) *BuoyError {
	if err == nil {
		return nil
	}
	if be, ok := err.(*BuoyError); ok {
		return be
	}
	return New(code).Wrap(err)
}
