package errors

import (
	"fmt"
)

// ErrorType defines different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeStorage    ErrorType = "STORAGE"
)

// AppError is the custom error type for the application
type AppError struct {
	Type     ErrorType
	Resource string // the entity kind involved, when relevant (e.g. "tab", "tag")
	Message  string
	Err      error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation creates a validation error
func NewValidation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewNotFound creates a not found error for the given resource
func NewNotFound(resource, message string) error {
	return &AppError{
		Type:     ErrorTypeNotFound,
		Resource: resource,
		Message:  message,
	}
}

// NewStorage creates a storage error wrapping the backend failure
func NewStorage(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the type
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type:     appErr.Type,
			Resource: appErr.Resource,
			Message:  fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:      appErr.Err,
		}
	}

	// Otherwise, treat it as a storage failure
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeValidation
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeNotFound
}

// IsStorage checks if an error is a storage error
func IsStorage(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeStorage
}

// ResourceOf returns the resource named by a not found error, or "".
func ResourceOf(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Resource
	}
	return ""
}
