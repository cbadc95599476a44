// Package errors provides the error taxonomy shared by the session core,
// the storage layer and the terminal host.
//
// Every failure after startup is converted into an AppError and shown to
// the user as a transient banner; only StartupError aborts the program.
//
// USAGE PATTERNS:
// - Create errors: use constructors like ValidationError(), NotFoundError()
// - Wrap errors: use Wrap() to add a code and message to an existing error
// - Handle errors: TUIErrorHandler turns any error into banner text and logs it
// - Check types: use GetAppError() and HasCode() for type-safe inspection
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrCodeNoSelection ErrorCode = "NO_SELECTION"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Collaborator errors (clipboard, editor, processes)
	ErrCodeExternalFailure ErrorCode = "EXTERNAL_FAILURE"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	// Fatal errors
	ErrCodeStartupFailure ErrorCode = "STARTUP_FAILURE"
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryResource   ErrorCategory = "resource"
	CategoryExternal   ErrorCategory = "external"
	CategoryStorage    ErrorCategory = "storage"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode
	Message   string
	Details   string
	Severity  ErrorSeverity
	Category  ErrorCategory
	Cause     error
	Context   map[string]interface{}
	Timestamp time.Time
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Fatal reports whether the error must abort the program
func (e *AppError) Fatal() bool {
	return e.Code == ErrCodeStartupFailure
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeNoSelection:
		return CategoryValidation, SeverityWarning
	case ErrCodeNotFound:
		return CategoryResource, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryResource, SeverityWarning
	case ErrCodeExternalFailure:
		return CategoryExternal, SeverityError
	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeStartupFailure, ErrCodeInternalError:
		return CategorySystem, SeverityCritical
	default:
		return CategorySystem, SeverityError
	}
}

// GetAppError extracts an AppError from an error chain, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, err.Error())
}

// HasCode reports whether err carries an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func ExternalError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeExternalFailure, fmt.Sprintf("%s failed: %v", operation, err))
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func StartupError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStartupFailure, fmt.Sprintf("Cannot start: %s", operation))
}
