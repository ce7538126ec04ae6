package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"

	// Practice flow errors
	ErrSelection    ErrorCode = "SELECTION_ERROR"
	ErrEmptyScript  ErrorCode = "EMPTY_SCRIPT"
	ErrEmptyCapture ErrorCode = "EMPTY_CAPTURE"

	// Transport and capability errors
	ErrNetwork     ErrorCode = "NETWORK_ERROR"
	ErrBackend     ErrorCode = "BACKEND_ERROR"
	ErrUnsupported ErrorCode = "UNSUPPORTED_CAPABILITY"

	// Service-specific errors
	ErrAIService ErrorCode = "AI_SERVICE_ERROR"
	ErrDatabase  ErrorCode = "DATABASE_ERROR"
)

// AppError represents an application error with code and metadata.
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// Code extracts the error code from an error, or ErrInternal when the error
// is not an AppError.
func Code(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternal
}

// Is reports whether the error carries the given code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// HTTPStatus returns the HTTP status code for the error.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrValidation, ErrSelection, ErrEmptyCapture:
		return http.StatusBadRequest
	case ErrNotFound, ErrEmptyScript:
		return http.StatusNotFound
	case ErrNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func Internal(message string) *AppError {
	return New(ErrInternal, message)
}

func InternalWrap(message string, err error) *AppError {
	return Wrap(ErrInternal, message, err)
}

func Validation(message string) *AppError {
	return New(ErrValidation, message)
}

func NotFound(resource string) *AppError {
	return New(ErrNotFound, fmt.Sprintf("%s not found", resource))
}

func Selection(message string) *AppError {
	return New(ErrSelection, message)
}

func EmptyScript(message string) *AppError {
	return New(ErrEmptyScript, message)
}

func EmptyCapture(message string) *AppError {
	return New(ErrEmptyCapture, message)
}

func Network(message string, err error) *AppError {
	return Wrap(ErrNetwork, message, err)
}

func Backend(message string) *AppError {
	return New(ErrBackend, message)
}

func Unsupported(message string) *AppError {
	return New(ErrUnsupported, message)
}
