package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeInvalidArgument      ErrorType = "INVALID_ARGUMENT"
	ErrorTypeInvalidState         ErrorType = "INVALID_STATE"
	ErrorTypeDuplicateID          ErrorType = "DUPLICATE_ID"
	ErrorTypeReferentialIntegrity ErrorType = "REFERENTIAL_INTEGRITY"
	ErrorTypeNotFound             ErrorType = "NOT_FOUND"

	// Application errors
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT"
	ErrorTypeInternal     ErrorType = "INTERNAL"

	// Infrastructure errors
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a single detail entry
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(errType ErrorType, status int, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for common error types

// NewInvalidArgumentError reports malformed or missing input
func NewInvalidArgumentError(message string) *AppError {
	return newError(ErrorTypeInvalidArgument, http.StatusBadRequest, message)
}

// NewInvalidStateError reports an operation that is not legal in the current aggregate state
func NewInvalidStateError(message string) *AppError {
	return newError(ErrorTypeInvalidState, http.StatusConflict, message)
}

// NewDuplicateIDError reports an insertion colliding with an existing identity
func NewDuplicateIDError(resource, id string) *AppError {
	return newError(ErrorTypeDuplicateID, http.StatusConflict,
		fmt.Sprintf("%s with id %s already exists", resource, id)).
		WithDetail("id", id)
}

// NewReferentialIntegrityError reports a reference to an entity missing from the aggregate
func NewReferentialIntegrityError(message string) *AppError {
	return newError(ErrorTypeReferentialIntegrity, http.StatusUnprocessableEntity, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, message)
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return newError(ErrorTypeRateLimit, http.StatusTooManyRequests,
		fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window))
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return newError(ErrorTypeDatabase, http.StatusInternalServerError,
		fmt.Sprintf("database operation '%s' failed", operation)).WithCause(err)
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return newError(ErrorTypeExternal, http.StatusBadGateway,
		fmt.Sprintf("external service '%s' error", service)).WithCause(err)
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return IsType(err, ErrorTypeInvalidArgument)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return IsType(err, ErrorTypeInvalidState)
}

// IsDuplicateID checks if an error is a duplicate identity error
func IsDuplicateID(err error) bool {
	return IsType(err, ErrorTypeDuplicateID)
}

// IsReferentialIntegrity checks if an error is a referential integrity violation
func IsReferentialIntegrity(err error) bool {
	return IsType(err, ErrorTypeReferentialIntegrity)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	return IsType(err, ErrorTypeUnauthorized)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
