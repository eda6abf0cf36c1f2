package common

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType classifies a connector error
type ErrorType string

const (
	// ErrorTypeConfiguration for a missing base URL or credential, raised
	// before any network call
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeValidation for invalid request payloads
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuth for rejected logins and authentication-failure responses
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeRemote for non-2xx tracker responses
	ErrorTypeRemote ErrorType = "remote"
	// ErrorTypeStorage for local persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeInternal for internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// ConnectorError represents a structured error with context
type ConnectorError struct {
	Type      ErrorType `json:"type"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Cause     error     `json:"-"`
}

// Error implements the error interface
func (e *ConnectorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConnectorError) Unwrap() error {
	return e.Cause
}

// WithCause sets the underlying cause
func (e *ConnectorError) WithCause(cause error) *ConnectorError {
	e.Cause = cause
	return e
}

// NewError creates a new ConnectorError
func NewError(errorType ErrorType, code, message string) *ConnectorError {
	return &ConnectorError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *ConnectorError {
	return NewError(ErrorTypeConfiguration, code, message)
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *ConnectorError {
	return NewError(ErrorTypeValidation, code, message)
}

// NewAuthError creates an authentication error
func NewAuthError(code, message string) *ConnectorError {
	return NewError(ErrorTypeAuth, code, message)
}

// NewRemoteError creates a remote tracker error
func NewRemoteError(code, message string) *ConnectorError {
	return NewError(ErrorTypeRemote, code, message)
}

// NewStorageError creates a storage error
func NewStorageError(code, message string) *ConnectorError {
	return NewError(ErrorTypeStorage, code, message)
}

// NewInternalError creates an internal system error
func NewInternalError(code, message string) *ConnectorError {
	return NewError(ErrorTypeInternal, code, message)
}

// IsErrorType reports whether err is a ConnectorError of the given type
func IsErrorType(err error, errorType ErrorType) bool {
	var ce *ConnectorError
	if errors.As(err, &ce) {
		return ce.Type == errorType
	}
	return false
}
