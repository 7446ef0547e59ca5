package httpclient

import (
	"errors"
	"fmt"
	"time"
)

// ErrClientClosed is returned by requests issued after Close.
var ErrClientClosed = errors.New("httpclient: client is closed")

// ClientError represents a classified transport failure. The Retryable flag
// drives the backoff loop: only retryable errors are attempted again.
type ClientError interface {
	error
	Type() ErrorType
	Retryable() bool
}

// ErrorType defines the category of transport error
type ErrorType string

const (
	TimeoutError    ErrorType = "timeout"
	ConnectionError ErrorType = "connection"
	ProtocolError   ErrorType = "protocol"
	UnexpectedError ErrorType = "unexpected"
	ValidationError ErrorType = "validation"
)

// timeoutError represents a server-side or connection timeout
type timeoutError struct {
	message string
	timeout time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType { return TimeoutError }

func (e *timeoutError) Retryable() bool { return true }

// connectionError represents a connection-level failure
type connectionError struct {
	message string
	wrapped error
}

func (e *connectionError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("connection error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("connection error: %s", e.message)
}

func (e *connectionError) Type() ErrorType { return ConnectionError }

func (e *connectionError) Retryable() bool { return true }

func (e *connectionError) Unwrap() error { return e.wrapped }

// protocolError represents a malformed or otherwise unprocessable response
type protocolError struct {
	message string
	wrapped error
}

func (e *protocolError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("protocol error: %s", e.message)
}

func (e *protocolError) Type() ErrorType { return ProtocolError }

func (e *protocolError) Retryable() bool { return false }

func (e *protocolError) Unwrap() error { return e.wrapped }

// unexpectedError represents any other failure during the exchange
type unexpectedError struct {
	message string
	wrapped error
}

func (e *unexpectedError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("unexpected error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("unexpected error: %s", e.message)
}

func (e *unexpectedError) Type() ErrorType { return UnexpectedError }

func (e *unexpectedError) Retryable() bool { return false }

func (e *unexpectedError) Unwrap() error { return e.wrapped }

// validationError represents a caller programming error, raised locally
// before any network activity
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }

func (e *validationError) Retryable() bool { return false }

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{
		message: message,
		timeout: timeout,
	}
}

// NewConnectionError creates a new connection error
func NewConnectionError(message string, wrapped error) ClientError {
	return &connectionError{
		message: message,
		wrapped: wrapped,
	}
}

// NewProtocolError creates a new protocol error
func NewProtocolError(message string, wrapped error) ClientError {
	return &protocolError{
		message: message,
		wrapped: wrapped,
	}
}

// NewUnexpectedError creates a new unexpected error
func NewUnexpectedError(message string, wrapped error) ClientError {
	return &unexpectedError{
		message: message,
		wrapped: wrapped,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{
		message: message,
		field:   field,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsRetryable reports whether the error is a classified transport error
// marked as retryable. Any other error is never retried.
func IsRetryable(err error) bool {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Retryable()
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
