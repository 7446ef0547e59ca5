package httpclient

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test constants to avoid string duplication
const (
	testConnectionFailed = "connection failed"
)

// TestErrorTypeFormatting tests the Error() method behavior per error type
func TestErrorTypeFormatting(t *testing.T) {
	tests := []struct {
		name     string
		error    ClientError
		contains []string // Strings that should be present in the error message
	}{
		{
			name:     "connection error without wrapped error",
			error:    NewConnectionError(testConnectionFailed, nil),
			contains: []string{"connection error", testConnectionFailed},
		},
		{
			name:     "connection error with wrapped error",
			error:    NewConnectionError(testConnectionFailed, errors.New("underlying issue")),
			contains: []string{"connection error", testConnectionFailed, "underlying issue"},
		},
		{
			name:     "timeout error",
			error:    NewTimeoutError("request timed out", 30*time.Second),
			contains: []string{"timeout error", "request timed out", "30s"},
		},
		{
			name:     "protocol error",
			error:    NewProtocolError("malformed response", errors.New("bad chunk header")),
			contains: []string{"protocol error", "malformed response", "bad chunk header"},
		},
		{
			name:     "unexpected error",
			error:    NewUnexpectedError("request failure", errors.New("boom")),
			contains: []string{"unexpected error", "request failure", "boom"},
		},
		{
			name:     "validation error with field",
			error:    NewValidationError("cannot accept both data and json", "body"),
			contains: []string{"validation error", "cannot accept both data and json", "body"},
		},
		{
			name:     "validation error without field",
			error:    NewValidationError("invalid request", ""),
			contains: []string{"validation error", "invalid request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errorMsg := tt.error.Error()
			for _, expected := range tt.contains {
				assert.Contains(t, errorMsg, expected, "Error message should contain: %s", expected)
			}
		})
	}
}

// TestErrorClassification tests Type() and Retryable() for each error type
func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		error     ClientError
		expected  ErrorType
		retryable bool
	}{
		{
			name:      "timeout errors are retryable",
			error:     NewTimeoutError("test", time.Second),
			expected:  TimeoutError,
			retryable: true,
		},
		{
			name:      "connection errors are retryable",
			error:     NewConnectionError("test", nil),
			expected:  ConnectionError,
			retryable: true,
		},
		{
			name:      "protocol errors are not retryable",
			error:     NewProtocolError("test", nil),
			expected:  ProtocolError,
			retryable: false,
		},
		{
			name:      "unexpected errors are not retryable",
			error:     NewUnexpectedError("test", nil),
			expected:  UnexpectedError,
			retryable: false,
		},
		{
			name:      "validation errors are not retryable",
			error:     NewValidationError("test", "field"),
			expected:  ValidationError,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Type())
			assert.Equal(t, tt.retryable, tt.error.Retryable())
		})
	}
}

// TestErrorUnwrapping tests Unwrap() implementations and error chaining
func TestErrorUnwrapping(t *testing.T) {
	t.Run("connection error unwrapping", func(t *testing.T) {
		underlyingErr := errors.New("connection refused")
		connErr := NewConnectionError("failed to connect", underlyingErr)

		if unwrapper, ok := connErr.(interface{ Unwrap() error }); ok {
			assert.Equal(t, underlyingErr, unwrapper.Unwrap())
		} else {
			t.Fatal("connectionError should implement Unwrap()")
		}

		assert.True(t, errors.Is(connErr, underlyingErr))

		var target *connectionError
		assert.True(t, errors.As(connErr, &target))
		assert.Equal(t, "failed to connect", target.message)
	})

	t.Run("connection error without wrapped error", func(t *testing.T) {
		connErr := NewConnectionError("no connection", nil)

		if unwrapper, ok := connErr.(interface{ Unwrap() error }); ok {
			assert.Nil(t, unwrapper.Unwrap())
		}
	})

	t.Run("protocol error unwrapping", func(t *testing.T) {
		underlyingErr := errors.New("parsing failed")
		protoErr := NewProtocolError("malformed response", underlyingErr)

		assert.True(t, errors.Is(protoErr, underlyingErr))

		var target *protocolError
		assert.True(t, errors.As(protoErr, &target))
		assert.Equal(t, "malformed response", target.message)
	})

	t.Run("chained classification survives wrapping", func(t *testing.T) {
		underlying := errors.New("socket closed")
		connErr := NewConnectionError("connection lost", underlying)
		wrapped := fmt.Errorf("during translate: %w", connErr)

		assert.True(t, IsErrorType(wrapped, ConnectionError))
		assert.True(t, IsRetryable(wrapped))
		assert.True(t, errors.Is(wrapped, underlying))
	})
}

// TestErrorTypeUtilities tests the utility functions for error classification
func TestErrorTypeUtilities(t *testing.T) {
	t.Run("IsErrorType function", func(t *testing.T) {
		tests := []struct {
			name      string
			error     error
			errorType ErrorType
			expected  bool
		}{
			{
				name:      "nil error",
				error:     nil,
				errorType: ConnectionError,
				expected:  false,
			},
			{
				name:      "connection error matches",
				error:     NewConnectionError("test", nil),
				errorType: ConnectionError,
				expected:  true,
			},
			{
				name:      "connection error doesn't match timeout",
				error:     NewConnectionError("test", nil),
				errorType: TimeoutError,
				expected:  false,
			},
			{
				name:      "standard error doesn't match",
				error:     errors.New("standard error"),
				errorType: ConnectionError,
				expected:  false,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, IsErrorType(tt.error, tt.errorType))
			})
		}
	})

	t.Run("IsRetryable function", func(t *testing.T) {
		assert.False(t, IsRetryable(nil))
		assert.False(t, IsRetryable(errors.New("untyped")))
		assert.False(t, IsRetryable(ErrClientClosed))
		assert.True(t, IsRetryable(NewTimeoutError("t", time.Second)))
		assert.False(t, IsRetryable(NewProtocolError("p", nil)))
	})

	t.Run("IsSuccessStatus function", func(t *testing.T) {
		tests := []struct {
			statusCode int
			expected   bool
		}{
			{199, false}, // Below 2xx range
			{200, true},  // Start of 2xx range
			{204, true},  // Within 2xx range
			{299, true},  // End of 2xx range
			{300, false}, // Above 2xx range
			{404, false}, // Well above 2xx range
			{500, false}, // Server error range
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
				assert.Equal(t, tt.expected, IsSuccessStatus(tt.statusCode), "Status %d success check failed", tt.statusCode)
			})
		}
	})
}
