package deepl

import (
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"
)

// Lifecycle errors raised by the Translator before any network activity.
var (
	// ErrNotStarted is returned by operations invoked before Start.
	ErrNotStarted = errors.New("deepl: translator not started, call Start first")
	// ErrClosed is returned by operations invoked after Close.
	ErrClosed = errors.New("deepl: translator is closed")
	// ErrEmptyAuthKey is returned by New when no credential is supplied.
	ErrEmptyAuthKey = errors.New("deepl: auth key must not be empty")
)

// APIError is an error classified from an HTTP status code and response body
// after a successful transport exchange. These errors are never retried by
// the transport layer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deepl: %s (status: %d)", e.Message, e.StatusCode)
}

// AuthorizationError indicates a rejected credential.
type AuthorizationError struct{ APIError }

// TooManyRequestsError indicates the account sent too many requests;
// clients should back off before sending more.
type TooManyRequestsError struct{ APIError }

// QuotaExceededError indicates the translation quota for the billing period
// is exhausted.
type QuotaExceededError struct{ APIError }

// DocumentNotReadyError indicates a document download was attempted before
// translation finished.
type DocumentNotReadyError struct{ APIError }

// GlossaryNotFoundError indicates the referenced glossary does not exist,
// e.g. a translation request naming a deleted glossary ID.
type GlossaryNotFoundError struct{ APIError }

// DocumentTranslationError indicates a document translation failed; the
// handle identifies the affected document.
type DocumentTranslationError struct {
	APIError
	Handle DocumentHandle
}

func (e *DocumentTranslationError) Error() string {
	return fmt.Sprintf("deepl: document %s: %s", e.Handle.DocumentID, e.Message)
}

// classifyStatus maps a response status and body onto the API error
// taxonomy, mirroring the upstream client's status handling. It returns nil
// for non-error statuses.
func classifyStatus(statusCode int, body string, downloadingDocument bool) error {
	if statusCode >= 200 && statusCode < 400 {
		return nil
	}

	message := extractMessage(body)

	switch statusCode {
	case nethttp.StatusForbidden:
		return &AuthorizationError{apiError(statusCode, "authorization failure, check auth key", message)}
	case nethttp.StatusTooManyRequests:
		return &TooManyRequestsError{apiError(statusCode, "too many requests, wait and resend", message)}
	case 456:
		return &QuotaExceededError{apiError(statusCode, "quota for this billing period has been exceeded", message)}
	case nethttp.StatusNotFound:
		if strings.Contains(strings.ToLower(message), "glossary") {
			return &GlossaryNotFoundError{apiError(statusCode, "glossary not found", message)}
		}
		return &APIError{StatusCode: statusCode, Message: withDetail("not found, check server URL", message)}
	case nethttp.StatusBadRequest:
		return &APIError{StatusCode: statusCode, Message: withDetail("bad request", message)}
	case nethttp.StatusServiceUnavailable:
		if downloadingDocument {
			return &DocumentNotReadyError{apiError(statusCode, "document not ready", message)}
		}
		return &APIError{StatusCode: statusCode, Message: withDetail("service unavailable", message)}
	default:
		return &APIError{StatusCode: statusCode, Message: withDetail("unexpected status code", message)}
	}
}

func apiError(statusCode int, base, detail string) APIError {
	return APIError{StatusCode: statusCode, Message: withDetail(base, detail)}
}

func withDetail(base, detail string) string {
	if detail == "" {
		return base
	}
	return base + ": " + detail
}

// extractMessage pulls the human-readable message or detail field out of a
// JSON error body, if there is one.
func extractMessage(body string) string {
	if body == "" {
		return ""
	}
	var parsed struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return ""
	}
	switch {
	case parsed.Message != "" && parsed.Detail != "":
		return parsed.Message + ", detail: " + parsed.Detail
	case parsed.Message != "":
		return parsed.Message
	default:
		return parsed.Detail
	}
}
