package httpclient

import (
	"context"
	"io"
	nethttp "net/http"
	"net/url"
)

// Client defines the transport capability the translator façade is built on:
// a single-attempt exchange, the same exchange wrapped in a retry loop, and
// explicit teardown.
type Client interface {
	// Request issues exactly one HTTP attempt, with no retry.
	Request(ctx context.Context, req *Request) (*Response, error)
	// RequestWithBackoff issues the same exchange wrapped in a retry loop
	// driven by a fresh backoff timer.
	RequestWithBackoff(ctx context.Context, req *Request) (*Response, error)
	// Close releases pooled connections. It is idempotent; requests issued
	// after Close fail fast with ErrClientClosed.
	Close() error
}

// Request describes one API exchange. It is immutable once constructed and
// built fresh per call; the retry loop reuses it across attempts. Data and
// JSON are mutually exclusive; supplying both is a caller programming error.
type Request struct {
	Method  string
	URL     string
	Data    url.Values        // form-encoded body
	JSON    any               // JSON body
	Headers map[string]string // merged over the client's default headers
	Stream  bool              // return the live response body instead of buffering
}

// Response is the outcome of a successful exchange. For buffered responses
// Text holds the full body and the underlying connection has been released.
// For streamed responses Body is the live handle: the caller owns it and must
// close it if not fully consumed.
type Response struct {
	StatusCode int
	Text       string
	Body       io.ReadCloser
}

// RequestInterceptor is called with the assembled http.Request before each
// attempt is sent.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// Config holds the transport configuration
type Config struct {
	// MaxRetries caps the number of retries per RequestWithBackoff call;
	// at most MaxRetries+1 attempts are made.
	MaxRetries int
	// UserAgent is sent when the request carries no User-Agent header.
	UserAgent string
	// Proxy is an optional proxy server URL.
	Proxy string
	// RateLimit throttles outgoing attempts to this many requests per
	// second when positive. Zero disables throttling.
	RateLimit float64
	// DefaultHeaders are applied to every request; per-request headers win.
	DefaultHeaders map[string]string
	// RequestInterceptors run against the assembled http.Request per attempt.
	RequestInterceptors []RequestInterceptor
}
