package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/Visecy/aiodeepl/logger"
)

const (
	// DefaultMaxRetries is the default maximum number of retries for
	// requests issued through RequestWithBackoff
	DefaultMaxRetries = 5

	// DefaultUserAgent identifies this library when the caller sets none
	DefaultUserAgent = "aiodeepl-go/1.0"

	tracerName = "github.com/Visecy/aiodeepl/httpclient"

	contentTypeHeader = "Content-Type"
	contentTypeForm   = "application/x-www-form-urlencoded"
	contentTypeJSON   = "application/json"
)

// client implements the Client interface
type client struct {
	httpClient *nethttp.Client
	logger     logger.Logger
	config     *Config
	limiter    *rate.Limiter
	tracer     trace.Tracer
	closed     atomic.Bool

	// newTimer builds the per-request backoff timer; overridable in tests
	newTimer func() *backoffTimer
}

// NewClient creates a new transport with default configuration
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the transport
type Builder struct {
	config         *Config
	logger         logger.Logger
	httpClient     *nethttp.Client
	tracerProvider trace.TracerProvider
}

// NewBuilder creates a new transport builder
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			MaxRetries:          DefaultMaxRetries,
			UserAgent:           DefaultUserAgent,
			DefaultHeaders:      make(map[string]string),
			RequestInterceptors: []RequestInterceptor{},
		},
		logger: log,
	}
}

// WithMaxRetries sets the retry cap for RequestWithBackoff
func (b *Builder) WithMaxRetries(maxRetries int) *Builder {
	if maxRetries >= 0 {
		b.config.MaxRetries = maxRetries
	}
	return b
}

// WithUserAgent sets the User-Agent sent with every request
func (b *Builder) WithUserAgent(userAgent string) *Builder {
	if userAgent != "" {
		b.config.UserAgent = userAgent
	}
	return b
}

// WithProxy routes all requests through the given proxy URL
func (b *Builder) WithProxy(proxyURL string) *Builder {
	b.config.Proxy = proxyURL
	return b
}

// WithRateLimit throttles outgoing attempts to rps requests per second
func (b *Builder) WithRateLimit(rps float64) *Builder {
	b.config.RateLimit = rps
	return b
}

// WithDefaultHeader adds a header sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithHTTPClient supplies a custom *http.Client, e.g. for tests
func (b *Builder) WithHTTPClient(httpClient *nethttp.Client) *Builder {
	b.httpClient = httpClient
	return b
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for
// request spans. Defaults to the global provider.
func (b *Builder) WithTracerProvider(tp trace.TracerProvider) *Builder {
	if tp != nil {
		b.tracerProvider = tp
	}
	return b
}

// Build creates the transport with the configured options
func (b *Builder) Build() Client {
	httpClient := b.httpClient
	if httpClient == nil {
		transport := nethttp.DefaultTransport.(*nethttp.Transport).Clone()
		if b.config.Proxy != "" {
			if proxyURL, err := url.Parse(b.config.Proxy); err == nil {
				transport.Proxy = nethttp.ProxyURL(proxyURL)
			}
		}
		// No client-level timeout: attempts carry their own deadline and
		// streamed bodies must outlive the request call.
		httpClient = &nethttp.Client{Transport: transport}
	}

	tp := b.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	var limiter *rate.Limiter
	if b.config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(b.config.RateLimit), 1)
	}

	return &client{
		httpClient: httpClient,
		logger:     b.logger,
		config:     b.config,
		limiter:    limiter,
		tracer:     tp.Tracer(tracerName),
		newTimer:   newBackoffTimer,
	}
}

// Request issues exactly one HTTP attempt with the minimum connection
// timeout. See Client.Request for the contract.
func (c *client) Request(ctx context.Context, req *Request) (*Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}
	return c.do(ctx, req, minConnectionTimeout)
}

// RequestWithBackoff issues the exchange inside a retry loop driven by a
// fresh backoff timer. Retry is granted only for retryable transport errors
// below the retry cap; successful responses are returned regardless of
// status code, and terminal errors propagate verbatim.
func (c *client) RequestWithBackoff(ctx context.Context, req *Request) (*Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "httpclient.request_with_backoff",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL),
			attribute.String("request.id", requestID),
		))
	defer span.End()

	timer := c.newTimer()
	for {
		resp, err := c.do(ctx, req, timer.timeout())

		if !c.shouldRetry(err, timer.retryCount()) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(
				attribute.Int("http.response.status_code", resp.StatusCode),
				attribute.Int("retry.count", timer.retryCount()),
			)
			return resp, nil
		}

		wait := timer.timeUntilDeadline()
		c.logger.Info().
			Str("request_id", requestID).
			Str("method", req.Method).
			Str("url", req.URL).
			Int("retry", timer.retryCount()+1).
			Dur("wait", wait).
			Err(err).
			Msg("Retrying request after retryable failure")
		span.AddEvent("retry", trace.WithAttributes(
			attribute.Int("retry.attempt", timer.retryCount()+1),
			attribute.String("retry.wait", wait.String()),
		))

		if sleepErr := timer.sleepUntilDeadline(ctx); sleepErr != nil {
			span.RecordError(sleepErr)
			span.SetStatus(codes.Error, sleepErr.Error())
			return nil, sleepErr
		}
	}
}

// shouldRetry declines when the attempt succeeded, the error is not
// retryable, or the retry cap is reached.
func (c *client) shouldRetry(err error, numRetries int) bool {
	if err == nil {
		return false
	}
	if numRetries >= c.config.MaxRetries {
		return false
	}
	return IsRetryable(err)
}

// do performs a single attempt with the given timeout.
func (c *client) do(ctx context.Context, req *Request, timeout time.Duration) (*Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)

	httpReq, err := c.buildRequest(attemptCtx, req)
	if err != nil {
		cancel()
		return nil, err
	}
	c.logRequest(httpReq, req)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, c.classifyTransportError(ctx, err, timeout)
	}

	if req.Stream {
		// The live handle owns the attempt context: cancelling it on the
		// caller's Close releases the connection.
		c.logResponse(httpResp.StatusCode, -1)
		return &Response{
			StatusCode: httpResp.StatusCode,
			Body:       &cancelOnClose{ReadCloser: httpResp.Body, cancel: cancel},
		}, nil
	}

	defer cancel()
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		// The deferred close above releases the connection even here.
		return nil, c.classifyTransportError(ctx, err, timeout)
	}

	c.logResponse(httpResp.StatusCode, len(body))
	return &Response{StatusCode: httpResp.StatusCode, Text: string(body)}, nil
}

// validateRequest raises local validation errors before any network activity
func (c *client) validateRequest(req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if req.URL == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	if req.Method == "" {
		return NewValidationError("method cannot be empty", "method")
	}
	if req.Data != nil && req.JSON != nil {
		return NewValidationError("cannot accept both data and json", "body")
	}
	return nil
}

// buildRequest constructs an *http.Request, applies headers, and runs
// request interceptors. Called once per attempt so bodies are re-sent safely.
func (c *client) buildRequest(ctx context.Context, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	var contentType string

	switch {
	case req.Data != nil:
		body = strings.NewReader(req.Data.Encode())
		contentType = contentTypeForm
	case req.JSON != nil:
		encoded, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, NewValidationError("failed to encode JSON body", "json")
		}
		body = bytes.NewReader(encoded)
		contentType = contentTypeJSON
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, NewValidationError("failed to build HTTP request", "url")
	}

	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" && httpReq.Header.Get(contentTypeHeader) == "" {
		httpReq.Header.Set(contentTypeHeader, contentType)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	for _, interceptor := range c.config.RequestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, NewUnexpectedError("request interceptor failed", err)
		}
	}
	return httpReq, nil
}

// classifyTransportError maps a failed exchange onto the transport error
// taxonomy. Timeouts and connection failures are retryable; protocol and
// unexpected failures are not. Caller cancellation propagates verbatim so
// the retry loop stops without reclassifying it.
func (c *client) classifyTransportError(ctx context.Context, err error, timeout time.Duration) error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError("request timed out", timeout)
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return NewConnectionError("connection failed", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return NewProtocolError("request failed", err)
	}

	return NewUnexpectedError("unexpected request failure", err)
}

// Close releases all pooled connections. Idempotent; requests after Close
// fail fast with ErrClientClosed.
func (c *client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

// cancelOnClose ties the attempt context to the live response handle so
// closing the handle releases the underlying connection.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelOnClose) Close() error {
	err := r.ReadCloser.Close()
	r.cancel()
	return err
}

// logRequest logs the outgoing request
func (c *client) logRequest(httpReq *nethttp.Request, req *Request) {
	c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL).
		Int("header_count", len(httpReq.Header)).
		Msg("DeepL API request")
}

// logResponse logs the incoming response; bodySize is -1 for streamed bodies
func (c *client) logResponse(statusCode, bodySize int) {
	event := c.logger.Debug().
		Str("direction", "inbound").
		Int("status", statusCode)
	if bodySize >= 0 {
		event = event.Int("body_size", bodySize)
	}
	event.Msg("DeepL API response")
}
