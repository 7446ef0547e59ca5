package deepl

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/Visecy/aiodeepl/httpclient"
	"github.com/Visecy/aiodeepl/logger"
)

// Version is the library version reported in the User-Agent header.
const Version = "1.0.0"

const (
	serverURLPro  = "https://api.deepl.com"
	serverURLFree = "https://api-free.deepl.com"

	authorizationHeader = "Authorization"
	authKeyScheme       = "DeepL-Auth-Key "

	// maxErrorBodyBytes caps how much of a streamed error body is drained
	// for error reporting.
	maxErrorBodyBytes = 16 * 1024
)

// Translator lifecycle: operations are only permitted between Start and
// Close. closed is terminal.
type lifecycleState int

const (
	stateUninstalled lifecycleState = iota
	stateInstalled
	stateClosed
)

// Translator is the entry point for the DeepL API. Construct it with New,
// install its transport with Start, and release it with Close. A Translator
// is safe for concurrent use once started.
type Translator struct {
	serverURL string
	authKey   string
	log       logger.Logger

	mu     sync.RWMutex
	state  lifecycleState
	client httpclient.Client

	// transport construction inputs, fixed at New
	maxRetries       int
	proxy            string
	userAgent        string
	rateLimit        float64
	sendPlatformInfo bool
	tracerProvider   trace.TracerProvider
	injected         httpclient.Client
}

// Option configures a Translator at construction time.
type Option func(*Translator)

// WithServerURL overrides the API base URL, e.g. for testing.
func WithServerURL(serverURL string) Option {
	return func(t *Translator) { t.serverURL = serverURL }
}

// WithLogger sets the logger used by the translator and its transport.
func WithLogger(log logger.Logger) Option {
	return func(t *Translator) {
		if log != nil {
			t.log = log
		}
	}
}

// WithMaxRetries caps the number of retries per API call.
func WithMaxRetries(maxRetries int) Option {
	return func(t *Translator) { t.maxRetries = maxRetries }
}

// WithProxy routes all requests through the given proxy URL.
func WithProxy(proxyURL string) Option {
	return func(t *Translator) { t.proxy = proxyURL }
}

// WithUserAgent replaces the default User-Agent entirely.
func WithUserAgent(userAgent string) Option {
	return func(t *Translator) { t.userAgent = userAgent }
}

// WithRateLimit throttles outgoing requests to rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(t *Translator) { t.rateLimit = rps }
}

// WithPlatformInfo controls whether basic platform details (OS, Go version)
// are included in the User-Agent. Enabled by default.
func WithPlatformInfo(enabled bool) Option {
	return func(t *Translator) { t.sendPlatformInfo = enabled }
}

// WithTracerProvider sets the OpenTelemetry tracer provider for request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Translator) { t.tracerProvider = tp }
}

// WithTransport injects a transport instead of building one at Start,
// e.g. a test double.
func WithTransport(client httpclient.Client) Option {
	return func(t *Translator) { t.injected = client }
}

// New creates a Translator for the given auth key. An empty key is a
// validation error raised immediately, before any network activity. The
// server URL defaults to the free or pro endpoint based on the key's
// account classification.
func New(authKey string, opts ...Option) (*Translator, error) {
	if authKey == "" {
		return nil, ErrEmptyAuthKey
	}

	t := &Translator{
		authKey:          authKey,
		log:              logger.New("info", false),
		maxRetries:       httpclient.DefaultMaxRetries,
		sendPlatformInfo: true,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.serverURL == "" {
		if AuthKeyIsFreeAccount(authKey) {
			t.serverURL = serverURLFree
		} else {
			t.serverURL = serverURLPro
		}
	}
	t.serverURL = strings.TrimRight(t.serverURL, "/")

	if t.userAgent == "" {
		t.userAgent = "aiodeepl-go/" + Version
		if t.sendPlatformInfo {
			t.userAgent += " (" + runtime.GOOS + ") " + runtime.Version()
		}
	}
	return t, nil
}

// Start installs the transport, moving the translator into the installed
// state. It must be called once before the first network operation; calling
// it again on a started translator is a no-op. Starting a closed translator
// is an error.
func (t *Translator) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateClosed:
		return ErrClosed
	case stateInstalled:
		return nil
	}

	if t.injected != nil {
		t.client = t.injected
	} else {
		builder := httpclient.NewBuilder(t.log).
			WithMaxRetries(t.maxRetries).
			WithUserAgent(t.userAgent)
		if t.proxy != "" {
			builder = builder.WithProxy(t.proxy)
		}
		if t.rateLimit > 0 {
			builder = builder.WithRateLimit(t.rateLimit)
		}
		if t.tracerProvider != nil {
			builder = builder.WithTracerProvider(t.tracerProvider)
		}
		t.client = builder.Build()
	}

	t.state = stateInstalled
	return nil
}

// Close releases the underlying transport. It is safe to call multiple
// times and never fails on teardown: transport release errors are logged
// and swallowed, since the pool is being discarded anyway. closed is
// terminal; operations after Close return ErrClosed.
func (t *Translator) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateClosed {
		return nil
	}
	prev := t.state
	t.state = stateClosed

	if prev == stateInstalled && t.client != nil {
		if err := t.client.Close(); err != nil {
			t.log.Debug().Err(err).Msg("Transport close failed during teardown")
		}
	}
	return nil
}

// transport returns the installed transport or the lifecycle error for the
// current state.
func (t *Translator) transport() (httpclient.Client, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	switch t.state {
	case stateUninstalled:
		return nil, ErrNotStarted
	case stateClosed:
		return nil, ErrClosed
	}
	return t.client, nil
}

// apiResult is the outcome of one API call: the status code plus either the
// buffered body text or, for streamed calls, the live body handle.
type apiResult struct {
	status int
	text   string
	body   io.ReadCloser
}

// apiCall performs one API request with retries and returns its outcome.
// Status-code classification is left to the caller via raiseForStatus.
func (t *Translator) apiCall(ctx context.Context, method, path string, query url.Values, data url.Values, jsonBody any, stream bool) (*apiResult, error) {
	client, err := t.transport()
	if err != nil {
		return nil, err
	}

	endpoint, err := url.JoinPath(t.serverURL, path)
	if err != nil {
		return nil, fmt.Errorf("deepl: invalid request path %q: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req := &httpclient.Request{
		Method: method,
		URL:    endpoint,
		Data:   data,
		JSON:   jsonBody,
		Stream: stream,
		Headers: map[string]string{
			authorizationHeader: authKeyScheme + t.authKey,
		},
	}

	t.log.Info().
		Str("method", method).
		Str("url", endpoint).
		Msg("Request to DeepL API")

	resp, err := client.RequestWithBackoff(ctx, req)
	if err != nil {
		return nil, err
	}

	t.log.Info().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Msg("DeepL API response")

	return &apiResult{status: resp.StatusCode, text: resp.Text, body: resp.Body}, nil
}

// raiseForStatus classifies error statuses after a successful exchange.
// When the body arrived as a live handle, the error details are drained
// from it and the handle is released; no document bytes follow an error
// status.
func (t *Translator) raiseForStatus(res *apiResult, downloadingDocument bool) error {
	if res.status >= 200 && res.status < 400 {
		return nil
	}

	body := res.text
	if res.body != nil {
		drained, _ := io.ReadAll(io.LimitReader(res.body, maxErrorBodyBytes))
		res.body.Close()
		body = string(drained)
	}
	return classifyStatus(res.status, body, downloadingDocument)
}
