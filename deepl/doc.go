// Package deepl provides a client for the DeepL translation API built on a
// resilient HTTP transport with retries, exponential backoff, and jitter.
//
// A Translator must be started before use and closed when no longer needed:
//
//	t, err := deepl.New(authKey)
//	if err != nil { ... }
//	if err := t.Start(); err != nil { ... }
//	defer t.Close()
//
//	results, err := t.TranslateText(ctx, []string{"Hello"}, "", "DE")
//
// Transport failures (timeouts, connection errors) are retried automatically
// with backoff; API errors reported through HTTP status codes are surfaced as
// typed errors (AuthorizationError, TooManyRequestsError, QuotaExceededError,
// and so on) and are never retried by this layer.
package deepl
