// Package httpclient provides the resilient HTTP transport underneath the
// DeepL translator façade: a pooled client with request validation,
// classified transport errors, and a retry mechanism with exponential
// backoff and jitter.
//
// Retries
//   - Driven by RequestWithBackoff; Request issues exactly one attempt.
//   - Retries occur on:
//   - Timeouts (context deadline exceeded or net.Error timeout)
//   - Connection-level failures (dial, DNS, reset)
//   - Protocol errors (malformed responses) and unexpected failures are
//     not retried, and neither are HTTP error statuses: status-code
//     classification belongs to the caller.
//
// Backoff Strategy
//   - Each top-level request owns a fresh backoff timer; concurrent
//     requests never share timer state.
//   - The wait grows by a fixed multiplier per retry, capped at a ceiling,
//     and jitter perturbs the next deadline to avoid synchronized retry
//     storms across clients.
//   - Every attempt carries a timeout derived from the remaining backoff
//     window, floored at a minimum, so one hung attempt cannot occupy more
//     than its share of the schedule.
//
// Notes
//   - Request descriptors are immutable; the http.Request is rebuilt on
//     each attempt so bodies are re-sent safely.
//   - Streamed responses hand the live body to the caller, who owns its
//     lifecycle and must close it.
package httpclient
