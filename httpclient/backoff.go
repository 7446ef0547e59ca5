package httpclient

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	backoffInitial    = 1 * time.Second
	backoffMax        = 120 * time.Second
	backoffJitter     = 0.23
	backoffMultiplier = 1.6

	// minConnectionTimeout floors the per-attempt timeout so short backoff
	// windows still leave an attempt enough time to connect.
	minConnectionTimeout = 10 * time.Second
)

// backoffTimer schedules retry deadlines with exponential growth and
// randomized jitter. Each top-level request owns its own timer; instances
// must not be shared across concurrent retry loops.
type backoffTimer struct {
	backoff    time.Duration
	deadline   time.Time
	numRetries int
}

func newBackoffTimer() *backoffTimer {
	return &backoffTimer{
		backoff:  backoffInitial,
		deadline: time.Now().Add(backoffInitial),
	}
}

// timeUntilDeadline returns the remaining wait, never negative.
func (b *backoffTimer) timeUntilDeadline() time.Duration {
	if d := time.Until(b.deadline); d > 0 {
		return d
	}
	return 0
}

// timeout returns the connection timeout for the next attempt, derived from
// the remaining backoff window and floored at minConnectionTimeout.
func (b *backoffTimer) timeout() time.Duration {
	if d := b.timeUntilDeadline(); d > minConnectionTimeout {
		return d
	}
	return minConnectionTimeout
}

func (b *backoffTimer) retryCount() int {
	return b.numRetries
}

// sleepUntilDeadline blocks until the deadline elapses or ctx is cancelled.
// On normal return it grows the backoff (capped at backoffMax), schedules the
// next jittered deadline, and increments the retry count, in that order, so a
// caller reading retryCount afterwards sees the wait just completed.
func (b *backoffTimer) sleepUntilDeadline(ctx context.Context) error {
	timer := time.NewTimer(b.timeUntilDeadline())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	b.backoff = time.Duration(float64(b.backoff) * backoffMultiplier)
	if b.backoff > backoffMax {
		b.backoff = backoffMax
	}

	// Jitter perturbs the next deadline, not the elapsed wait: with jitter
	// 0.23 the next window is scaled by a value in [0.77, 1.23].
	scale := 1 + backoffJitter*(rand.Float64()*2-1)
	b.deadline = time.Now().Add(time.Duration(float64(b.backoff) * scale))
	b.numRetries++
	return nil
}
