package httpclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expireDeadline forces the next sleep to return immediately so tests can
// drive many backoff cycles without waiting.
func expireDeadline(b *backoffTimer) {
	b.deadline = time.Now()
}

func TestNewBackoffTimer(t *testing.T) {
	b := newBackoffTimer()

	assert.Equal(t, backoffInitial, b.backoff)
	assert.Equal(t, 0, b.retryCount())

	until := b.timeUntilDeadline()
	assert.Greater(t, until, time.Duration(0))
	assert.LessOrEqual(t, until, backoffInitial)
}

func TestTimeUntilDeadlineNeverNegative(t *testing.T) {
	b := newBackoffTimer()
	b.deadline = time.Now().Add(-time.Minute)

	assert.Equal(t, time.Duration(0), b.timeUntilDeadline())
}

func TestTimeoutFlooredAtMinimum(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		check    func(t *testing.T, d time.Duration)
	}{
		{
			name:     "short window uses the floor",
			deadline: time.Now().Add(time.Millisecond),
			check: func(t *testing.T, d time.Duration) {
				assert.Equal(t, minConnectionTimeout, d)
			},
		},
		{
			name:     "expired deadline uses the floor",
			deadline: time.Now().Add(-time.Second),
			check: func(t *testing.T, d time.Duration) {
				assert.Equal(t, minConnectionTimeout, d)
			},
		},
		{
			name:     "long window tracks the deadline",
			deadline: time.Now().Add(time.Minute),
			check: func(t *testing.T, d time.Duration) {
				assert.Greater(t, d, minConnectionTimeout)
				assert.LessOrEqual(t, d, time.Minute)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackoffTimer()
			b.deadline = tt.deadline
			tt.check(t, b.timeout())
		})
	}
}

func TestSleepUntilDeadlineGrowsBackoff(t *testing.T) {
	b := newBackoffTimer()

	prev := b.backoff
	for i := 1; i <= 20; i++ {
		expireDeadline(b)
		require.NoError(t, b.sleepUntilDeadline(context.Background()))

		// Non-decreasing until the cap, never above it once applied
		assert.GreaterOrEqual(t, b.backoff, prev)
		assert.LessOrEqual(t, b.backoff, backoffMax)
		assert.Equal(t, i, b.retryCount())

		// Jitter keeps the new deadline within the scaled window
		until := b.timeUntilDeadline()
		low := time.Duration(float64(b.backoff) * (1 - backoffJitter) * 0.9)
		high := time.Duration(float64(b.backoff) * (1 + backoffJitter))
		assert.GreaterOrEqual(t, until, low)
		assert.LessOrEqual(t, until, high)

		prev = b.backoff
	}

	assert.Equal(t, backoffMax, b.backoff)
}

func TestSleepUntilDeadlineRespectsCancellation(t *testing.T) {
	b := newBackoffTimer()
	b.deadline = time.Now().Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.sleepUntilDeadline(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sleep did not abort on cancellation")
	}

	// A cancelled sleep must not advance the retry state
	assert.Equal(t, 0, b.retryCount())
	assert.Equal(t, backoffInitial, b.backoff)
}

func TestRetryCountIncrementsAfterWait(t *testing.T) {
	b := newBackoffTimer()

	expireDeadline(b)
	require.NoError(t, b.sleepUntilDeadline(context.Background()))
	// The post-increment value reflects the wait just completed
	assert.Equal(t, 1, b.retryCount())
}
