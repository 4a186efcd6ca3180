// Package retry provides exponential backoff for callers that submit
// bundles to the downstream execution system. Delay computation is pure;
// only Do sleeps.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/autopilot-ai/sdk"
)

// Backoff configures the retry schedule.
type Backoff struct {
	// Initial is the delay before the first retry.
	Initial time.Duration

	// Max caps the computed delay.
	Max time.Duration

	// Multiplier scales the delay after each attempt. Values below 1 are
	// treated as 1 (constant delay).
	Multiplier float64

	// Jitter is the fraction of the delay randomized on each sleep, in
	// [0, 1]. Zero means no jitter.
	Jitter float64

	// MaxAttempts is the total number of attempts, including the first.
	// Zero or negative means a single attempt.
	MaxAttempts int
}

// Default returns the backoff schedule used by the pipeline CLI:
// 500ms initial, doubling to a 30s cap, 20% jitter, five attempts.
func Default() Backoff {
	return Backoff{
		Initial:     500 * time.Millisecond,
		Max:         30 * time.Second,
		Multiplier:  2,
		Jitter:      0.2,
		MaxAttempts: 5,
	}
}

// Delay returns the base delay before retry number attempt (1-based),
// without jitter. Attempt values below 1 return Initial.
func (b Backoff) Delay(attempt int) time.Duration {
	d := float64(b.Initial)
	mult := b.Multiplier
	if mult < 1 {
		mult = 1
	}
	for i := 1; i < attempt; i++ {
		d *= mult
		if b.Max > 0 && d >= float64(b.Max) {
			return b.Max
		}
	}
	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// jittered applies the configured jitter to a base delay, spreading it
// uniformly over [d*(1-jitter), d*(1+jitter)].
func (b Backoff) jittered(d time.Duration) time.Duration {
	if b.Jitter <= 0 {
		return d
	}
	spread := b.Jitter * float64(d)
	return time.Duration(float64(d) - spread + 2*spread*rand.Float64())
}

// Retryable reports whether an error is worth retrying. A *sdk.PipelineError
// retries only for IO and internal kinds; validation, policy, and integrity
// failures are permanent. Unknown error types default to retryable.
func Retryable(err error) bool {
	var pe *sdk.PipelineError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case sdk.KindIO, sdk.KindInternal:
			return true
		default:
			return false
		}
	}
	return true
}

// Do runs fn until it succeeds, returns a permanent error, exhausts the
// attempt budget, or ctx is cancelled. The last error from fn is returned.
func Do(ctx context.Context, b Backoff, fn func(context.Context) error) error {
	attempts := b.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !Retryable(err) || attempt == attempts {
			return err
		}

		timer := time.NewTimer(b.jittered(b.Delay(attempt)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
