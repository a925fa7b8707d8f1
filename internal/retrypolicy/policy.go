package retrypolicy

import (
	"context"
	"errors"
	"time"
)

// Backoff computes the delay before the given 1-based retry attempt.
type Backoff func(attempt int) time.Duration

// Linear returns a backoff of base plus step for every further attempt:
// attempt 1 -> base, attempt 2 -> base+step, attempt 3 -> base+2*step.
func Linear(base, step time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base + time.Duration(attempt-1)*step
	}
}

// Exponential doubles the base delay per attempt, capped at maxDelay.
func Exponential(base, maxDelay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		delay := base
		for i := 1; i < attempt; i++ {
			if delay > maxDelay/2 {
				return maxDelay
			}
			delay *= 2
		}
		if maxDelay > 0 && delay > maxDelay {
			return maxDelay
		}
		return delay
	}
}

// Policy describes a bounded retry loop.
type Policy struct {
	// MaxAttempts bounds total calls, first try included. Values below 1
	// behave as a single attempt.
	MaxAttempts int
	// Backoff yields the sleep before each retry. Nil means no sleep.
	Backoff Backoff
	// Retryable decides whether an error is worth another attempt. Nil
	// retries every error.
	Retryable func(error) bool
	// Sleep overrides how delays are waited out. Tests inject a recorder
	// here; nil uses a context-aware timer.
	Sleep func(context.Context, time.Duration) error
}

// ErrNotDone marks an operation that succeeded without error but has not
// reached its goal yet, such as a document that is not visible to queries
// right after a write.
var ErrNotDone = errors.New("not done")

// Do runs op until it succeeds, exhausts MaxAttempts, hits a non-retryable
// error, or the context is canceled. The last error is returned unwrapped so
// callers can classify it.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			break
		}
		if err := p.sleep(ctx, p.delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func (p Policy) delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	delay := p.Backoff(attempt)
	if delay < 0 {
		return 0
	}
	return delay
}

func (p Policy) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if p.Sleep != nil {
		return p.Sleep(ctx, delay)
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
