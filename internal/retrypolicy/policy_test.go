package retrypolicy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"powerfulchat/internal/retrypolicy"
)

func TestDoRetriesUntilSuccess(t *testing.T) {
	var delays []time.Duration
	policy := retrypolicy.Policy{
		MaxAttempts: 5,
		Backoff:     retrypolicy.Linear(500*time.Millisecond, 500*time.Millisecond),
		Sleep: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return retrypolicy.ErrNotDone
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	want := []time.Duration{500 * time.Millisecond, 1 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	policy := retrypolicy.Policy{
		MaxAttempts: 3,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return retrypolicy.ErrNotDone
	})
	if !errors.Is(err, retrypolicy.ErrNotDone) {
		t.Fatalf("err = %v, want ErrNotDone", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("permanent")
	policy := retrypolicy.Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return errors.Is(err, retrypolicy.ErrNotDone) },
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want permanent error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := retrypolicy.Policy{
		MaxAttempts: 5,
		Backoff:     retrypolicy.Linear(time.Millisecond, 0),
	}

	attempts := 0
	err := policy.Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return retrypolicy.ErrNotDone
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestZeroAttemptsBehavesAsSingleTry(t *testing.T) {
	attempts := 0
	err := retrypolicy.Policy{}.Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})
	if err != nil || attempts != 1 {
		t.Fatalf("attempts = %d err = %v", attempts, err)
	}
}

func TestLinearBackoffValues(t *testing.T) {
	backoff := retrypolicy.Linear(500*time.Millisecond, 250*time.Millisecond)
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 750 * time.Millisecond},
		{4, 1250 * time.Millisecond},
		{0, 500 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := backoff(tc.attempt); got != tc.want {
			t.Errorf("Linear(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestExponentialBackoffCaps(t *testing.T) {
	backoff := retrypolicy.Exponential(time.Second, 10*time.Second)
	if got := backoff(1); got != time.Second {
		t.Errorf("attempt 1 = %v", got)
	}
	if got := backoff(3); got != 4*time.Second {
		t.Errorf("attempt 3 = %v", got)
	}
	if got := backoff(10); got != 10*time.Second {
		t.Errorf("attempt 10 = %v, want cap", got)
	}
}
