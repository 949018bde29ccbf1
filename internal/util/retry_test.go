// ABOUTME: Tests for retry and backoff utilities
// ABOUTME: Verifies backoff growth, caps, and retry loop behavior

package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff_ZeroForFirstAttempt(t *testing.T) {
	if got := CalculateBackoff(time.Second, 0); got != 0 {
		t.Errorf("CalculateBackoff(_, 0) = %v, want 0", got)
	}
	if got := CalculateBackoff(time.Second, -1); got != 0 {
		t.Errorf("CalculateBackoff(_, -1) = %v, want 0", got)
	}
}

func TestCalculateBackoff_GrowsWithAttempts(t *testing.T) {
	base := 100 * time.Millisecond
	prev := time.Duration(0)
	for attempt := 1; attempt <= 4; attempt++ {
		got := CalculateBackoff(base, attempt)
		// Jitter is at most 25%, so the midpoint ordering still holds.
		if got <= prev/2 {
			t.Errorf("Backoff at attempt %d (%v) did not grow past attempt %d (%v)", attempt, got, attempt-1, prev)
		}
		prev = got
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	// 2^30 seconds would overflow sensible delays; the cap plus jitter
	// keeps the result under 40s.
	got := CalculateBackoff(2*time.Second, 50)
	if got > 40*time.Second {
		t.Errorf("CalculateBackoff = %v, want <= 40s", got)
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	wantErr := errors.New("persistent")
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Retry() error = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Retry(ctx, 10, 500*time.Millisecond, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
