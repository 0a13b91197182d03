package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	wantErr := errors.New("still down")
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryWithResultReturnsValue(t *testing.T) {
	attempts := 0
	got, err := RetryWithResult(context.Background(), fastRetryConfig(), func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("RetryWithResult failed: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %d, want 42", got)
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, fastRetryConfig(), func() error {
		attempts++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry after cancel)", attempts)
	}
}

func TestNextDelayCapsAtMax(t *testing.T) {
	cfg := RetryConfig{MaxDelay: 4 * time.Millisecond, BackoffFactor: 2.0}
	if got := nextDelay(time.Millisecond, cfg); got != 2*time.Millisecond {
		t.Errorf("nextDelay(1ms) = %v, want 2ms", got)
	}
	if got := nextDelay(3*time.Millisecond, cfg); got != 4*time.Millisecond {
		t.Errorf("nextDelay(3ms) = %v, want 4ms (capped)", got)
	}
}
