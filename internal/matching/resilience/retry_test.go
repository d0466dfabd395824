package resilience

import (
	"context"
	"errors"
	"testing"
)

func TestRetryStopsOnNonTransientError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		return errors.New("400 bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 call for a non-transient error, got %d", calls)
	}
}

func TestRetryRetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return &TransientError{Err: errors.New("timeout")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryExhaustsMaxAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		return &TransientError{Err: errors.New("still failing")}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestFallbackChainStartsAtEntryPoint(t *testing.T) {
	chain := Chain(EntryKeyword)
	if chain[0] != EntryKeyword {
		t.Fatalf("expected chain to start at keyword, got %v", chain[0])
	}
	if chain[len(chain)-1] != EntryEmergency {
		t.Fatal("expected chain to always end at emergency")
	}
}
