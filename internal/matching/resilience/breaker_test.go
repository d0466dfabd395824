package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterFailMax(t *testing.T) {
	b := NewCircuitBreaker(5, 30*time.Second)
	for i := 0; i < 5; i++ {
		if !b.Allow() {
			t.Fatalf("expected closed breaker to allow call %d", i)
		}
		b.RecordFailure()
	}
	if b.Allow() {
		t.Fatal("expected breaker to be open after 5 consecutive failures")
	}
	if b.State() != "open" {
		t.Fatalf("expected state open, got %s", b.State())
	}
}

func TestCircuitBreakerHalfOpenAdmitsOneProbe(t *testing.T) {
	b := NewCircuitBreaker(1, time.Millisecond)
	b.Allow()
	b.RecordFailure() // opens

	time.Sleep(5 * time.Millisecond)

	if !b.Allow() {
		t.Fatal("expected half-open probe to be admitted after reset window")
	}
	if b.Allow() {
		t.Fatal("expected a second concurrent call to be rejected while probe in flight")
	}
}

func TestCircuitBreakerRecoversOnSuccess(t *testing.T) {
	b := NewCircuitBreaker(1, time.Millisecond)
	b.Allow()
	b.RecordFailure()
	time.Sleep(5 * time.Millisecond)
	b.Allow() // half-open probe
	b.RecordSuccess()
	if b.State() != "closed" {
		t.Fatalf("expected closed after successful probe, got %s", b.State())
	}
}
