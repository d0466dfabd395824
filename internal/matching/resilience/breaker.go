// Package resilience implements the Resilience Layer (C8): retry with
// exponential backoff, a circuit breaker around external calls, and the
// fallback-chain error-class mapping used by the Match Orchestrator.
package resilience

import (
	"sync"
	"time"
)

// breakerState is the circuit breaker's internal state machine.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker opens after failMax consecutive failures and stays open
// for resetAfter, during which calls short-circuit immediately. Half-open
// admits exactly one probe; its outcome decides the next transition.
// Transitions are atomic under a single mutex, per §5's "circuit-breaker
// state is shared process-wide; transitions must be atomic".
type CircuitBreaker struct {
	mu              sync.Mutex
	failMax         int
	resetAfter      time.Duration
	state           breakerState
	consecutiveFail int
	openedAt        time.Time
	halfOpenInFlight bool
}

// NewCircuitBreaker constructs a CircuitBreaker with the given threshold
// and open-state duration.
func NewCircuitBreaker(failMax int, resetAfter time.Duration) *CircuitBreaker {
	if failMax <= 0 {
		failMax = 5
	}
	if resetAfter <= 0 {
		resetAfter = 30 * time.Second
	}
	return &CircuitBreaker{failMax: failMax, resetAfter: resetAfter}
}

// Allow reports whether a call may proceed. Exactly one caller is admitted
// as the half-open probe while the breaker is transitioning back to closed.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if time.Since(b.openedAt) < b.resetAfter {
			return false
		}
		b.state = stateHalfOpen
		b.halfOpenInFlight = true
		return true
	case stateHalfOpen:
		if b.halfOpenInFlight {
			return false
		}
		b.halfOpenInFlight = true
		return true
	default:
		return true
	}
}

// RecordSuccess closes the breaker and resets the failure counter.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFail = 0
	b.state = stateClosed
	b.halfOpenInFlight = false
}

// RecordFailure increments the failure counter and opens the breaker once
// failMax consecutive failures have been observed (or immediately, if the
// failing call was the half-open probe).
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.halfOpenInFlight = false
	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = time.Now()
		return
	}

	b.consecutiveFail++
	if b.consecutiveFail >= b.failMax {
		b.state = stateOpen
		b.openedAt = time.Now()
	}
}

// State reports the current state name, for diagnostics/metrics.
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
