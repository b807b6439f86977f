package chainadapter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/scl-host/sclindexer/internal/config"
)

// CircuitBreaker prevents hammering the chain-index REST service once it
// starts failing.
//
// State machine:
// - Closed (normal): all requests pass. On failure, increment counter.
// If counter >= threshold -> Open.
// - Open (tripped): all requests blocked (ErrChainUnavailable).
// After cooldown elapsed -> Half-Open.
// - Half-Open (testing): allow 1 request through.
// If success -> Closed (reset counter). If failure -> Open (restart cooldown).
type CircuitBreaker struct {
	mu sync.Mutex
	state string
	consecutiveFails int
	threshold int
	cooldown time.Duration
	lastFailure time.Time
	halfOpenAllowed int
	halfOpenCount int
}

// NewCircuitBreaker creates a new circuit breaker with the given threshold and cooldown.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
 state: config.CircuitClosed,
 threshold: threshold,
 cooldown: cooldown,
 halfOpenAllowed: config.CircuitBreakerHalfOpenMax,
	}
}

// Allow returns true if a request should be allowed through the circuit breaker.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case config.CircuitClosed:
 return true

	case config.CircuitOpen:
 if time.Since(cb.lastFailure) >= cb.cooldown {
 slog.Debug("circuit breaker transitioning to half-open",
 "consecutiveFails", cb.consecutiveFails,
 "cooldown", cb.cooldown,
 )
 cb.state = config.CircuitHalfOpen
 cb.halfOpenCount = 0
 return true
 }
 return false

	case config.CircuitHalfOpen:
 if cb.halfOpenCount < cb.halfOpenAllowed {
 cb.halfOpenCount++
 return true
 }
 return false
	}
	return true
}

// RecordSuccess resets the breaker to closed.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != config.CircuitClosed {
 slog.Info("circuit breaker closed after success", "priorState", cb.state)
	}
	cb.state = config.CircuitClosed
	cb.consecutiveFails = 0
	cb.halfOpenCount = 0
}

// RecordFailure increments the failure count and trips the breaker at threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = time.Now()

	if cb.state == config.CircuitHalfOpen {
 slog.Warn("circuit breaker re-opened after half-open failure")
 cb.state = config.CircuitOpen
 return
	}

	cb.consecutiveFails++
	if cb.consecutiveFails >= cb.threshold {
 slog.Warn("circuit breaker opened",
 "consecutiveFails", cb.consecutiveFails,
 "threshold", cb.threshold,
 )
 cb.state = config.CircuitOpen
	}
}

// State returns the current breaker state string, for health reporting.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
