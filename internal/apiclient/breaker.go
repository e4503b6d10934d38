package apiclient

import (
	"fmt"
	"sync"
	"time"

	"github.com/myloggi/internal/constants"
)

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation, requests pass through
	StateOpen     CircuitState = "open"      // Circuit is open, requests fail fast
	StateHalfOpen CircuitState = "half-open" // Testing if the API recovered
)

// CircuitBreaker tracks transport failures per API host.
// Only transport failures count; an HTTP error status is a response and never opens the circuit.
type CircuitBreaker struct {
	mu                sync.Mutex
	circuits          map[string]*circuit
	threshold         int
	timeout           time.Duration
	halfOpenSuccesses int
	now               func() time.Time
}

type circuit struct {
	state             CircuitState
	failures          int
	lastFailureTime   time.Time
	lastStateChange   time.Time
	halfOpenSuccesses int
}

// CircuitStats holds statistics about a circuit
type CircuitStats struct {
	State           CircuitState
	Failures        int
	LastFailure     time.Time
	LastStateChange time.Time
}

// NewCircuitBreaker creates a breaker that opens after threshold failures and
// retries after timeout
func NewCircuitBreaker(threshold int, timeout time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = constants.CircuitFailureThreshold
	}
	if timeout <= 0 {
		timeout = constants.CircuitOpenTimeout
	}
	return &CircuitBreaker{
		circuits:          make(map[string]*circuit),
		threshold:         threshold,
		timeout:           timeout,
		halfOpenSuccesses: 1,
		now:               time.Now,
	}
}

// Allow reports whether a request to host may proceed.
// An open circuit whose timeout elapsed moves to half-open and lets the request through.
func (cb *CircuitBreaker) Allow(host string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, exists := cb.circuits[host]
	if !exists || c.state != StateOpen {
		return true
	}

	if cb.now().Sub(c.lastStateChange) >= cb.timeout {
		c.state = StateHalfOpen
		c.halfOpenSuccesses = 0
		c.lastStateChange = cb.now()
		return true
	}
	return false
}

// RecordSuccess records a request that got any HTTP response
func (cb *CircuitBreaker) RecordSuccess(host string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, exists := cb.circuits[host]
	if !exists {
		return
	}

	c.failures = 0

	switch c.state {
	case StateHalfOpen:
		c.halfOpenSuccesses++
		if c.halfOpenSuccesses >= cb.halfOpenSuccesses {
			c.state = StateClosed
			c.lastStateChange = cb.now()
			c.halfOpenSuccesses = 0
		}
	case StateOpen:
		c.state = StateClosed
		c.lastStateChange = cb.now()
	}
}

// RecordFailure records a transport failure
func (cb *CircuitBreaker) RecordFailure(host string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, exists := cb.circuits[host]
	if !exists {
		c = &circuit{
			state:           StateClosed,
			lastStateChange: cb.now(),
		}
		cb.circuits[host] = c
	}

	c.failures++
	c.lastFailureTime = cb.now()

	switch c.state {
	case StateClosed:
		if c.failures >= cb.threshold {
			c.state = StateOpen
			c.lastStateChange = cb.now()
		}
	case StateHalfOpen:
		c.state = StateOpen
		c.lastStateChange = cb.now()
		c.halfOpenSuccesses = 0
	}
}

// Stats returns the current statistics of a circuit
func (cb *CircuitBreaker) Stats(host string) CircuitStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, exists := cb.circuits[host]
	if !exists {
		return CircuitStats{State: StateClosed}
	}

	return CircuitStats{
		State:           c.state,
		Failures:        c.failures,
		LastFailure:     c.lastFailureTime,
		LastStateChange: c.lastStateChange,
	}
}

// Reset forgets everything known about host
func (cb *CircuitBreaker) Reset(host string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.circuits, host)
}

// CircuitOpenError is the cause attached when a request was refused locally
type CircuitOpenError struct {
	Host  string
	Stats CircuitStats
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open for %s (failures: %d, state: %s)",
		e.Host, e.Stats.Failures, e.Stats.State)
}
