package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// CircuitBreaker guards calls to a flaky upstream (the AI service). It
// trips open after the failure ratio is exceeded within a window and
// probes again after the timeout.
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	timeout      time.Duration
	failureRatio float64

	mutex    sync.Mutex
	state    State
	requests uint32
	failures uint32
	expiry   time.Time
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxRequests:  20,
		interval:     60 * time.Second,
		timeout:      60 * time.Second,
		failureRatio: 0.6,
		state:        StateClosed,
	}
}

// Execute runs req unless the breaker is open, recording the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, req func(context.Context) (string, error)) (string, error) {
	if err := cb.beforeRequest(); err != nil {
		return "", err
	}

	result, err := req(ctx)
	cb.afterRequest(err == nil)
	return result, err
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.refresh(time.Now())
	return cb.state
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := time.Now()
	cb.refresh(now)

	if cb.state == StateOpen {
		return ErrCircuitOpen
	}
	if cb.state == StateHalfOpen && cb.requests >= cb.maxRequests {
		return ErrCircuitOpen
	}

	cb.requests++
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		if cb.state == StateHalfOpen {
			cb.state = StateClosed
			cb.resetCounts(time.Now())
		}
		return
	}

	cb.failures++
	if cb.requests >= cb.maxRequests &&
		float64(cb.failures)/float64(cb.requests) >= cb.failureRatio {
		cb.state = StateOpen
		cb.expiry = time.Now().Add(cb.timeout)
	}
}

// refresh rolls the counting window and moves an expired open breaker to
// half-open. Callers must hold the mutex.
func (cb *CircuitBreaker) refresh(now time.Time) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.resetCounts(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.state = StateHalfOpen
			cb.requests = 0
			cb.failures = 0
		}
	}
}

func (cb *CircuitBreaker) resetCounts(now time.Time) {
	cb.requests = 0
	cb.failures = 0
	cb.expiry = now.Add(cb.interval)
}
