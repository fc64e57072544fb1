package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker stops calling a booking site after repeated transport failures.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg CircuitBreakerConfig

	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
	halfOpenSuccesses   int
	now                 func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// Execute runs fn through the breaker. countsAsFailure decides which errors trip it;
// nil means every error does. A disabled breaker only runs fn.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error, countsAsFailure func(error) bool) error {
	if !b.cfg.Enabled {
		return fn(ctx)
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn(ctx)
	switch {
	case err == nil:
		b.RecordSuccess()
	case ctx.Err() != nil:
		// caller gave up; not the dependency's fault
		b.release()
	case countsAsFailure == nil || countsAsFailure(err):
		b.RecordFailure()
	default:
		b.RecordSuccess()
	}
	return err
}

func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.toHalfOpen()
	}

	if b.state == CircuitStateHalfOpen {
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.halfOpenInFlight++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures = 0
	case CircuitStateHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.cfg.HalfOpenMaxReq && b.halfOpenInFlight == 0 {
			b.toClosed()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			b.toOpen()
		}
	case CircuitStateHalfOpen:
		b.toOpen()
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}
}

func (b *CircuitBreaker) toClosed() {
	b.state = CircuitStateClosed
	b.consecutiveFailures = 0
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) toOpen() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}

func (b *CircuitBreaker) toHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}
