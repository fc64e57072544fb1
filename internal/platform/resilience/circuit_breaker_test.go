package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, halfOpen int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpen,
	})
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b, now := newTestBreaker(2, 5*time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteClassifiesFailures(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute, 1)
	errParse := errors.New("malformed schedule")
	errNetwork := errors.New("connection reset")
	transportOnly := func(err error) bool { return errors.Is(err, errNetwork) }

	err := b.Execute(context.Background(), func(context.Context) error { return errParse }, transportOnly)
	if !errors.Is(err, errParse) {
		t.Fatalf("unexpected error: %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("payload errors must not open the breaker, got %s", state)
	}

	_ = b.Execute(context.Background(), func(context.Context) error { return errNetwork }, transportOnly)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after transport failure, got %s", state)
	}

	called := false
	err = b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	}, transportOnly)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open breaker to short-circuit, err=%v called=%t", err, called)
	}
}

func TestCircuitBreaker_DisabledAlwaysRuns(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), func(context.Context) error { return errors.New("down") }, nil)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("disabled breaker must stay closed, got %s", state)
	}
}
