package health

import (
	"context"
	"errors"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/jonwraymond/bastion/policy"
)

var errBoom = errors.New("boom")

func newOpenableBreaker(t *testing.T) (*policy.CircuitBreaker, *testingclock.FakeClock) {
	t.Helper()
	fc := testingclock.NewFakeClock(time.Now())
	cb := policy.NewCircuitBreaker(policy.CircuitBreakerConfig{
		FailureRatio:      0.5,
		SamplingWindow:    10 * time.Second,
		MinimumThroughput: 3,
		BreakDuration:     30 * time.Second,
		Clock:             fc,
	})
	return cb, fc
}

func tripBreaker(t *testing.T, cb *policy.CircuitBreaker) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := cb.Execute(ctx, func(ctx context.Context) error { return errBoom }); err != errBoom {
			t.Fatalf("Execute() error = %v, want %v", err, errBoom)
		}
	}
	if cb.State() != policy.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}
}

func TestBreakerChecker_ClosedIsHealthy(t *testing.T) {
	cb, _ := newOpenableBreaker(t)
	check := NewBreakerChecker("breaker.predict", cb)

	if check.Name() != "breaker.predict" {
		t.Errorf("Name() = %q, want breaker.predict", check.Name())
	}

	result := check.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
	if result.Details["state"] != "closed" {
		t.Errorf("state detail = %v, want closed", result.Details["state"])
	}
}

func TestBreakerChecker_OpenIsUnhealthy(t *testing.T) {
	cb, _ := newOpenableBreaker(t)
	tripBreaker(t, cb)

	result := NewBreakerChecker("breaker.predict", cb).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if !errors.Is(result.Error, policy.ErrCircuitOpen) {
		t.Errorf("Error = %v, want ErrCircuitOpen", result.Error)
	}
	if _, ok := result.Details["opened_at"]; !ok {
		t.Error("opened_at detail missing on open circuit")
	}
}

func TestBreakerChecker_HalfOpenIsDegraded(t *testing.T) {
	cb, fc := newOpenableBreaker(t)
	tripBreaker(t, cb)

	fc.Step(31 * time.Second)

	// Hold the recovery probe in flight so the half-open state is observable.
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(context.Background(), func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	result := NewBreakerChecker("breaker.predict", cb).Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", result.Status)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("probe error = %v, want nil", err)
	}
}

func TestBreakerChecker_CheckDoesNotMutate(t *testing.T) {
	cb, fc := newOpenableBreaker(t)
	tripBreaker(t, cb)

	// Even after the break duration, a status probe must not start recovery.
	fc.Step(31 * time.Second)

	check := NewBreakerChecker("breaker.predict", cb)
	for i := 0; i < 3; i++ {
		if result := check.Check(context.Background()); result.Status != StatusUnhealthy {
			t.Fatalf("check %d: Status = %v, want unhealthy", i, result.Status)
		}
	}
	if cb.State() != policy.StateOpen {
		t.Errorf("state = %v, want open after status-only probes", cb.State())
	}
}

func TestBreakerChecker_CancelledContext(t *testing.T) {
	cb, _ := newOpenableBreaker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewBreakerChecker("breaker.predict", cb).Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy on cancelled context", result.Status)
	}
}
