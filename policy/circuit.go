package policy

import (
	"context"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// BreakerState represents the circuit breaker state.
type BreakerState int

const (
	// StateClosed means calls pass through and outcomes are recorded.
	StateClosed BreakerState = iota
	// StateOpen means calls fail immediately with ErrCircuitOpen.
	StateOpen
	// StateHalfOpen means exactly one probe call is allowed through.
	StateHalfOpen
)

// String returns the state name.
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureRatio is the failure fraction (0.0-1.0] at which the circuit
	// opens, evaluated over the sampling window.
	// Default: 0.5
	FailureRatio float64

	// SamplingWindow is the trailing duration over which outcomes count
	// toward the failure ratio.
	// Default: 30s
	SamplingWindow time.Duration

	// MinimumThroughput is the minimum number of outcomes that must be in
	// the window before the ratio is acted on. Below it the circuit stays
	// closed no matter how bad the ratio looks.
	// Default: 10
	MinimumThroughput int

	// BreakDuration is how long the circuit stays open before the next
	// call is let through as a half-open probe.
	// Default: 30s
	BreakDuration time.Duration

	// IsFailure decides whether an error counts against the window.
	// Default: every non-nil error except cancellation.
	IsFailure func(err error) bool

	// OnOpened fires once per Closed->Open or HalfOpen->Open transition
	// with the configured break duration.
	OnOpened func(breakDuration time.Duration)

	// OnClosed fires once per HalfOpen->Closed transition.
	OnClosed func()

	// OnHalfOpened fires once per Open->HalfOpen transition.
	OnHalfOpened func()

	// Clock supplies current time; injectable for deterministic tests.
	// Default: clock.RealClock{}
	Clock clock.Clock
}

// outcomeRecord is one completed attempt in the sliding window. Records are
// appended in completion order, so insertion order is time order.
type outcomeRecord struct {
	at      time.Time
	success bool
}

// CircuitBreaker short-circuits calls to an operation whose recent failure
// ratio crossed the configured threshold.
//
// All state lives behind one mutex: the current state, the sliding window of
// outcome records, and the timestamp the circuit last opened. Transitions
// happen lazily on calls; there is no background timer. Observer callbacks
// run synchronously inside the transition, so they must not call back into
// the breaker.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu         sync.Mutex
	state      BreakerState
	window     []outcomeRecord
	openedAt   time.Time
	probing    bool // a half-open probe is in flight
	rejections int64
}

// NewCircuitBreaker creates a circuit breaker, applying defaults for zero
// fields.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureRatio <= 0 || config.FailureRatio > 1 {
		config.FailureRatio = 0.5
	}
	if config.SamplingWindow <= 0 {
		config.SamplingWindow = 30 * time.Second
	}
	if config.MinimumThroughput <= 0 {
		config.MinimumThroughput = 10
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return err != nil && KindOf(err) != KindCancelled
		}
	}
	if config.Clock == nil {
		config.Clock = clock.RealClock{}
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Name implements Policy.
func (cb *CircuitBreaker) Name() string { return "circuit-breaker" }

// Execute runs op through the circuit breaker. While open it fails fast with
// ErrCircuitOpen without invoking op or touching the window; otherwise the
// outcome is recorded and transitions are evaluated before returning.
func (cb *CircuitBreaker) Execute(ctx context.Context, op Operation) error {
	probe, err := cb.allow()
	if err != nil {
		return err
	}

	err = op(ctx)
	cb.record(err, probe)
	return err
}

// allow admits or rejects a call, performing the lazy Open->HalfOpen
// transition when the break duration has elapsed. The probe result reports
// whether the call was admitted as the half-open probe; only that call's
// outcome may decide the half-open verdict.
func (cb *CircuitBreaker) allow() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return false, nil

	case StateOpen:
		if cb.config.Clock.Since(cb.openedAt) < cb.config.BreakDuration {
			cb.rejections++
			return false, ErrCircuitOpen
		}
		// Break elapsed: this caller becomes the half-open probe.
		cb.state = StateHalfOpen
		cb.probing = true
		if cb.config.OnHalfOpened != nil {
			cb.config.OnHalfOpened()
		}
		return true, nil

	case StateHalfOpen:
		if cb.probing {
			// Only one probe at a time; everyone else is treated as open.
			cb.rejections++
			return false, ErrCircuitOpen
		}
		cb.probing = true
		return true, nil
	}
	return false, nil
}

// record appends the outcome and evaluates transitions. probe marks the call
// that was admitted as the half-open probe; a closed-era call that outlives
// the break and completes during half-open must not pass for the verdict.
func (cb *CircuitBreaker) record(err error, probe bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.config.Clock.Now()

	if err != nil && KindOf(err) == KindCancelled {
		// An abandoned call is neither a success nor a failure. If it was
		// the half-open probe, free the probe slot for the next caller.
		if probe {
			cb.probing = false
		}
		return
	}

	failed := cb.config.IsFailure(err)

	if probe {
		cb.probing = false
		if failed {
			cb.open(now)
		} else {
			cb.close()
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.window = append(cb.window, outcomeRecord{at: now, success: !failed})
		cb.prune(now)
		total, failures := cb.tally(now)
		if total >= cb.config.MinimumThroughput &&
			float64(failures)/float64(total) >= cb.config.FailureRatio {
			cb.open(now)
		}

	case StateHalfOpen, StateOpen:
		// A call admitted while closed completed after the circuit opened.
		// The window it belonged to is already condemned; drop the outcome.
	}
}

// open transitions to Open and restarts the break timer.
func (cb *CircuitBreaker) open(now time.Time) {
	cb.state = StateOpen
	cb.openedAt = now
	cb.probing = false
	if cb.config.OnOpened != nil {
		cb.config.OnOpened(cb.config.BreakDuration)
	}
}

// close transitions to Closed and resets the failure window.
func (cb *CircuitBreaker) close() {
	cb.state = StateClosed
	cb.window = nil
	if cb.config.OnClosed != nil {
		cb.config.OnClosed()
	}
}

// prune drops records older than the sampling window.
func (cb *CircuitBreaker) prune(now time.Time) {
	cutoff := now.Add(-cb.config.SamplingWindow)
	i := 0
	for i < len(cb.window) && !cb.window[i].at.After(cutoff) {
		i++
	}
	if i > 0 {
		cb.window = append(cb.window[:0], cb.window[i:]...)
	}
}

// tally counts live records without mutating the window.
func (cb *CircuitBreaker) tally(now time.Time) (total, failures int) {
	cutoff := now.Add(-cb.config.SamplingWindow)
	for _, rec := range cb.window {
		if rec.at.After(cutoff) {
			total++
			if !rec.success {
				failures++
			}
		}
	}
	return total, failures
}

// BreakerStatus is a read-only snapshot of the breaker for diagnostics.
type BreakerStatus struct {
	State             BreakerState
	FailureRatio      float64
	SamplingWindow    time.Duration
	MinimumThroughput int
	BreakDuration     time.Duration
	WindowTotal       int
	WindowFailures    int
	Rejections        int64
	OpenedAt          time.Time // zero until the circuit first opens
}

// Status reports the current state and configured thresholds. It never
// mutates the breaker: the lazy Open->HalfOpen transition only happens on
// the next admitted call, so Status may still report open after the break
// duration has elapsed.
func (cb *CircuitBreaker) Status() BreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	total, failures := cb.tally(cb.config.Clock.Now())
	return BreakerStatus{
		State:             cb.state,
		FailureRatio:      cb.config.FailureRatio,
		SamplingWindow:    cb.config.SamplingWindow,
		MinimumThroughput: cb.config.MinimumThroughput,
		BreakDuration:     cb.config.BreakDuration,
		WindowTotal:       total,
		WindowFailures:    failures,
		Rejections:        cb.rejections,
		OpenedAt:          cb.openedAt,
	}
}

// State returns the current state without mutating the breaker.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Ensure CircuitBreaker implements Policy.
var _ Policy = (*CircuitBreaker)(nil)
