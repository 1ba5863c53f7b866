package policy

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"k8s.io/utils/clock"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of re-invocations after the initial attempt,
	// so an operation runs at most MaxRetries+1 times.
	// Default: 3
	MaxRetries int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// Multiplier is the exponential backoff multiplier: the delay before
	// retry k (1-based) is BaseDelay * Multiplier^(k-1).
	// Default: 2.0
	Multiplier float64

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Jitter adds up to 25% randomness to each delay to spread out
	// synchronized retries. Leave false when delays must be exact.
	// Default: false
	Jitter bool

	// RetryIf determines whether an error is worth another attempt.
	// Default: retry only KindOperationFailed. Interceptions from other
	// policies (circuit open, timeout, bulkhead rejection) and cancellation
	// are never retried by default; composition order, not cross-policy
	// retry, decides which failures get a second chance.
	RetryIf func(err error) bool

	// OnRetry is invoked synchronously before each re-invocation with the
	// retry number (1-based), the error that triggered it, and the delay
	// that was waited.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Clock supplies delay timers; injectable for deterministic tests.
	// Default: clock.RealClock{}
	Clock clock.Clock
}

// Retry re-invokes a failed operation with exponential backoff.
//
// Retries are strictly sequential within one Execute call. The worst-case
// added latency is the sum of the backoff series: with MaxRetries=3,
// BaseDelay=1s, Multiplier=2 the delays are 1s, 2s, 4s, so a permanently
// failing operation costs 4 attempts plus 7s of waiting. Retry enforces no
// deadline of its own; wrap it in a Timeout policy to bound total latency.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry policy, applying defaults for zero fields.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool {
			return KindOf(err) == KindOperationFailed
		}
	}
	if config.Clock == nil {
		config.Clock = clock.RealClock{}
	}
	return &Retry{config: config}
}

// Name implements Policy.
func (r *Retry) Name() string { return "retry" }

// Execute runs op, re-invoking it on failure until it succeeds, the retry
// budget is spent, or the context is cancelled. The last failure is returned
// unchanged; Retry never synthesizes an error kind of its own.
func (r *Retry) Execute(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt >= r.config.MaxRetries {
			break
		}

		delay := r.delayFor(attempt)
		timer := r.config.Clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C():
		}
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, err, delay)
		}
	}

	return lastErr
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

// delayFor computes the backoff before retry attempt+1 (attempt is 0-based).
func (r *Retry) delayFor(attempt int) time.Duration {
	backoff := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt))
	delay := time.Duration(backoff)
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter {
		if j := int64(delay / 4); j > 0 {
			// #nosec G404 -- jitter is non-cryptographic timing variance.
			delay += time.Duration(rand.Int64N(j))
		}
	}
	return delay
}

// Ensure Retry implements Policy.
var _ Policy = (*Retry)(nil)
