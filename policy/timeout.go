package policy

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout policy.
type TimeoutConfig struct {
	// Timeout is the wall-clock bound for a single execution attempt.
	// Default: 30s
	Timeout time.Duration
}

// Timeout bounds the wall-clock duration of one execution attempt.
//
// When the deadline fires first the attempt is abandoned, not stopped: the
// operation keeps running in the background until it observes the cancelled
// context, and its eventual result is discarded. Operations that ignore ctx
// therefore leak a goroutine for as long as they keep running.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout policy, applying defaults for zero fields.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Name implements Policy.
func (t *Timeout) Name() string { return "timeout" }

// Execute races op against the deadline. The deadline winning yields
// ErrTimeout; the parent context being cancelled yields ctx.Err() so that
// caller abandonment stays distinguishable from a timeout.
func (t *Timeout) Execute(ctx context.Context, op Operation) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// Ensure Timeout implements Policy.
var _ Policy = (*Timeout)(nil)
