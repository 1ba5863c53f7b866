package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/bastion/policy"
)

// ExecObserver receives a synchronous notification after every Execute call.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: observers must not panic; err is nil on success.
type ExecObserver interface {
	OnExecution(ctx context.Context, pipeline, execID string, duration time.Duration, err error)
}

// Option configures a Pipeline at build time.
type Option func(*Pipeline)

// WithObserver attaches an execution observer. Observers are invoked in
// registration order after each Execute, on the caller's goroutine.
func WithObserver(obs ExecObserver) Option {
	return func(p *Pipeline) {
		p.observers = append(p.observers, obs)
	}
}

// Pipeline is an ordered, immutable chain of policies around an operation.
// Build one per operation class at startup and share it; all methods are
// safe for concurrent use.
type Pipeline struct {
	name      string
	policies  []policy.Policy
	observers []ExecObserver
}

// New builds a pipeline that applies policies outermost first, in the order
// given. The policy slice is copied; the pipeline never changes afterward.
func New(name string, policies []policy.Policy, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:     name,
		policies: append([]policy.Policy(nil), policies...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Policies returns the policy names in application order, outermost first.
func (p *Pipeline) Policies() []string {
	names := make([]string, len(p.policies))
	for i, pol := range p.policies {
		names[i] = pol.Name()
	}
	return names
}

// Execute runs op under every policy in the chain. Each policy's Execute
// calls the next policy's Execute, terminating at op. The returned error is
// classified by policy.KindOf.
func (p *Pipeline) Execute(ctx context.Context, op policy.Operation) error {
	execute := op
	for i := len(p.policies) - 1; i >= 0; i-- {
		pol := p.policies[i]
		inner := execute
		execute = func(ctx context.Context) error {
			return pol.Execute(ctx, inner)
		}
	}

	if len(p.observers) == 0 {
		return execute(ctx)
	}

	execID := uuid.NewString()
	start := time.Now()
	err := execute(ctx)
	elapsed := time.Since(start)
	for _, obs := range p.observers {
		obs.OnExecution(ctx, p.name, execID, elapsed, err)
	}
	return err
}

// Run executes a value-returning operation through p. On failure the zero
// value is returned alongside the error.
//
// The result is stored through an atomic pointer so that an attempt
// abandoned by a Timeout policy, which may finish in the background, never
// races the caller; a late result is simply dropped.
func Run[T any](ctx context.Context, p *Pipeline, fn func(ctx context.Context) (T, error)) (T, error) {
	var out atomic.Pointer[T]

	err := p.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out.Store(&v)
		return nil
	})

	var zero T
	if err != nil {
		return zero, err
	}
	if v := out.Load(); v != nil {
		return *v, nil
	}
	return zero, nil
}
