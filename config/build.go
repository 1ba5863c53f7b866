package config

import (
	"fmt"

	"github.com/jonwraymond/bastion/health"
	"github.com/jonwraymond/bastion/observe"
	"github.com/jonwraymond/bastion/pipeline"
	"github.com/jonwraymond/bastion/policy"
)

// Artifacts holds everything materialized from a Config: the pipeline
// registry plus the breakers and bulkheads keyed by pipeline name, so they
// can be registered with health checks.
type Artifacts struct {
	Pipelines *pipeline.Registry
	Breakers  map[string]*policy.CircuitBreaker
	Bulkheads map[string]*policy.Bulkhead
}

// HealthAggregator builds an aggregator with a checker per breaker and
// bulkhead.
func (a *Artifacts) HealthAggregator() *health.Aggregator {
	agg := health.NewAggregator()
	for name, cb := range a.Breakers {
		cn := "breaker." + name
		agg.Register(cn, health.NewBreakerChecker(cn, cb))
	}
	for name, b := range a.Bulkheads {
		cn := "bulkhead." + name
		agg.Register(cn, health.NewBulkheadChecker(cn, b))
	}
	return agg
}

// BuildOption customizes pipeline materialization.
type BuildOption func(*builder)

// WithInstrument wires telemetry hooks into every built pipeline: execution
// observation, breaker transition callbacks, retry attempts, and bulkhead
// rejections.
func WithInstrument(in *observe.Instrument) BuildOption {
	return func(b *builder) { b.instrument = in }
}

type builder struct {
	instrument *observe.Instrument
}

// Build materializes all declared pipelines. Policies are constructed in the
// order written, outermost first.
func (c *Config) Build(opts ...BuildOption) (*Artifacts, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	arts := &Artifacts{
		Pipelines: pipeline.NewRegistry(),
		Breakers:  make(map[string]*policy.CircuitBreaker),
		Bulkheads: make(map[string]*policy.Bulkhead),
	}

	for _, pc := range c.Pipelines {
		policies := make([]policy.Policy, 0, len(pc.Policies))
		for _, pol := range pc.Policies {
			built, err := b.buildPolicy(pc.Name, pol, arts)
			if err != nil {
				return nil, err
			}
			policies = append(policies, built)
		}

		var popts []pipeline.Option
		if b.instrument != nil {
			popts = append(popts, pipeline.WithObserver(b.instrument))
		}
		arts.Pipelines.Register(pipeline.New(pc.Name, policies, popts...))
	}

	return arts, nil
}

func (b *builder) buildPolicy(pipelineName string, pol PolicyConfig, arts *Artifacts) (policy.Policy, error) {
	switch pol.Type {
	case TypeTimeout:
		return policy.NewTimeout(policy.TimeoutConfig{
			Timeout: pol.Timeout,
		}), nil

	case TypeRetry:
		cfg := policy.RetryConfig{
			MaxRetries: pol.MaxRetries,
			BaseDelay:  pol.BaseDelay,
			Multiplier: pol.Multiplier,
			MaxDelay:   pol.MaxDelay,
			Jitter:     pol.Jitter,
		}
		if b.instrument != nil {
			cfg.OnRetry = b.instrument.RetryObserver(pipelineName)
		}
		return policy.NewRetry(cfg), nil

	case TypeCircuitBreaker:
		cfg := policy.CircuitBreakerConfig{
			FailureRatio:      pol.FailureRatio,
			SamplingWindow:    pol.SamplingWindow,
			MinimumThroughput: pol.MinimumThroughput,
			BreakDuration:     pol.BreakDuration,
		}
		if b.instrument != nil {
			cfg.OnOpened = b.instrument.BreakerOpened(pipelineName)
			cfg.OnClosed = b.instrument.BreakerClosed(pipelineName)
			cfg.OnHalfOpened = b.instrument.BreakerHalfOpened(pipelineName)
		}
		cb := policy.NewCircuitBreaker(cfg)
		arts.Breakers[pipelineName] = cb
		return cb, nil

	case TypeBulkhead:
		cfg := policy.BulkheadConfig{
			PermitLimit: pol.PermitLimit,
			QueueLimit:  pol.QueueLimit,
		}
		if b.instrument != nil {
			cfg.OnRejected = b.instrument.BulkheadRejected(pipelineName)
		}
		bh := policy.NewBulkhead(cfg)
		arts.Bulkheads[pipelineName] = bh
		return bh, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicyType, pol.Type)
	}
}
