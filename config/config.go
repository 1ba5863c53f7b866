// Package config loads pipeline definitions from YAML and materializes them
// into runnable pipelines, breakers, and bulkheads.
//
// Environment variables referenced as ${VAR} in the file are required and
// expanded before parsing; a .env file in the working directory is loaded
// first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/bastion/observe"
)

// Policy type names accepted in YAML.
const (
	TypeTimeout        = "timeout"
	TypeRetry          = "retry"
	TypeCircuitBreaker = "circuit_breaker"
	TypeBulkhead       = "bulkhead"
)

var (
	// ErrNoPipelines indicates the config declares no pipelines.
	ErrNoPipelines = errors.New("config: no pipelines defined")

	// ErrDuplicatePipeline indicates two pipelines share a name.
	ErrDuplicatePipeline = errors.New("config: duplicate pipeline name")

	// ErrDuplicatePolicy indicates a pipeline declares the same policy type twice.
	ErrDuplicatePolicy = errors.New("config: duplicate policy type in pipeline")

	// ErrUnknownPolicyType indicates an unrecognized policy type.
	ErrUnknownPolicyType = errors.New("config: unknown policy type")

	// ErrMissingPipelineName indicates a pipeline without a name.
	ErrMissingPipelineName = errors.New("config: pipeline name is required")
)

// Config is the top-level configuration.
type Config struct {
	Service   ServiceConfig    `yaml:"service"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Pipelines []PipelineConfig `yaml:"pipelines"`
}

// ServiceConfig identifies the service for telemetry.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// TelemetryConfig mirrors the observe package configuration.
type TelemetryConfig struct {
	Tracing struct {
		Enabled   bool    `yaml:"enabled"`
		Exporter  string  `yaml:"exporter"`
		SamplePct float64 `yaml:"sample_pct"`
	} `yaml:"tracing"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
	} `yaml:"metrics"`
	Logging struct {
		Enabled bool   `yaml:"enabled"`
		Level   string `yaml:"level"`
	} `yaml:"logging"`
}

// PipelineConfig declares one named pipeline. Policies apply outermost first,
// in the order written.
type PipelineConfig struct {
	Name     string         `yaml:"name"`
	Policies []PolicyConfig `yaml:"policies"`
}

// PolicyConfig declares a single policy. Type selects which of the remaining
// fields apply.
type PolicyConfig struct {
	Type string `yaml:"type"`

	// timeout
	Timeout time.Duration `yaml:"timeout"`

	// retry
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	Multiplier float64       `yaml:"multiplier"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	Jitter     bool          `yaml:"jitter"`

	// circuit_breaker
	FailureRatio      float64       `yaml:"failure_ratio"`
	SamplingWindow    time.Duration `yaml:"sampling_window"`
	MinimumThroughput int           `yaml:"minimum_throughput"`
	BreakDuration     time.Duration `yaml:"break_duration"`

	// bulkhead
	PermitLimit int `yaml:"permit_limit"`
	QueueLimit  int `yaml:"queue_limit"`
}

// ObserveConfig converts the telemetry section into an observe.Config.
func (c *Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Service.Name,
		Version:     c.Service.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Telemetry.Tracing.Enabled,
			Exporter:  c.Telemetry.Tracing.Exporter,
			SamplePct: c.Telemetry.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Telemetry.Metrics.Enabled,
			Exporter: c.Telemetry.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Telemetry.Logging.Enabled,
			Level:   c.Telemetry.Logging.Level,
		},
	}
}

// Validate checks structural constraints. Policy parameter defaults are
// applied later by the policy constructors, so zero values are legal here.
func (c *Config) Validate() error {
	if len(c.Pipelines) == 0 {
		return ErrNoPipelines
	}

	seen := make(map[string]struct{}, len(c.Pipelines))
	for _, p := range c.Pipelines {
		if p.Name == "" {
			return ErrMissingPipelineName
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicatePipeline, p.Name)
		}
		seen[p.Name] = struct{}{}

		types := make(map[string]struct{}, len(p.Policies))
		for _, pol := range p.Policies {
			switch pol.Type {
			case TypeTimeout, TypeRetry, TypeCircuitBreaker, TypeBulkhead:
			default:
				return fmt.Errorf("%w: %q in pipeline %q", ErrUnknownPolicyType, pol.Type, p.Name)
			}
			if _, dup := types[pol.Type]; dup {
				return fmt.Errorf("%w: %q in pipeline %q", ErrDuplicatePolicy, pol.Type, p.Name)
			}
			types[pol.Type] = struct{}{}
		}
	}
	return nil
}
