package fallback

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonwraymond/bastion/cache"
)

// CachedConfig configures a Cached handler.
type CachedConfig struct {
	// Class is the operation class the results belong to, e.g. "predict".
	Class string

	// TTL bounds how long a recorded result stays servable.
	// Default: 5m
	TTL time.Duration

	// Store holds the recorded results.
	// Default: cache.NewMemory()
	Store cache.Store

	// Keyer derives store keys from inputs.
	// Default: cache.NewDefaultKeyer()
	Keyer cache.Keyer
}

// Cached serves the last known good result recorded for the same input,
// falling through to an inner handler on a miss. Record is cheap enough to
// call on every pipeline success; lookups never fail, they only miss.
type Cached[T any] struct {
	config CachedConfig
	miss   Handler[T]
}

// NewCached creates a last-known-good handler. miss supplies the substitute
// when no recorded result is available.
func NewCached[T any](config CachedConfig, miss Handler[T]) *Cached[T] {
	if config.Class == "" {
		config.Class = "default"
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.Store == nil {
		config.Store = cache.NewMemory()
	}
	if config.Keyer == nil {
		config.Keyer = cache.NewDefaultKeyer()
	}
	return &Cached[T]{config: config, miss: miss}
}

// Record stores a successful primary result for input. Serialization
// failures are swallowed: recording is best-effort and must never interfere
// with delivering the primary result.
func (c *Cached[T]) Record(ctx context.Context, input any, value T) {
	key, err := c.config.Keyer.Key(c.config.Class, input)
	if err != nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.config.Store.Set(ctx, key, encoded, c.config.TTL)
}

// Fallback implements Handler. It serves the recorded result for input when
// one exists and still decodes; otherwise it delegates to the miss handler.
func (c *Cached[T]) Fallback(ctx context.Context, input any) T {
	key, err := c.config.Keyer.Key(c.config.Class, input)
	if err != nil {
		return c.miss.Fallback(ctx, input)
	}

	encoded, ok := c.config.Store.Get(ctx, key)
	if !ok {
		return c.miss.Fallback(ctx, input)
	}

	var value T
	if err := json.Unmarshal(encoded, &value); err != nil {
		return c.miss.Fallback(ctx, input)
	}
	return value
}

// Ensure Cached implements Handler.
var _ Handler[string] = (*Cached[string])(nil)
