package fallback

import (
	"context"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/jonwraymond/bastion/cache"
)

type prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func TestCached_ServesLastKnownGood(t *testing.T) {
	miss := Static[prediction]{Value: prediction{Label: "unknown"}}
	c := NewCached[prediction](CachedConfig{Class: "predict"}, miss)
	ctx := context.Background()

	input := map[string]any{"text": "great service"}
	c.Record(ctx, input, prediction{Label: "positive", Confidence: 0.93})

	got := c.Fallback(ctx, input)
	if got.Label != "positive" || got.Confidence != 0.93 {
		t.Errorf("Fallback() = %+v, want recorded result", got)
	}
}

func TestCached_MissDelegates(t *testing.T) {
	miss := Static[prediction]{Value: prediction{Label: "unknown"}}
	c := NewCached[prediction](CachedConfig{Class: "predict"}, miss)

	got := c.Fallback(context.Background(), map[string]any{"text": "never seen"})
	if got.Label != "unknown" {
		t.Errorf("Fallback() on miss = %+v, want miss handler value", got)
	}
}

func TestCached_DistinctInputsDistinctResults(t *testing.T) {
	miss := Static[prediction]{Value: prediction{Label: "unknown"}}
	c := NewCached[prediction](CachedConfig{Class: "predict"}, miss)
	ctx := context.Background()

	c.Record(ctx, map[string]any{"text": "great"}, prediction{Label: "positive"})
	c.Record(ctx, map[string]any{"text": "awful"}, prediction{Label: "negative"})

	if got := c.Fallback(ctx, map[string]any{"text": "great"}); got.Label != "positive" {
		t.Errorf("Fallback(great) = %+v", got)
	}
	if got := c.Fallback(ctx, map[string]any{"text": "awful"}); got.Label != "negative" {
		t.Errorf("Fallback(awful) = %+v", got)
	}
}

func TestCached_TTLExpiry(t *testing.T) {
	fc := testingclock.NewFakeClock(time.Now())
	store := cache.NewMemory(cache.MemoryConfig{Clock: fc})
	miss := Static[prediction]{Value: prediction{Label: "unknown"}}
	c := NewCached[prediction](CachedConfig{
		Class: "predict",
		TTL:   time.Minute,
		Store: store,
	}, miss)
	ctx := context.Background()

	input := map[string]any{"text": "great"}
	c.Record(ctx, input, prediction{Label: "positive"})

	fc.Step(2 * time.Minute)
	if got := c.Fallback(ctx, input); got.Label != "unknown" {
		t.Errorf("Fallback() after TTL = %+v, want miss handler value", got)
	}
}

func TestCached_UnserializableInputDelegates(t *testing.T) {
	miss := Static[string]{Value: "fallthrough"}
	c := NewCached[string](CachedConfig{Class: "predict"}, miss)

	if got := c.Fallback(context.Background(), func() {}); got != "fallthrough" {
		t.Errorf("Fallback(unserializable) = %q, want miss handler value", got)
	}
}
