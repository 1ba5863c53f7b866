package fallback

import (
	"context"

	"github.com/jonwraymond/bastion/policy"
)

// Handler produces a conservative substitute result from the same input the
// primary operation would have received.
//
// Contract:
// - Purity: no side effects, no calls to the protected operation.
// - Latency: sub-millisecond; a handler must never block.
// - Errors: a handler cannot fail; it always returns a usable value.
type Handler[T any] interface {
	Fallback(ctx context.Context, input any) T
}

// Func adapts an ordinary function to a Handler.
type Func[T any] func(ctx context.Context, input any) T

// Fallback implements Handler.
func (f Func[T]) Fallback(ctx context.Context, input any) T {
	return f(ctx, input)
}

// Static is a Handler returning a fixed value regardless of input.
type Static[T any] struct {
	Value T
}

// Fallback implements Handler.
func (s Static[T]) Fallback(ctx context.Context, input any) T {
	return s.Value
}

// DefaultDegradable is the set of failure kinds Resolve degrades on when
// none are given. Bulkhead rejections are excluded: shedding exists to apply
// back-pressure, and masking it with a degraded success defeats that.
// Cancellations are excluded because the caller is gone.
var DefaultDegradable = []policy.Kind{
	policy.KindOperationFailed,
	policy.KindCircuitOpen,
	policy.KindTimeout,
}

// Resolve decides whether err warrants a degraded result. When the failure
// kind is in kinds (or DefaultDegradable when kinds is empty) it returns
// (h.Fallback(...), true); otherwise the zero value and false, signalling
// the caller to surface the failure as-is.
func Resolve[T any](ctx context.Context, input any, err error, h Handler[T], kinds ...policy.Kind) (T, bool) {
	var zero T
	if err == nil || h == nil {
		return zero, false
	}

	if len(kinds) == 0 {
		kinds = DefaultDegradable
	}
	got := policy.KindOf(err)
	for _, k := range kinds {
		if got == k {
			return h.Fallback(ctx, input), true
		}
	}
	return zero, false
}
