package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/bastion/policy"
)

func TestStatic(t *testing.T) {
	h := Static[string]{Value: "neutral"}

	if got := h.Fallback(context.Background(), "any input"); got != "neutral" {
		t.Errorf("Fallback() = %q, want %q", got, "neutral")
	}
}

func TestFunc(t *testing.T) {
	h := Func[int](func(ctx context.Context, input any) int {
		return len(input.(string))
	})

	if got := h.Fallback(context.Background(), "hello"); got != 5 {
		t.Errorf("Fallback() = %d, want 5", got)
	}
}

func TestResolve_DefaultKinds(t *testing.T) {
	h := Static[string]{Value: "degraded"}
	ctx := context.Background()

	tests := []struct {
		name        string
		err         error
		wantDegrade bool
	}{
		{"operation failure", errors.New("model exploded"), true},
		{"circuit open", policy.ErrCircuitOpen, true},
		{"timeout", policy.ErrTimeout, true},
		{"bulkhead rejection", policy.ErrBulkheadRejected, false},
		{"cancellation", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve[string](ctx, "input", tt.err, h)
			if ok != tt.wantDegrade {
				t.Fatalf("Resolve() degraded = %v, want %v", ok, tt.wantDegrade)
			}
			if ok && got != "degraded" {
				t.Errorf("Resolve() = %q, want %q", got, "degraded")
			}
		})
	}
}

func TestResolve_NilError(t *testing.T) {
	h := Static[string]{Value: "degraded"}

	if _, ok := Resolve[string](context.Background(), "input", nil, h); ok {
		t.Error("Resolve(nil error) degraded, want passthrough")
	}
}

func TestResolve_ExplicitKinds(t *testing.T) {
	h := Static[string]{Value: "degraded"}
	ctx := context.Background()

	// Only circuit_open degrades when kinds are explicit.
	if _, ok := Resolve[string](ctx, "in", errors.New("op failed"), h, policy.KindCircuitOpen); ok {
		t.Error("Resolve() degraded operation failure, want only circuit_open")
	}
	if _, ok := Resolve[string](ctx, "in", policy.ErrCircuitOpen, h, policy.KindCircuitOpen); !ok {
		t.Error("Resolve() did not degrade circuit_open")
	}
}
