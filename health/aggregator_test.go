package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func staticChecker(name string, result Result) Checker {
	return Named(name, func(ctx context.Context) Result { return result })
}

func TestAggregator_RegisterAndNames(t *testing.T) {
	agg := NewAggregator()
	agg.Register("a", staticChecker("a", Healthy("ok")))
	agg.Register("b", staticChecker("b", Healthy("ok")))
	agg.Register("a", staticChecker("a", Degraded("replaced"))) // replace keeps order

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("CheckerNames() = %v, want [a b]", names)
	}

	agg.Unregister("a")
	names = agg.CheckerNames()
	if len(names) != 1 || names[0] != "b" {
		t.Errorf("after Unregister, CheckerNames() = %v, want [b]", names)
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	agg := NewAggregator()
	if _, err := agg.Check(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()
	agg.Register("ok", staticChecker("ok", Healthy("fine")))
	agg.Register("meh", staticChecker("meh", Degraded("slow")))
	agg.Register("bad", staticChecker("bad", Unhealthy("down", errors.New("down"))))

	results := agg.CheckAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results["ok"].Status != StatusHealthy {
		t.Errorf("ok status = %v", results["ok"].Status)
	}
	if results["bad"].Status != StatusUnhealthy {
		t.Errorf("bad status = %v", results["bad"].Status)
	}
}

func TestAggregator_CheckAllParallel(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 5 * time.Second})

	var inFlight, peak int32
	slow := func(ctx context.Context) Result {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return Healthy("ok")
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		agg.Register(name, Named(name, slow))
	}

	start := time.Now()
	results := agg.CheckAll(context.Background())
	elapsed := time.Since(start)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if atomic.LoadInt32(&peak) < 2 {
		t.Errorf("peak concurrency = %d, want >= 2", peak)
	}
	if elapsed > time.Second {
		t.Errorf("CheckAll took %v, checks did not run in parallel", elapsed)
	}
}

func TestAggregator_TimeoutMarksUnhealthy(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register("stuck", Named("stuck", func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(100 * time.Millisecond)
		return Healthy("too late")
	}))

	results := agg.CheckAll(context.Background())
	result := results["stuck"]
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy on timeout", result.Status)
	}
	if !errors.Is(result.Error, ErrCheckTimeout) {
		t.Errorf("Error = %v, want ErrCheckTimeout", result.Error)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()

	cases := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", map[string]Result{}, StatusHealthy},
		{"all healthy", map[string]Result{"a": Healthy("")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy(""), "b": Degraded("")}, StatusDegraded},
		{"unhealthy dominates", map[string]Result{
			"a": Healthy(""), "b": Degraded(""), "c": Unhealthy("", nil),
		}, StatusUnhealthy},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := agg.OverallStatus(c.results); got != c.want {
				t.Errorf("OverallStatus() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAggregator_AsChecker(t *testing.T) {
	inner := NewAggregator()
	inner.Register("ok", staticChecker("ok", Healthy("fine")))
	inner.Register("meh", staticChecker("meh", Degraded("slow")))

	outer := NewAggregator()
	outer.Register("group", inner.Checker())

	results := outer.CheckAll(context.Background())
	group := results["group"]
	if group.Status != StatusDegraded {
		t.Errorf("nested status = %v, want degraded", group.Status)
	}
	if _, ok := group.Details["meh"]; !ok {
		t.Error("nested details missing inner checker")
	}
}
