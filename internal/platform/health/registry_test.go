package health_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/platform/health"
)

func healthyCheck(desc string) func(context.Context) domain.Verdict {
	return func(context.Context) domain.Verdict {
		return domain.Healthy(desc)
	}
}

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	r := health.New(nil)
	results := r.CheckAll(context.Background())

	if results == nil {
		t.Fatal("expected non-nil map, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected empty map, got %d entries", len(results))
	}
	if got := health.Overall(results); got != domain.StateHealthy {
		t.Errorf("Overall(empty) = %q, want healthy", got)
	}
}

func TestCheckAll_CollectsVerdictsByName(t *testing.T) {
	t.Parallel()

	r := health.New(nil)
	r.Register("todo-api", healthyCheck("up"))
	r.Register("billing-api", func(context.Context) domain.Verdict {
		v := domain.Unhealthy("connection refused")
		v.Data = map[string]any{"error": "connection refused"}
		return v
	})

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["todo-api"].State != domain.StateHealthy {
		t.Errorf("todo-api = %q, want healthy", results["todo-api"].State)
	}
	if results["billing-api"].State != domain.StateUnhealthy {
		t.Errorf("billing-api = %q, want unhealthy", results["billing-api"].State)
	}
	if got := health.Overall(results); got != domain.StateUnhealthy {
		t.Errorf("Overall = %q, want unhealthy", got)
	}
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := health.New(nil)
	r.Register("ctx-check", func(ctx context.Context) domain.Verdict {
		if ctx.Err() == nil {
			t.Error("check did not receive the canceled context")
		}
		return domain.Unhealthy("canceled")
	})

	r.CheckAll(ctx)
}

func TestRegister_DuplicateNameReplaces(t *testing.T) {
	t.Parallel()

	r := health.New(nil)
	r.Register("db", healthyCheck("first"))
	r.Register("db", func(context.Context) domain.Verdict {
		return domain.Degraded("second")
	})

	results := r.CheckAll(context.Background())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results["db"].Description != "second" {
		t.Errorf("db = %q, want the last registered check to win", results["db"].Description)
	}
}

func TestOverall_DegradedBeatsHealthy(t *testing.T) {
	t.Parallel()

	results := map[string]domain.Verdict{
		"a": domain.Healthy("ok"),
		"b": domain.Degraded("slow"),
	}
	if got := health.Overall(results); got != domain.StateDegraded {
		t.Errorf("Overall = %q, want degraded", got)
	}
}

func TestRegistry_ConcurrentSafety(t *testing.T) {
	t.Parallel()

	r := health.New(nil)

	var wg sync.WaitGroup
	const goroutines = 50

	// Half the goroutines register checks, half run CheckAll.
	for i := range goroutines {
		wg.Add(1)
		if i%2 == 0 {
			go func() {
				defer wg.Done()
				r.Register("checker", healthyCheck("ok"))
			}()
		} else {
			go func() {
				defer wg.Done()
				r.CheckAll(context.Background())
			}()
		}
	}

	wg.Wait()
}
