package scenario

import (
	"context"
	"sync"
	"testing"

	"github.com/flexnode/dsm/core/metrics"
)

// recordingSink captures solve events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []metrics.SolveEvent
}

func (s *recordingSink) RecordSolve(ev metrics.SolveEvent) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func TestRunnerRun(t *testing.T) {
	sink := &recordingSink{}
	r := NewRunner(testConfig(), ".", sink)
	defer r.Close()
	ch := r.Events()

	out, err := r.Run(context.Background(), "diw-delay")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Approach != "diw-delay" || out.RunID == "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Table == nil || out.Table.Steps != 6 {
		t.Fatalf("missing table")
	}
	if out.Summary.Objective != out.Result.Objective {
		t.Fatalf("summary objective mismatch")
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Approach != "diw-delay" || ev.Scenario != "toy" || ev.Err != "" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Objective != out.Result.Objective {
		t.Fatalf("event objective mismatch")
	}

	select {
	case got := <-ch:
		if got.RunID != ev.RunID {
			t.Fatalf("bus event mismatch: %+v", got)
		}
	default:
		t.Fatal("no event published on bus")
	}
}

func TestRunnerCompareAllVariants(t *testing.T) {
	sink := &recordingSink{}
	r := NewRunner(testConfig(), ".", sink)
	defer r.Close()

	outs, err := r.Compare(context.Background(), nil)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(outs) != len(Approaches()) {
		t.Fatalf("expected %d outcomes, got %d", len(Approaches()), len(outs))
	}
	seen := map[string]bool{}
	for _, out := range outs {
		if seen[out.Approach] {
			t.Fatalf("duplicate approach %s", out.Approach)
		}
		seen[out.Approach] = true
		// Every variant can resolve the 10 MW peak deficit by shifting
		// or shedding, so no shortage energy remains.
		if out.Summary.EnergyShort > 1e-6 {
			t.Fatalf("%s: unexpected shortage %g", out.Approach, out.Summary.EnergyShort)
		}
	}
	if len(sink.events) != len(Approaches()) {
		t.Fatalf("expected %d events, got %d", len(Approaches()), len(sink.events))
	}
}

func TestRunnerRunCancelled(t *testing.T) {
	r := NewRunner(testConfig(), ".", nil)
	defer r.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, "dlr"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRunnerUnknownApproach(t *testing.T) {
	r := NewRunner(testConfig(), ".", nil)
	defer r.Close()
	if _, err := r.Run(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown approach")
	}
}
