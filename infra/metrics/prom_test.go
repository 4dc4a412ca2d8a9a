package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/flexnode/dsm/core/metrics"
)

func TestPromSinkRecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	ev := coremetrics.SolveEvent{
		RunID:     "r1",
		Scenario:  "toy",
		Approach:  "dlr",
		Objective: 123.4,
		Duration:  50 * time.Millisecond,
		Time:      time.Now(),
	}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	ev.Err = "infeasible"
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record error event: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{"dsm_solves_total", "dsm_solve_duration_seconds", "dsm_solve_objective"} {
		if !names[want] {
			t.Fatalf("metric %s not registered", want)
		}
	}
}

func TestPromSinkReRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	// A second sink on the same registry reuses the existing collectors.
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second: %v", err)
	}
}

func TestSinkFactoryRegistrations(t *testing.T) {
	sink, err := coremetrics.NewSink(nil)
	if err != nil {
		t.Fatalf("empty sink: %v", err)
	}
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", sink)
	}
}
