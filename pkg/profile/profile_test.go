package profile

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{Seed: 42, Days: 2}
	a := Generate(cfg)
	b := Generate(cfg)
	if len(a.Demand) != 48 {
		t.Fatalf("expected 48 steps, got %d", len(a.Demand))
	}
	for i := range a.Demand {
		if a.Demand[i] != b.Demand[i] || a.Wind[i] != b.Wind[i] || a.PV[i] != b.PV[i] {
			t.Fatalf("same seed produced different values at step %d", i)
		}
	}
}

func TestGenerateBounds(t *testing.T) {
	cfg := Config{Seed: 7, Days: 3, WindCapacity: 50, PVCapacity: 30}
	p := Generate(cfg)
	for i := range p.Demand {
		if p.Demand[i] <= 0 {
			t.Fatalf("nonpositive demand at step %d", i)
		}
		if p.Wind[i] < 0 || p.Wind[i] > 50 {
			t.Fatalf("wind out of bounds at step %d: %g", i, p.Wind[i])
		}
		hour := i % 24
		if (hour < 6 || hour > 18) && p.PV[i] != 0 {
			t.Fatalf("pv at night, step %d: %g", i, p.PV[i])
		}
	}
}

func TestWriteCSV(t *testing.T) {
	p := Generate(Config{Seed: 1, Days: 1})
	var buf bytes.Buffer
	if err := p.WriteCSV(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 25 {
		t.Fatalf("expected 25 lines, got %d", len(lines))
	}
	if lines[0] != "demand_el,wind,pv" {
		t.Fatalf("unexpected header %q", lines[0])
	}
}
