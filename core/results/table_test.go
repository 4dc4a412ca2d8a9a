package results

import (
	"math"
	"testing"

	"github.com/flexnode/dsm/core/dsm"
	"github.com/flexnode/dsm/core/model"
	"github.com/flexnode/dsm/core/system"
)

func solvedToy(t *testing.T) (*system.System, *system.Result) {
	t.Helper()
	s := &system.System{
		Name:    "table",
		Horizon: model.Horizon{Steps: 4, Increment: 1},
		Generators: []system.Generator{
			{Name: "coal1", Capacity: model.Scalar(100), Cost: 10},
		},
		Renewables: []system.Renewable{
			{Name: "wind", Profile: model.Scalar(20)},
		},
		ShortageCost: 1000,
		DSM: &dsm.DIW{
			Unit: dsm.Unit{
				Name:          "demand_dsm",
				Demand:        model.Series([]float64{90, 130, 90, 90}),
				CapacityUp:    model.Scalar(30),
				CapacityDown:  model.Scalar(30),
				CostUp:        1,
				CostDownShift: 1,
				ShiftEligible: true,
			},
			Method:    dsm.DIWDelay,
			DelayTime: 1,
		},
	}
	res, err := s.Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return s, res
}

func TestBuildTableColumns(t *testing.T) {
	s, res := solvedToy(t)
	table := Build(s, res)

	want := []string{
		"coal1", "wind", "excess", "shortage",
		"demand_dsm", "dsm_do_shift", "dsm_do_shed", "dsm_up",
		"dsm_tot", "dsm_acum", "demand_el", "cap_up", "cap_do",
	}
	if len(table.Columns) != len(want) {
		t.Fatalf("columns = %v", table.Columns)
	}
	for i, name := range want {
		if table.Columns[i] != name {
			t.Fatalf("column %d = %q, want %q", i, table.Columns[i], name)
		}
	}
	if table.Steps != 4 {
		t.Fatalf("steps = %d", table.Steps)
	}
}

func TestTableDerivedSeries(t *testing.T) {
	s, res := solvedToy(t)
	table := Build(s, res)

	up := table.Column("dsm_up")
	do := table.Column("dsm_do_shift")
	after := table.Column("demand_dsm")
	tot := table.Column("dsm_tot")
	acum := table.Column("dsm_acum")

	balance := 0.0
	for i := 0; i < table.Steps; i++ {
		if math.Abs(after[i]-(s.DSM.BaseDemand(i)+up[i]-do[i])) > 1e-9 {
			t.Fatalf("demand_dsm wrong at step %d", i)
		}
		if math.Abs(tot[i]-(do[i]-up[i])) > 1e-9 {
			t.Fatalf("dsm_tot wrong at step %d", i)
		}
		balance += tot[i]
		if math.Abs(acum[i]-balance) > 1e-9 {
			t.Fatalf("dsm_acum wrong at step %d", i)
		}
	}
	if caps := table.Column("cap_up"); caps[0] != 30 {
		t.Fatalf("cap_up = %g", caps[0])
	}
}

func TestSummarize(t *testing.T) {
	s, res := solvedToy(t)
	table := Build(s, res)
	sum := Summarize(s, res, table)

	if sum.Approach != "diw-delay" {
		t.Fatalf("approach = %q", sum.Approach)
	}
	if sum.Objective != res.Objective {
		t.Fatalf("objective mismatch")
	}
	// Peak demand 130 is lowered to the 120 MW supply limit.
	if sum.PeakBefore != 130 {
		t.Fatalf("peak before = %g", sum.PeakBefore)
	}
	if sum.PeakAfter > 120+1e-6 {
		t.Fatalf("peak after = %g", sum.PeakAfter)
	}
	if math.Abs(sum.EnergyUp-sum.EnergyDoShift) > 1e-6 {
		t.Fatalf("shift energies unbalanced: up=%g do=%g", sum.EnergyUp, sum.EnergyDoShift)
	}
}
