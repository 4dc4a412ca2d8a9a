// Package results turns a solved dispatch into tabular per-step series
// and aggregate summaries.
package results

import (
	"fmt"
	"sort"

	"github.com/flexnode/dsm/core/system"
)

// Table holds aligned per-timestep series, one column per component or
// demand-side-management quantity.
type Table struct {
	Steps   int
	Columns []string

	data map[string][]float64
}

// Column returns the named series, or nil if absent.
func (t *Table) Column(name string) []float64 { return t.data[name] }

// Row returns the values of all columns at step i in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.Columns))
	for c, name := range t.Columns {
		row[c] = t.data[name][i]
	}
	return row
}

func (t *Table) add(name string, vals []float64) {
	if _, ok := t.data[name]; ok {
		panic(fmt.Sprintf("results: duplicate column %q", name))
	}
	t.Columns = append(t.Columns, name)
	t.data[name] = vals
}

// Build assembles the result table of a solved system: component flows in
// declaration order, then the demand before and after shifting, the
// shift series, their running balance and the capacity limits. Columns
// specific to a single formulation follow at the end.
func Build(s *system.System, res *system.Result) *Table {
	steps := s.Horizon.Steps
	t := &Table{Steps: steps, data: make(map[string][]float64)}

	for _, g := range s.Generators {
		t.add(g.Name, res.Flows[g.Name])
	}
	for _, r := range s.Renewables {
		t.add(r.Name, res.Flows[r.Name])
	}
	t.add("excess", res.Flows["excess"])
	t.add("shortage", res.Flows["shortage"])

	up := res.DSM["dsm_up"]
	do := res.DSM["dsm_do_shift"]
	shed := res.DSM["dsm_do_shed"]

	after := make([]float64, steps)
	base := make([]float64, steps)
	tot := make([]float64, steps)
	acum := make([]float64, steps)
	balance := 0.0
	for i := 0; i < steps; i++ {
		base[i] = s.DSM.BaseDemand(i)
		after[i] = base[i] + up[i] - do[i] - shed[i]
		tot[i] = do[i] - up[i]
		balance += tot[i]
		acum[i] = balance
	}
	t.add("demand_dsm", after)
	t.add("dsm_do_shift", do)
	t.add("dsm_do_shed", shed)
	t.add("dsm_up", up)
	t.add("dsm_tot", tot)
	t.add("dsm_acum", acum)
	t.add("demand_el", base)

	capUp, capDown := s.DSM.Capacities()
	upCap := make([]float64, steps)
	doCap := make([]float64, steps)
	for i := 0; i < steps; i++ {
		upCap[i] = capUp.At(i)
		doCap[i] = capDown.At(i)
	}
	t.add("cap_up", upCap)
	t.add("cap_do", doCap)

	var extras []string
	for name := range res.DSM {
		switch name {
		case "dsm_up", "dsm_do_shift", "dsm_do_shed":
		default:
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		t.add(name, res.DSM[name])
	}

	return t
}

// Summary aggregates a solved dispatch for comparison across variants.
type Summary struct {
	Approach  string  `json:"approach"`
	Objective float64 `json:"objective"`

	// Energy totals in capacity-hours over the horizon.
	EnergyUp      float64 `json:"energy_up"`
	EnergyDoShift float64 `json:"energy_do_shift"`
	EnergyDoShed  float64 `json:"energy_do_shed"`
	EnergyExcess  float64 `json:"energy_excess"`
	EnergyShort   float64 `json:"energy_shortage"`

	PeakBefore float64 `json:"peak_before"`
	PeakAfter  float64 `json:"peak_after"`
}

// Summarize computes aggregate figures from a built table.
func Summarize(s *system.System, res *system.Result, t *Table) Summary {
	sum := Summary{Approach: s.DSM.Approach(), Objective: res.Objective}
	inc := s.Horizon.Increment
	for i := 0; i < t.Steps; i++ {
		sum.EnergyUp += t.data["dsm_up"][i] * inc
		sum.EnergyDoShift += t.data["dsm_do_shift"][i] * inc
		sum.EnergyDoShed += t.data["dsm_do_shed"][i] * inc
		sum.EnergyExcess += t.data["excess"][i] * inc
		sum.EnergyShort += t.data["shortage"][i] * inc
		if b := t.data["demand_el"][i]; b > sum.PeakBefore {
			sum.PeakBefore = b
		}
		if a := t.data["demand_dsm"][i]; a > sum.PeakAfter {
			sum.PeakAfter = a
		}
	}
	return sum
}
