// Package dsm implements the demand-side-management formulation variants
// compared by this toolkit. Each variant attaches its variables, constraints
// and activity costs to a linear program built by core/system, following the
// published formulation it is named after:
//
//   - DIW: Zerrahn & Schill (2015), interval and delay methods
//   - DLR: Gils (2015), delay classes with explicit balancing
//   - IER: Steurer (2017), rolling energy balances
//   - TUD: Ladwig (2018), fictitious storage level
package dsm

import (
	"fmt"

	"github.com/flexnode/dsm/core/lp"
	"github.com/flexnode/dsm/core/model"
)

// Formulation is a demand-response variant that can be attached to an
// energy-system model. Implementations are configured structs; Build adds
// their variables, constraints and cost terms.
type Formulation interface {
	// Approach identifies the variant, e.g. "diw-delay".
	Approach() string
	Validate(h model.Horizon) error
	Build(m *lp.Model, h model.Horizon) error
	// ConsumptionTerms adds the variable terms of the effective
	// consumption at step t to expr: upshifts enter positive, downshifts
	// and shedding negative. The constant part is BaseDemand(t).
	ConsumptionTerms(h model.Horizon, t int, expr lp.Expr)
	Label() string
	BaseDemand(t int) float64
	// Capacities returns the installed up- and downshift capacities.
	Capacities() (up, down model.Sequence)
	// Extract returns the per-timestep DSM series of the solved model.
	// Every variant provides "dsm_up", "dsm_do_shift" and "dsm_do_shed";
	// some add variant-specific columns.
	Extract(sol *lp.Solution, h model.Horizon) map[string][]float64
}

// Unit carries the parameters every formulation shares.
type Unit struct {
	Name         string
	Demand       model.Sequence
	CapacityUp   model.Sequence
	CapacityDown model.Sequence

	CostUp        float64
	CostDownShift float64
	CostDownShed  float64

	// Efficiency of a load shift, between 0 and 1. Zero means unset and
	// is treated as 1.
	Efficiency float64

	ShiftEligible bool
	ShedEligible  bool
}

func (u Unit) eff() float64 {
	if u.Efficiency == 0 {
		return 1
	}
	return u.Efficiency
}

func (u Unit) validateCommon() error {
	if !u.ShiftEligible && !u.ShedEligible {
		return fmt.Errorf("dsm unit %s: at least one of shift and shed eligibility must be set", u.Name)
	}
	if u.Efficiency < 0 || u.Efficiency > 1 {
		return fmt.Errorf("dsm unit %s: efficiency must be within (0, 1], got %g", u.Name, u.Efficiency)
	}
	return nil
}

// BaseDemand returns the original demand before DSM at step t.
func (u Unit) BaseDemand(t int) float64 { return u.Demand.At(t) }

func (u Unit) Label() string { return u.Name }

func (u Unit) Capacities() (up, down model.Sequence) {
	return u.CapacityUp, u.CapacityDown
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// vkey builds a variable name like "dsm_up[3]" or "dsm_do_shift[2,5]".
func vkey(name string, idx ...int) string {
	switch len(idx) {
	case 1:
		return fmt.Sprintf("%s[%d]", name, idx[0])
	case 2:
		return fmt.Sprintf("%s[%d,%d]", name, idx[0], idx[1])
	}
	panic("dsm: vkey needs one or two indices")
}
