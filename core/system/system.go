// Package system composes a single-bus energy system around one
// demand-side-management unit and solves its cost-minimal dispatch.
package system

import (
	"fmt"

	"github.com/flexnode/dsm/core/dsm"
	"github.com/flexnode/dsm/core/lp"
	"github.com/flexnode/dsm/core/model"
)

// Generator is a dispatchable plant on the bus.
type Generator struct {
	Name     string
	Capacity model.Sequence
	Cost     float64
}

// Renewable is a non-dispatchable source feeding in a fixed profile.
type Renewable struct {
	Name    string
	Profile model.Sequence
}

// System is a single-bus dispatch problem. Shortage and excess keep the
// bus balance feasible at the configured penalty costs.
type System struct {
	Name    string
	Horizon model.Horizon

	Generators []Generator
	Renewables []Renewable

	ShortageCost float64
	ExcessCost   float64

	DSM dsm.Formulation
}

// Result is a solved dispatch: per-component flow series, the
// demand-side-management series of the attached formulation and the
// objective value.
type Result struct {
	Objective float64
	Flows     map[string][]float64
	DSM       map[string][]float64
	Vars      int
}

func (s *System) Validate() error {
	if err := s.Horizon.Validate(); err != nil {
		return fmt.Errorf("system %s: %w", s.Name, err)
	}
	if s.DSM == nil {
		return fmt.Errorf("system %s: no dsm unit attached", s.Name)
	}
	if s.ShortageCost <= 0 {
		return fmt.Errorf("system %s: shortage cost must be positive", s.Name)
	}
	seen := map[string]bool{"shortage": true, "excess": true}
	for _, g := range s.Generators {
		if seen[g.Name] {
			return fmt.Errorf("system %s: duplicate component %q", s.Name, g.Name)
		}
		seen[g.Name] = true
	}
	for _, r := range s.Renewables {
		if seen[r.Name] {
			return fmt.Errorf("system %s: duplicate component %q", s.Name, r.Name)
		}
		seen[r.Name] = true
	}
	return s.DSM.Validate(s.Horizon)
}

// Compile builds the linear program: generator, shortage and excess
// variables, the formulation's variables and constraints, and the bus
// balance equality per step.
func (s *System) Compile() (*lp.Model, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m := lp.NewModel()
	h := s.Horizon

	for t := 0; t < h.Steps; t++ {
		for _, g := range s.Generators {
			v := flowKey(g.Name, t)
			m.AddVar(v)
			m.SetUpper(v, g.Capacity.At(t))
			m.AddCost(v, g.Cost*h.Increment)
		}
		sh, ex := flowKey("shortage", t), flowKey("excess", t)
		m.AddVar(sh)
		m.AddVar(ex)
		m.AddCost(sh, s.ShortageCost*h.Increment)
		m.AddCost(ex, s.ExcessCost*h.Increment)
	}

	if err := s.DSM.Build(m, h); err != nil {
		return nil, fmt.Errorf("system %s: %w", s.Name, err)
	}

	// Bus balance: generation + renewables + shortage - excess equals the
	// effective consumption of the DSM unit.
	for t := 0; t < h.Steps; t++ {
		expr := lp.NewExpr().
			Add(flowKey("shortage", t), 1).
			Add(flowKey("excess", t), -1)
		for _, g := range s.Generators {
			expr.Add(flowKey(g.Name, t), 1)
		}
		cons := lp.NewExpr()
		s.DSM.ConsumptionTerms(h, t, cons)
		for name, coef := range cons {
			expr.Add(name, -coef)
		}
		rhs := s.DSM.BaseDemand(t)
		for _, r := range s.Renewables {
			rhs -= r.Profile.At(t)
		}
		m.AddConstraint(fmt.Sprintf("bus_balance[%d]", t), expr, lp.Equal, rhs)
	}

	return m, nil
}

// Solve compiles and solves the system.
func (s *System) Solve() (*Result, error) {
	m, err := s.Compile()
	if err != nil {
		return nil, err
	}
	sol, err := m.Solve()
	if err != nil {
		return nil, fmt.Errorf("system %s: %w", s.Name, err)
	}

	h := s.Horizon
	res := &Result{
		Objective: sol.Objective,
		Flows:     make(map[string][]float64),
		DSM:       s.DSM.Extract(sol, h),
		Vars:      m.NumVars(),
	}
	for _, g := range s.Generators {
		res.Flows[g.Name] = series(sol, g.Name, h.Steps)
	}
	for _, r := range s.Renewables {
		vals := make([]float64, h.Steps)
		for t := 0; t < h.Steps; t++ {
			vals[t] = r.Profile.At(t)
		}
		res.Flows[r.Name] = vals
	}
	res.Flows["shortage"] = series(sol, "shortage", h.Steps)
	res.Flows["excess"] = series(sol, "excess", h.Steps)
	return res, nil
}

func flowKey(name string, t int) string {
	return fmt.Sprintf("flow_%s[%d]", name, t)
}

func series(sol *lp.Solution, name string, steps int) []float64 {
	vals := make([]float64, steps)
	for t := 0; t < steps; t++ {
		vals[t] = sol.Value(flowKey(name, t))
	}
	return vals
}
