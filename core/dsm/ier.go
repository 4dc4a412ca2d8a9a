package dsm

import (
	"fmt"

	"github.com/flexnode/dsm/core/lp"
	"github.com/flexnode/dsm/core/model"
)

// IER is the demand-side-integration formulation from Steurer (2017), as
// used at IER Stuttgart. Shifts are balanced over rolling forward windows
// of DelayTime steps; per-cycle and cumulative energy limits bound the
// shifted and shedded energy.
type IER struct {
	Unit

	// DelayTime is the length of the rolling balancing window.
	DelayTime int
	// ShiftTimeUp/ShiftTimeDown are the maximum durations of one
	// shifting cycle per direction, scaling the per-cycle energy limits.
	ShiftTimeUp   int
	ShiftTimeDown int
	// ShedTime is the window and scale of the shedding energy limit.
	ShedTime int
	// CumulativeShiftTime/CumulativeShedTime bound the energy shifted
	// resp. shedded over the whole horizon, in full-capacity hours.
	CumulativeShiftTime float64
	CumulativeShedTime  float64
	// AddLogical enables the Zerrahn & Schill style combined capacity cap.
	AddLogical bool
}

func (d *IER) Approach() string { return "ier" }

func (d *IER) Validate(h model.Horizon) error {
	if err := d.validateCommon(); err != nil {
		return err
	}
	if d.DelayTime <= 0 {
		return fmt.Errorf("ier: delay_time is mandatory")
	}
	if d.ShiftTimeUp <= 0 || d.ShiftTimeDown <= 0 {
		return fmt.Errorf("ier: shift_time_up and shift_time_down are mandatory")
	}
	if d.ShedEligible && d.ShedTime <= 0 {
		return fmt.Errorf("ier: shed_time is mandatory for shed-eligible units")
	}
	return nil
}

func (d *IER) Build(m *lp.Model, h model.Horizon) error {
	if err := d.Validate(h); err != nil {
		return err
	}

	for t := 0; t < h.Steps; t++ {
		up, do, shed := vkey("dsm_up", t), vkey("dsm_do_shift", t), vkey("dsm_do_shed", t)
		m.AddVar(up)
		m.AddVar(do)
		m.AddVar(shed)
		m.SetUpper(up, d.CapacityUp.At(t))
		if !d.ShiftEligible {
			m.SetUpper(do, 0)
		}
		if !d.ShedEligible {
			m.SetUpper(shed, 0)
		}
		m.AddCost(up, d.CostUp)
		m.AddCost(do, d.CostDownShift)
		m.AddCost(shed, d.CostDownShed)
	}

	maxCapDown := d.CapacityDown.Max(h.Steps)
	maxCapUp := d.CapacityUp.Max(h.Steps)

	// Equation 4-2: downshift availability, shedding competes.
	for t := 0; t < h.Steps; t++ {
		expr := lp.NewExpr().Add(vkey("dsm_do_shift", t), 1).Add(vkey("dsm_do_shed", t), 1)
		m.AddConstraint(fmt.Sprintf("ier_availability_down[%d]", t), expr, lp.LessEq, d.CapacityDown.At(t))
	}

	// Equation 4-4: rolling energy balance over the forward window.
	for t := 0; t < h.Steps; t++ {
		end := mini(h.Last(), t+d.DelayTime)
		expr := lp.NewExpr()
		for tt := t; tt <= end; tt++ {
			expr.Add(vkey("dsm_do_shift", tt), 1)
			expr.Add(vkey("dsm_up", tt), -d.eff())
		}
		m.AddConstraint(fmt.Sprintf("ier_energy_balance[%d]", t), expr, lp.Equal, 0)
	}

	// Equation 4-5: per-cycle energy limits, shortened tail windows.
	for t := 0; t < h.Steps; t++ {
		end := mini(h.Last(), t+d.DelayTime)
		down := lp.NewExpr()
		up := lp.NewExpr()
		for tt := t; tt <= end; tt++ {
			down.Add(vkey("dsm_do_shift", tt), h.Increment)
			up.Add(vkey("dsm_up", tt), h.Increment)
		}
		downTime, upTime := d.ShiftTimeDown, d.ShiftTimeUp
		if t > h.Last()-d.DelayTime {
			downTime = mini(downTime, h.Last()-t+1)
			upTime = mini(upTime, h.Last()-t+1)
		}
		m.AddConstraint(fmt.Sprintf("ier_shifting_limit_down[%d]", t), down, lp.LessEq,
			float64(downTime)*maxCapDown)
		m.AddConstraint(fmt.Sprintf("ier_shifting_limit_up[%d]", t), up, lp.LessEq,
			float64(upTime)*maxCapUp)
	}

	// Equation 4-5': shedding energy limit over shed_time windows.
	if d.ShedEligible {
		for t := 0; t < h.Steps; t++ {
			end := mini(h.Last(), t+d.ShedTime)
			expr := lp.NewExpr()
			for tt := t; tt <= end; tt++ {
				expr.Add(vkey("dsm_do_shed", tt), h.Increment)
			}
			shedTime := d.ShedTime
			if t > h.Last()-d.ShedTime {
				shedTime = mini(shedTime, h.Last()-t+1)
			}
			m.AddConstraint(fmt.Sprintf("ier_shedding_limit[%d]", t), expr, lp.LessEq,
				float64(shedTime)*maxCapDown)
		}
	}

	// Equation 4-6: cumulative limits over the whole horizon. One
	// constraint per horizon instead of the per-timestep repetition in
	// Steurer (2017), which would be redundant.
	cumDown := lp.NewExpr()
	cumUp := lp.NewExpr()
	cumShed := lp.NewExpr()
	for t := 0; t < h.Steps; t++ {
		cumDown.Add(vkey("dsm_do_shift", t), h.Increment)
		cumUp.Add(vkey("dsm_up", t), 1)
		cumShed.Add(vkey("dsm_do_shed", t), h.Increment)
	}
	m.AddConstraint("ier_overall_limit_down", cumDown, lp.LessEq, d.CumulativeShiftTime*maxCapDown)
	m.AddConstraint("ier_overall_limit_up", cumUp, lp.LessEq, d.CumulativeShiftTime*maxCapUp)
	if d.ShedEligible {
		m.AddConstraint("ier_overall_limit_shed", cumShed, lp.LessEq, d.CumulativeShedTime*maxCapDown)
	}

	if d.AddLogical {
		for t := 0; t < h.Steps; t++ {
			expr := lp.NewExpr().
				Add(vkey("dsm_do_shift", t), 1).
				Add(vkey("dsm_up", t), 1).
				Add(vkey("dsm_do_shed", t), 1)
			m.AddConstraint(fmt.Sprintf("ier_logic[%d]", t), expr, lp.LessEq,
				maxf(d.CapacityDown.At(t), d.CapacityUp.At(t)))
		}
	}

	return nil
}

func (d *IER) ConsumptionTerms(_ model.Horizon, t int, expr lp.Expr) {
	expr.Add(vkey("dsm_up", t), 1)
	expr.Add(vkey("dsm_do_shift", t), -1)
	expr.Add(vkey("dsm_do_shed", t), -1)
}

func (d *IER) Extract(sol *lp.Solution, h model.Horizon) map[string][]float64 {
	up := make([]float64, h.Steps)
	do := make([]float64, h.Steps)
	shed := make([]float64, h.Steps)
	for t := 0; t < h.Steps; t++ {
		up[t] = sol.Value(vkey("dsm_up", t))
		do[t] = sol.Value(vkey("dsm_do_shift", t))
		shed[t] = sol.Value(vkey("dsm_do_shed", t))
	}
	return map[string][]float64{
		"dsm_up":       up,
		"dsm_do_shift": do,
		"dsm_do_shed":  shed,
	}
}
