package dsm

import (
	"fmt"

	"github.com/flexnode/dsm/core/lp"
	"github.com/flexnode/dsm/core/model"
)

// TUD is the demand-response formulation from Ladwig (2018), as used at TU
// Dresden. A signed fictitious storage level tracks the shift balance and
// is forced back to zero at the end of every shifting interval.
type TUD struct {
	Unit

	// ShiftTimeDown is the maximum duration of a downshift process.
	ShiftTimeDown int
	// PostponeTime extends the balancing interval beyond ShiftTimeDown;
	// the interval length is ShiftTimeDown + PostponeTime.
	PostponeTime int
	// ShedTime scales the shed energy limits.
	ShedTime int

	// AnnualFrequencyShift is the admissible number of shifting cycles
	// per year, spacing the balancing intervals.
	AnnualFrequencyShift float64
	// DailyFrequencyShift scales the daily shift energy limit.
	DailyFrequencyShift float64
	// AnnualFrequencyShed scales the annual shed energy limit.
	AnnualFrequencyShed float64

	// AddLogical enables the Zerrahn & Schill style combined capacity cap.
	AddLogical bool
}

const stepsPerDay = 24

func (d *TUD) Approach() string { return "tud" }

// delayTime is the length of one balancing interval.
func (d *TUD) delayTime() int { return d.ShiftTimeDown + d.PostponeTime }

func (d *TUD) Validate(h model.Horizon) error {
	if err := d.validateCommon(); err != nil {
		return err
	}
	if d.ShiftTimeDown <= 0 {
		return fmt.Errorf("tud: shift_time_down is mandatory")
	}
	if d.AnnualFrequencyShift <= 0 {
		return fmt.Errorf("tud: annual_frequency_shift is mandatory")
	}
	if d.DailyFrequencyShift <= 0 {
		return fmt.Errorf("tud: daily_frequency_shift is mandatory")
	}
	if d.ShedEligible && (d.ShedTime <= 0 || d.AnnualFrequencyShed <= 0) {
		return fmt.Errorf("tud: shed_time and annual_frequency_shed are mandatory for shed-eligible units")
	}
	return nil
}

func (d *TUD) Build(m *lp.Model, h model.Horizon) error {
	if err := d.Validate(h); err != nil {
		return err
	}

	for t := 0; t < h.Steps; t++ {
		up, do, shed := vkey("dsm_up", t), vkey("dsm_do_shift", t), vkey("dsm_do_shed", t)
		m.AddVar(up)
		m.AddVar(do)
		m.AddVar(shed)
		m.AddFreeVar(vkey("dsm_sl", t))
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

	// Equation 4.23: downshift availability, shedding competes.
	for t := 0; t < h.Steps; t++ {
		expr := lp.NewExpr().Add(vkey("dsm_do_shift", t), 1).Add(vkey("dsm_do_shed", t), 1)
		m.AddConstraint(fmt.Sprintf("tud_availability_down[%d]", t), expr, lp.LessEq, d.CapacityDown.At(t))
	}

	// Equation 4.28: storage level transition.
	for t := 0; t < h.Steps; t++ {
		expr := lp.NewExpr().
			Add(vkey("dsm_sl", t), 1).
			Add(vkey("dsm_up", t), -1).
			Add(vkey("dsm_do_shift", t), 1)
		if t > 0 {
			expr.Add(vkey("dsm_sl", t-1), -1)
		}
		m.AddConstraint(fmt.Sprintf("tud_storage_level[%d]", t), expr, lp.Equal, 0)
	}

	// Equations 4.29/4.30: the level is zeroed at the start of each
	// balancing interval and beyond the last one.
	zeroed := make(map[int]bool)
	span := d.delayTime()
	last := 0
	for t := 0; t < int(d.AnnualFrequencyShift*float64(span)) && t < h.Steps; t += span + 1 {
		zeroed[t] = true
		last = t
	}
	for t := last; t < h.Steps; t++ {
		zeroed[t] = true
	}
	for t := 0; t < h.Steps; t++ {
		if !zeroed[t] {
			continue
		}
		m.AddConstraint(fmt.Sprintf("tud_storage_balanced[%d]", t),
			lp.NewExpr().Add(vkey("dsm_sl", t), 1), lp.Equal, 0)
	}

	// Equations 4.31/4.32: daily shift energy limit.
	for day := 0; day < h.Steps; day += stepsPerDay {
		end := mini(h.Last(), day+stepsPerDay-1)
		expr := lp.NewExpr()
		demand := 0.0
		for t := day; t <= end; t++ {
			expr.Add(vkey("dsm_do_shift", t), h.Increment)
			demand += d.Demand.At(t)
		}
		rhs := demand / stepsPerDay * float64(d.ShiftTimeDown) * d.DailyFrequencyShift
		m.AddConstraint(fmt.Sprintf("tud_day_limit[%d]", day), expr, lp.LessEq, rhs)
	}

	// Equation 4.33: downshift depends on the remaining capacity left by
	// the previous step's downshift.
	for t := 1; t < h.Steps; t++ {
		expr := lp.NewExpr().
			Add(vkey("dsm_do_shift", t), 1).
			Add(vkey("dsm_do_shift", t-1), 1)
		m.AddConstraint(fmt.Sprintf("tud_down_limit[%d]", t), expr, lp.LessEq, d.CapacityDown.At(t-1))
	}

	if d.ShedEligible {
		maxCapDown := d.CapacityDown.Max(h.Steps)

		// Equation 4.34: annual shed energy limit.
		expr := lp.NewExpr()
		for t := 0; t < h.Steps; t++ {
			expr.Add(vkey("dsm_do_shed", t), h.Increment)
		}
		m.AddConstraint("tud_shed_limit_year", expr, lp.LessEq,
			d.AnnualFrequencyShed*float64(d.ShedTime)*maxCapDown)

		// Equation 4.35: daily shed energy limit.
		for day := 0; day < h.Steps; day += stepsPerDay {
			end := mini(h.Last(), day+stepsPerDay-1)
			expr := lp.NewExpr()
			capDay := 0.0
			for t := day; t <= end; t++ {
				expr.Add(vkey("dsm_do_shed", t), h.Increment)
				capDay = maxf(capDay, d.CapacityDown.At(t))
			}
			m.AddConstraint(fmt.Sprintf("tud_shed_limit_day[%d]", day), expr, lp.LessEq,
				float64(d.ShedTime)*capDay)
		}
	}

	if d.AddLogical {
		for t := 0; t < h.Steps; t++ {
			expr := lp.NewExpr().
				Add(vkey("dsm_do_shift", t), 1).
				Add(vkey("dsm_up", t), 1).
				Add(vkey("dsm_do_shed", t), 1)
			m.AddConstraint(fmt.Sprintf("tud_logic[%d]", t), expr, lp.LessEq,
				maxf(d.Demand.At(t), d.CapacityUp.At(t)-d.Demand.At(t)))
		}
	}

	return nil
}

func (d *TUD) ConsumptionTerms(_ model.Horizon, t int, expr lp.Expr) {
	expr.Add(vkey("dsm_up", t), 1)
	expr.Add(vkey("dsm_do_shift", t), -1)
	expr.Add(vkey("dsm_do_shed", t), -1)
}

func (d *TUD) Extract(sol *lp.Solution, h model.Horizon) map[string][]float64 {
	up := make([]float64, h.Steps)
	do := make([]float64, h.Steps)
	shed := make([]float64, h.Steps)
	sl := make([]float64, h.Steps)
	for t := 0; t < h.Steps; t++ {
		up[t] = sol.Value(vkey("dsm_up", t))
		do[t] = sol.Value(vkey("dsm_do_shift", t))
		shed[t] = sol.Value(vkey("dsm_do_shed", t))
		sl[t] = sol.Value(vkey("dsm_sl", t))
	}
	return map[string][]float64{
		"dsm_up":       up,
		"dsm_do_shift": do,
		"dsm_do_shed":  shed,
		"dsm_sl":       sl,
	}
}
