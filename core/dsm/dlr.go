package dsm

import (
	"fmt"

	"github.com/flexnode/dsm/core/lp"
	"github.com/flexnode/dsm/core/model"
)

// DLR is the demand-response formulation from Gils (2015), as used at DLR.
// Shifts are split into delay classes h = 1..DelayTime; every class h shift
// is balanced exactly h steps later by an explicit balancing variable.
// Fictitious storage levels track the unbalanced energy per direction.
type DLR struct {
	Unit

	// DelayTime spans the delay classes 1..DelayTime.
	DelayTime int
	// ShiftTime is the maximum duration of one shifting process, scaling
	// the storage level limits and the optional yearly and day limits.
	ShiftTime int
	// ShedTime scales the yearly shed limit.
	ShedTime int

	// YearLimitShifts/YearLimitSheds are the admissible number of
	// full-capacity activations per year (n_yearLimit in Gils 2015).
	YearLimitShifts float64
	YearLimitSheds  float64
	// DayLimitSpan is the lookback of the rolling day limit in steps.
	DayLimitSpan int

	ActivateYearLimit bool
	ActivateDayLimit  bool
	// AddLogical enables the Zerrahn & Schill style combined capacity cap.
	AddLogical bool
	// FixUncompensatable forces shifts that could no longer be balanced
	// before the end of the horizon to zero.
	FixUncompensatable bool
}

func (d *DLR) Approach() string { return "dlr" }

func (d *DLR) Validate(h model.Horizon) error {
	if err := d.validateCommon(); err != nil {
		return err
	}
	if d.DelayTime <= 0 {
		return fmt.Errorf("dlr: delay_time is mandatory")
	}
	if d.ShiftTime <= 0 {
		return fmt.Errorf("dlr: shift_time is mandatory")
	}
	if d.ShedEligible && d.YearLimitSheds == 0 {
		return fmt.Errorf("dlr: year_limit_sheds is mandatory for shed-eligible units")
	}
	if d.ActivateYearLimit && d.YearLimitShifts == 0 {
		return fmt.Errorf("dlr: year_limit_shifts is mandatory when the year limit is active")
	}
	if d.ActivateDayLimit && d.DayLimitSpan <= 0 {
		return fmt.Errorf("dlr: day_limit_span is mandatory when the day limit is active")
	}
	return nil
}

func (d *DLR) Build(m *lp.Model, h model.Horizon) error {
	if err := d.Validate(h); err != nil {
		return err
	}

	for t := 0; t < h.Steps; t++ {
		shed := vkey("dsm_do_shed", t)
		m.AddVar(shed)
		if !d.ShedEligible {
			m.SetUpper(shed, 0)
		}
		m.AddCost(shed, d.CostDownShed)

		for hh := 1; hh <= d.DelayTime; hh++ {
			up := vkey("dsm_up", hh, t)
			do := vkey("dsm_do_shift", hh, t)
			balUp := vkey("balance_dsm_up", hh, t)
			balDo := vkey("balance_dsm_do", hh, t)
			m.AddVar(up)
			m.AddVar(do)
			m.AddVar(balUp)
			m.AddVar(balDo)
			if !d.ShiftEligible {
				m.SetUpper(do, 0)
			}
			if d.FixUncompensatable && t > h.Last()-hh {
				m.SetUpper(do, 0)
				m.SetUpper(up, 0)
			}
			// Balancing carries the cost of the direction it shifts in.
			m.AddCost(up, d.CostUp)
			m.AddCost(balDo, d.CostUp)
			m.AddCost(do, d.CostDownShift)
			m.AddCost(balUp, d.CostDownShift)
		}

		m.AddVar(vkey("dsm_up_level", t))
		m.AddVar(vkey("dsm_do_level", t))
	}

	capDownMean := d.CapacityDown.Mean(h.Steps)
	capUpMean := d.CapacityUp.Mean(h.Steps)

	for t := 0; t < h.Steps; t++ {
		for hh := 1; hh <= d.DelayTime; hh++ {
			balUp := vkey("balance_dsm_up", hh, t)
			balDo := vkey("balance_dsm_do", hh, t)
			if !d.ShiftEligible {
				m.SetUpper(balUp, 0)
				m.SetUpper(balDo, 0)
				continue
			}
			// Class h shifts are balanced exactly h steps later; a
			// balancing variable before step h has nothing to balance.
			switch {
			case t >= hh:
				m.AddConstraint(fmt.Sprintf("dlr_balance_red[%d,%d]", hh, t),
					lp.NewExpr().Add(balDo, 1).Add(vkey("dsm_do_shift", hh, t-hh), -1/d.eff()),
					lp.Equal, 0)
				m.AddConstraint(fmt.Sprintf("dlr_balance_inc[%d,%d]", hh, t),
					lp.NewExpr().Add(balUp, 1).Add(vkey("dsm_up", hh, t-hh), -d.eff()),
					lp.Equal, 0)
			case t == 0:
				m.SetUpper(balUp, 0)
				m.SetUpper(balDo, 0)
			}
		}
	}

	// Availability caps: balancing an upshift is itself a load reduction
	// and vice versa.
	for t := 0; t < h.Steps; t++ {
		red := lp.NewExpr().Add(vkey("dsm_do_shed", t), 1)
		inc := lp.NewExpr()
		for hh := 1; hh <= d.DelayTime; hh++ {
			red.Add(vkey("dsm_do_shift", hh, t), 1)
			red.Add(vkey("balance_dsm_up", hh, t), 1)
			inc.Add(vkey("dsm_up", hh, t), 1)
			inc.Add(vkey("balance_dsm_do", hh, t), 1)
		}
		m.AddConstraint(fmt.Sprintf("dlr_availability_red[%d]", t), red, lp.LessEq, d.CapacityDown.At(t))
		m.AddConstraint(fmt.Sprintf("dlr_availability_inc[%d]", t), inc, lp.LessEq, d.CapacityUp.At(t))
	}

	// Storage level transitions and caps.
	for t := 0; t < h.Steps; t++ {
		red := lp.NewExpr().Add(vkey("dsm_do_level", t), -1)
		inc := lp.NewExpr().Add(vkey("dsm_up_level", t), -1)
		if t > 0 {
			red.Add(vkey("dsm_do_level", t-1), 1)
			inc.Add(vkey("dsm_up_level", t-1), 1)
			for hh := 1; hh <= d.DelayTime; hh++ {
				red.Add(vkey("dsm_do_shift", hh, t), h.Increment)
				red.Add(vkey("balance_dsm_do", hh, t), -h.Increment*d.eff())
				inc.Add(vkey("dsm_up", hh, t), h.Increment*d.eff())
				inc.Add(vkey("balance_dsm_up", hh, t), -h.Increment)
			}
		} else {
			for hh := 1; hh <= d.DelayTime; hh++ {
				red.Add(vkey("dsm_do_shift", hh, t), h.Increment)
				inc.Add(vkey("dsm_up", hh, t), h.Increment)
			}
		}
		m.AddConstraint(fmt.Sprintf("dlr_storage_red[%d]", t), red, lp.Equal, 0)
		m.AddConstraint(fmt.Sprintf("dlr_storage_inc[%d]", t), inc, lp.Equal, 0)

		m.SetUpper(vkey("dsm_do_level", t), capDownMean*float64(d.ShiftTime))
		m.SetUpper(vkey("dsm_up_level", t), capUpMean*float64(d.ShiftTime))
	}

	// Yearly shed limit is mandatory to keep the variant comparable to
	// the others.
	if d.ShedEligible {
		expr := lp.NewExpr()
		for t := 0; t < h.Steps; t++ {
			expr.Add(vkey("dsm_do_shed", t), 1)
		}
		m.AddConstraint("dlr_yearly_limit_shed", expr, lp.LessEq,
			capDownMean*float64(d.ShedTime)*d.YearLimitSheds)
	}

	if d.ActivateYearLimit {
		red := lp.NewExpr()
		inc := lp.NewExpr()
		for t := 0; t < h.Steps; t++ {
			for hh := 1; hh <= d.DelayTime; hh++ {
				red.Add(vkey("dsm_do_shift", hh, t), 1)
				inc.Add(vkey("dsm_up", hh, t), 1)
			}
		}
		m.AddConstraint("dlr_yearly_limit_red", red, lp.LessEq,
			capDownMean*float64(d.ShiftTime)*d.YearLimitShifts)
		m.AddConstraint("dlr_yearly_limit_inc", inc, lp.LessEq,
			capUpMean*float64(d.ShiftTime)*d.YearLimitShifts)
	}

	// Rolling limit against back-to-back activations.
	if d.ActivateDayLimit {
		for t := d.DayLimitSpan; t < h.Steps; t++ {
			red := lp.NewExpr()
			inc := lp.NewExpr()
			for back := 0; back <= d.DayLimitSpan; back++ {
				for hh := 1; hh <= d.DelayTime; hh++ {
					red.Add(vkey("dsm_do_shift", hh, t-back), 1)
					inc.Add(vkey("dsm_up", hh, t-back), 1)
				}
			}
			m.AddConstraint(fmt.Sprintf("dlr_daily_limit_red[%d]", t), red, lp.LessEq,
				capDownMean*float64(d.ShiftTime))
			m.AddConstraint(fmt.Sprintf("dlr_daily_limit_inc[%d]", t), inc, lp.LessEq,
				capUpMean*float64(d.ShiftTime))
		}
	}

	if d.AddLogical {
		for t := 0; t < h.Steps; t++ {
			expr := lp.NewExpr().Add(vkey("dsm_do_shed", t), 1)
			for hh := 1; hh <= d.DelayTime; hh++ {
				expr.Add(vkey("dsm_up", hh, t), 1)
				expr.Add(vkey("balance_dsm_do", hh, t), 1)
				expr.Add(vkey("dsm_do_shift", hh, t), 1)
				expr.Add(vkey("balance_dsm_up", hh, t), 1)
			}
			m.AddConstraint(fmt.Sprintf("dlr_logical[%d]", t), expr, lp.LessEq,
				maxf(d.CapacityDown.At(t), d.CapacityUp.At(t)))
		}
	}

	return nil
}

func (d *DLR) ConsumptionTerms(h model.Horizon, t int, expr lp.Expr) {
	for hh := 1; hh <= d.DelayTime; hh++ {
		expr.Add(vkey("dsm_up", hh, t), 1)
		expr.Add(vkey("balance_dsm_do", hh, t), 1)
		expr.Add(vkey("dsm_do_shift", hh, t), -1)
		expr.Add(vkey("balance_dsm_up", hh, t), -1)
	}
	expr.Add(vkey("dsm_do_shed", t), -1)
}

func (d *DLR) Extract(sol *lp.Solution, h model.Horizon) map[string][]float64 {
	cols := map[string][]float64{}
	for _, name := range []string{
		"dsm_up", "dsm_do_shift", "dsm_do_shed",
		"dsm_up_orig", "dsm_do_orig", "balance_dsm_up", "balance_dsm_do",
		"dsm_level_up", "dsm_level_do",
	} {
		cols[name] = make([]float64, h.Steps)
	}
	for t := 0; t < h.Steps; t++ {
		for hh := 1; hh <= d.DelayTime; hh++ {
			up := sol.Value(vkey("dsm_up", hh, t))
			do := sol.Value(vkey("dsm_do_shift", hh, t))
			balUp := sol.Value(vkey("balance_dsm_up", hh, t))
			balDo := sol.Value(vkey("balance_dsm_do", hh, t))
			// Reported shifts include the balancing activity.
			cols["dsm_up"][t] += up + balDo
			cols["dsm_do_shift"][t] += do + balUp
			cols["dsm_up_orig"][t] += up
			cols["dsm_do_orig"][t] += do
			cols["balance_dsm_up"][t] += balUp
			cols["balance_dsm_do"][t] += balDo
		}
		cols["dsm_do_shed"][t] = sol.Value(vkey("dsm_do_shed", t))
		cols["dsm_level_up"][t] = sol.Value(vkey("dsm_up_level", t))
		cols["dsm_level_do"][t] = sol.Value(vkey("dsm_do_level", t))
	}
	return cols
}
