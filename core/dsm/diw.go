package dsm

import (
	"fmt"

	"github.com/flexnode/dsm/core/lp"
	"github.com/flexnode/dsm/core/model"
)

// DIWMethod selects one of the two DIW modeling approaches.
type DIWMethod string

const (
	// DIWInterval balances up- and downshifts inside fixed windows.
	DIWInterval DIWMethod = "interval"
	// DIWDelay compensates every upshift within a symmetric window of
	// DelayTime steps, the full Zerrahn & Schill formulation.
	DIWDelay DIWMethod = "delay"
)

// DIW is the demand-response formulation used in the DIETER model at DIW
// Berlin. The delay method keeps a two-index downshift variable
// dsm_do_shift[e,t]: event step e, compensation step t.
type DIW struct {
	Unit

	Method DIWMethod

	// ShiftInterval is the balancing window length, interval method only.
	ShiftInterval int
	// DelayTime is the half-width of the compensation window, delay only.
	DelayTime int
	// ShedTime is the maximum full-capacity length of one shedding
	// process, used in the shed energy limit.
	ShedTime int
	// RecoveryShift is the minimum spacing of load shifting processes.
	// Zero disables the recovery constraint.
	RecoveryShift int
	// RecoveryShed is the window of the shed energy limit. Mandatory
	// when the unit is shed-eligible.
	RecoveryShed int
}

func (d *DIW) Approach() string { return "diw-" + string(d.Method) }

func (d *DIW) Validate(h model.Horizon) error {
	switch d.Method {
	case DIWInterval:
		if d.ShiftInterval <= 0 {
			return fmt.Errorf("diw: shift_interval is mandatory for method interval")
		}
	case DIWDelay:
		if d.DelayTime <= 0 {
			return fmt.Errorf("diw: delay_time is mandatory for method delay")
		}
		if err := d.validateCommon(); err != nil {
			return err
		}
		if d.ShedEligible && d.RecoveryShed <= 0 {
			return fmt.Errorf("diw: recovery_time_shed is mandatory for shed-eligible units")
		}
	default:
		return fmt.Errorf("diw: method must be %q or %q, got %q", DIWInterval, DIWDelay, d.Method)
	}
	return nil
}

// window returns the compensation window around event step e, clipped to
// the horizon.
func (d *DIW) window(h model.Horizon, e int) (int, int) {
	return maxi(0, e-d.DelayTime), mini(h.Last(), e+d.DelayTime)
}

func (d *DIW) Build(m *lp.Model, h model.Horizon) error {
	if err := d.Validate(h); err != nil {
		return err
	}
	if d.Method == DIWInterval {
		d.buildInterval(m, h)
		return nil
	}
	d.buildDelay(m, h)
	return nil
}

func (d *DIW) buildInterval(m *lp.Model, h model.Horizon) {
	for t := 0; t < h.Steps; t++ {
		up, do := vkey("dsm_up", t), vkey("dsm_do", t)
		m.AddVar(up)
		m.AddVar(do)
		m.SetUpper(up, d.CapacityUp.At(t))
		m.SetUpper(do, d.CapacityDown.At(t))
		m.AddCost(up, d.CostUp)
		m.AddCost(do, d.CostDownShift)
	}

	// Efficiency-weighted balance of shifts within each interval. The
	// last interval may be shorter than shift_interval.
	for start := 0; start < h.Steps; start += d.ShiftInterval {
		end := mini(h.Last(), start+d.ShiftInterval-1)
		e := lp.NewExpr()
		for t := start; t <= end; t++ {
			e.Add(vkey("dsm_up", t), d.eff())
			e.Add(vkey("dsm_do", t), -1)
		}
		m.AddConstraint(fmt.Sprintf("dsm_sum[%d]", start), e, lp.Equal, 0)
	}
}

func (d *DIW) buildDelay(m *lp.Model, h model.Horizon) {
	for t := 0; t < h.Steps; t++ {
		up, shed := vkey("dsm_up", t), vkey("dsm_do_shed", t)
		m.AddVar(up)
		m.AddVar(shed)
		m.SetUpper(up, d.CapacityUp.At(t))
		if !d.ShedEligible {
			m.SetUpper(shed, 0)
		}
		m.AddCost(up, d.CostUp)
		m.AddCost(shed, d.CostDownShed)
	}
	for e := 0; e < h.Steps; e++ {
		lo, hi := d.window(h, e)
		for t := lo; t <= hi; t++ {
			v := vkey("dsm_do_shift", e, t)
			m.AddVar(v)
			if !d.ShiftEligible {
				m.SetUpper(v, 0)
			}
			m.AddCost(v, d.CostDownShift)
		}
	}

	// Equation 7': every upshift is compensated within its window,
	// subject to efficiency losses.
	for e := 0; e < h.Steps; e++ {
		expr := lp.NewExpr().Add(vkey("dsm_up", e), d.eff())
		lo, hi := d.window(h, e)
		for t := lo; t <= hi; t++ {
			expr.Add(vkey("dsm_do_shift", e, t), -1)
		}
		m.AddConstraint(fmt.Sprintf("dsm_updo[%d]", e), expr, lp.Equal, 0)
	}

	// Equation 9: downshift capacity, shedding competes with shifting.
	for t := 0; t < h.Steps; t++ {
		expr := lp.NewExpr()
		lo, hi := d.window(h, t)
		for e := lo; e <= hi; e++ {
			expr.Add(vkey("dsm_do_shift", e, t), 1)
		}
		expr.Add(vkey("dsm_do_shed", t), 1)
		m.AddConstraint(fmt.Sprintf("dsm_do[%d]", t), expr, lp.LessEq, d.CapacityDown.At(t))
	}

	// Equation 10: a unit is shifted up or down, not both at once.
	for t := 0; t < h.Steps; t++ {
		expr := lp.NewExpr().Add(vkey("dsm_up", t), 1)
		lo, hi := d.window(h, t)
		for e := lo; e <= hi; e++ {
			expr.Add(vkey("dsm_do_shift", e, t), 1)
		}
		expr.Add(vkey("dsm_do_shed", t), 1)
		m.AddConstraint(fmt.Sprintf("dsm_c2[%d]", t), expr, lp.LessEq,
			maxf(d.CapacityUp.At(t), d.CapacityDown.At(t)))
	}

	// Equation 11: recovery limit for shifting processes.
	if d.RecoveryShift > 0 {
		for t := 0; t < h.Steps; t++ {
			expr := lp.NewExpr()
			for tt := t; tt <= mini(h.Last(), t+d.RecoveryShift-1); tt++ {
				expr.Add(vkey("dsm_up", tt), 1)
			}
			rhs := d.CapacityUp.At(t) * float64(d.DelayTime) * h.Increment
			m.AddConstraint(fmt.Sprintf("dsm_recovery[%d]", t), expr, lp.LessEq, rhs)
		}
	}

	// Equation 9a of Zerrahn & Schill (2015b): shed energy limit.
	if d.ShedEligible {
		for t := 0; t < h.Steps; t++ {
			expr := lp.NewExpr()
			for tt := t; tt <= mini(h.Last(), t+d.RecoveryShed-1); tt++ {
				expr.Add(vkey("dsm_do_shed", tt), 1)
			}
			rhs := d.CapacityDown.At(t) * float64(d.ShedTime) * h.Increment
			m.AddConstraint(fmt.Sprintf("dsm_shed_limit[%d]", t), expr, lp.LessEq, rhs)
		}
	}
}

func (d *DIW) ConsumptionTerms(h model.Horizon, t int, expr lp.Expr) {
	if d.Method == DIWInterval {
		expr.Add(vkey("dsm_up", t), 1)
		expr.Add(vkey("dsm_do", t), -1)
		return
	}
	expr.Add(vkey("dsm_up", t), 1)
	lo, hi := d.window(h, t)
	for e := lo; e <= hi; e++ {
		expr.Add(vkey("dsm_do_shift", e, t), -1)
	}
	expr.Add(vkey("dsm_do_shed", t), -1)
}

func (d *DIW) Extract(sol *lp.Solution, h model.Horizon) map[string][]float64 {
	up := make([]float64, h.Steps)
	do := make([]float64, h.Steps)
	shed := make([]float64, h.Steps)
	for t := 0; t < h.Steps; t++ {
		up[t] = sol.Value(vkey("dsm_up", t))
		if d.Method == DIWInterval {
			do[t] = sol.Value(vkey("dsm_do", t))
			continue
		}
		lo, hi := d.window(h, t)
		for e := lo; e <= hi; e++ {
			do[t] += sol.Value(vkey("dsm_do_shift", e, t))
		}
		shed[t] = sol.Value(vkey("dsm_do_shed", t))
	}
	return map[string][]float64{
		"dsm_up":       up,
		"dsm_do_shift": do,
		"dsm_do_shed":  shed,
	}
}
