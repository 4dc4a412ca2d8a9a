package lp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrInfeasible indicates the model has no feasible solution.
var ErrInfeasible = errors.New("lp infeasible")

// ErrUnbounded indicates the objective can be decreased without limit.
var ErrUnbounded = errors.New("lp unbounded")

const simplexTol = 1e-7

// Solution holds the optimum of a solved model.
type Solution struct {
	Objective float64

	values map[string]float64
}

// Value returns the optimal value of the named variable. Unknown names
// return zero, which keeps result extraction for optional variables simple.
func (s *Solution) Value(name string) float64 {
	return s.values[name]
}

// Solve converts the model to standard form and runs the simplex algorithm.
// Free variables are split into positive and negative parts, inequality
// constraints and finite upper bounds receive slack columns.
func (m *Model) Solve() (*Solution, error) {
	// Column layout: variable columns first (two for free variables),
	// then one slack column per inequality row.
	cols := 0
	colOf := make([]int, len(m.vars))
	for i, v := range m.vars {
		colOf[i] = cols
		if v.free {
			cols += 2
		} else {
			cols++
		}
	}

	type row struct {
		expr  Expr
		rhs   float64
		slack float64 // 0 for equality rows
	}
	var rows []row
	for _, c := range m.cons {
		r := row{expr: c.expr, rhs: c.rhs}
		switch c.sense {
		case LessEq:
			r.slack = 1
		case GreaterEq:
			r.slack = -1
		}
		rows = append(rows, r)
	}
	for _, v := range m.vars {
		if math.IsInf(v.upper, 1) {
			continue
		}
		if v.free {
			return nil, fmt.Errorf("lp: upper bound on free variable %q not supported", v.name)
		}
		rows = append(rows, row{expr: Expr{v.name: 1}, rhs: v.upper, slack: 1})
	}
	if len(rows) == 0 {
		return nil, errors.New("lp: model has no constraints")
	}

	slackCols := 0
	for _, r := range rows {
		if r.slack != 0 {
			slackCols++
		}
	}

	n := cols + slackCols
	a := mat.NewDense(len(rows), n, nil)
	b := make([]float64, len(rows))
	c := make([]float64, n)

	for name, coef := range m.cost {
		i := m.index[name]
		c[colOf[i]] = coef
		if m.vars[i].free {
			c[colOf[i]+1] = -coef
		}
	}

	slack := cols
	for ri, r := range rows {
		for name, coef := range r.expr {
			i := m.index[name]
			a.Set(ri, colOf[i], coef)
			if m.vars[i].free {
				a.Set(ri, colOf[i]+1, -coef)
			}
		}
		if r.slack != 0 {
			a.Set(ri, slack, r.slack)
			slack++
		}
		b[ri] = r.rhs
	}

	obj, x, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
		case errors.Is(err, lp.ErrUnbounded):
			return nil, fmt.Errorf("%w: %v", ErrUnbounded, err)
		default:
			return nil, fmt.Errorf("simplex: %w", err)
		}
	}

	sol := &Solution{Objective: obj, values: make(map[string]float64, len(m.vars))}
	for i, v := range m.vars {
		val := x[colOf[i]]
		if v.free {
			val -= x[colOf[i]+1]
		}
		sol.values[v.name] = val
	}
	return sol, nil
}
