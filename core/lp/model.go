// Package lp provides an incremental linear program builder solved with
// gonum's simplex implementation.
package lp

import (
	"fmt"
	"math"
)

// Sense describes the relation between a constraint expression and its
// right-hand side.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	}
	return "?"
}

// Expr is a linear expression mapping variable names to coefficients.
type Expr map[string]float64

// NewExpr returns an empty linear expression.
func NewExpr() Expr { return make(Expr) }

// Add accumulates coef onto the coefficient of the named variable.
func (e Expr) Add(name string, coef float64) Expr {
	e[name] += coef
	return e
}

type variable struct {
	name  string
	free  bool
	upper float64 // math.Inf(1) if unbounded above
}

type constraint struct {
	name  string
	expr  Expr
	sense Sense
	rhs   float64
}

// Model is a linear program under construction. Variables are nonnegative
// unless declared free, the objective is minimized.
type Model struct {
	vars  []variable
	index map[string]int
	cons  []constraint
	cost  Expr
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{index: make(map[string]int), cost: NewExpr()}
}

// AddVar declares a nonnegative variable. Declaring the same name twice is
// a modeling bug and panics.
func (m *Model) AddVar(name string) {
	m.addVar(name, false)
}

// AddFreeVar declares a variable without sign restriction.
func (m *Model) AddFreeVar(name string) {
	m.addVar(name, true)
}

func (m *Model) addVar(name string, free bool) {
	if _, ok := m.index[name]; ok {
		panic(fmt.Sprintf("lp: variable %q declared twice", name))
	}
	m.index[name] = len(m.vars)
	m.vars = append(m.vars, variable{name: name, free: free, upper: math.Inf(1)})
}

// SetUpper bounds the named variable from above. An upper bound of zero
// fixes a nonnegative variable to zero.
func (m *Model) SetUpper(name string, upper float64) {
	i, ok := m.index[name]
	if !ok {
		panic(fmt.Sprintf("lp: unknown variable %q", name))
	}
	m.vars[i].upper = upper
}

// AddCost accumulates a minimization cost coefficient for the named variable.
func (m *Model) AddCost(name string, coef float64) {
	if _, ok := m.index[name]; !ok {
		panic(fmt.Sprintf("lp: unknown variable %q", name))
	}
	m.cost.Add(name, coef)
}

// AddConstraint records expr sense rhs. Unknown variable names panic so that
// formulation bugs surface during model construction, not solving.
// Constraints with no nonzero coefficients are dropped.
func (m *Model) AddConstraint(name string, expr Expr, sense Sense, rhs float64) {
	nonzero := false
	for v, c := range expr {
		if _, ok := m.index[v]; !ok {
			panic(fmt.Sprintf("lp: constraint %q references unknown variable %q", name, v))
		}
		if c != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		return
	}
	m.cons = append(m.cons, constraint{name: name, expr: expr, sense: sense, rhs: rhs})
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of recorded constraints, not counting
// variable bounds.
func (m *Model) NumConstraints() int { return len(m.cons) }
