package milp

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrNotAssigned     = errors.New("variable has no assigned value")
)

// Horizon is the Period of variables and constraints that are not tied to a
// single period.
const Horizon = -1

// Domain is the set a variable's values are drawn from.
type Domain int

const (
	Reals Domain = iota
	NonNegativeReals
	Binary
)

func (d Domain) String() string {
	switch d {
	case Reals:
		return "reals"
	case NonNegativeReals:
		return "non_negative_reals"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// Variable describes one decision variable.
type Variable struct {
	Name   string
	Doc    string
	Units  string
	Domain Domain
	Lower  float64
	Upper  float64
	Period int
}

// NonNegative describes a continuous variable in [0, +Inf).
func NonNegative(name, doc, units string, period int) Variable {
	return Variable{
		Name:   name,
		Doc:    doc,
		Units:  units,
		Domain: NonNegativeReals,
		Lower:  0,
		Upper:  math.Inf(1),
		Period: period,
	}
}

// BinaryVariable describes a variable in {0, 1}.
func BinaryVariable(name, doc string, period int) Variable {
	return Variable{
		Name:   name,
		Doc:    doc,
		Units:  "-",
		Domain: Binary,
		Lower:  0,
		Upper:  1,
		Period: period,
	}
}

// WithUpper returns v with its upper bound set to upper.
func (v Variable) WithUpper(upper float64) Variable {
	v.Upper = upper
	return v
}

// Sense is a constraint's relational operator.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// Constraint is the record LHS Sense RHS.
type Constraint struct {
	Name   string
	Doc    string
	Period int
	LHS    Expr
	Sense  Sense
	RHS    Expr
}

// Label returns the constraint's unique name, its Name indexed by period.
func (c Constraint) Label() string {
	if c.Period == Horizon {
		return c.Name
	}
	return fmt.Sprintf("%s[%d]", c.Name, c.Period)
}

// Normalized moves every variable to the left and every constant to the
// right, returning the simplified left side and the right constant.
func (c Constraint) Normalized() (Expr, float64) {
	lhs := c.LHS.Sub(c.RHS).Simplify()
	rhs := 0 - lhs.Const
	lhs.Const = 0
	return lhs, rhs
}

// Violation returns by how much the constraint is violated for the given
// values, or 0 when it holds.
func (c Constraint) Violation(value func(Var) float64) float64 {
	d := c.LHS.Eval(value) - c.RHS.Eval(value)
	switch c.Sense {
	case LessEqual:
		return math.Max(0, d)
	case GreaterEqual:
		return math.Max(0, -d)
	default:
		return math.Abs(d)
	}
}

// Model is an arena of variables and constraint records. Nothing in it is
// shared with other models.
type Model struct {
	Name string

	vars        []Variable
	byName      map[string]Var
	constraints []Constraint
	ports       []Port
	objective   Expr

	values   []float64
	assigned []bool
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{
		Name:   name,
		byName: make(map[string]Var),
	}
}

// NewVar adds a variable and returns its handle. Binary variables are
// always bounded to [0, 1]. Names must be unique within the model.
func (m *Model) NewVar(v Variable) Var {
	if _, ok := m.byName[v.Name]; ok {
		panic(fmt.Sprintf("duplicate variable %q", v.Name))
	}
	if v.Domain == Binary {
		v.Lower, v.Upper = 0, 1
	}
	h := Var(len(m.vars))
	m.vars = append(m.vars, v)
	m.byName[v.Name] = h
	m.values = append(m.values, 0)
	m.assigned = append(m.assigned, false)
	return h
}

// Variable returns the description of v.
func (m *Model) Variable(v Var) Variable {
	return m.vars[v]
}

// Variables returns every variable in creation order.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.vars))
	copy(out, m.vars)
	return out
}

func (m *Model) NumVariables() int {
	return len(m.vars)
}

// Lookup returns the handle of the named variable.
func (m *Model) Lookup(name string) (Var, bool) {
	v, ok := m.byName[name]
	return v, ok
}

func (m *Model) AddConstraint(c Constraint) {
	m.constraints = append(m.constraints, c)
}

// Constraints returns every constraint in insertion order.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// ConstraintsNamed returns the constraints whose Name is name, in insertion
// order.
func (m *Model) ConstraintsNamed(name string) []Constraint {
	var out []Constraint
	for _, c := range m.constraints {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (m *Model) SetObjective(e Expr) {
	m.objective = e
}

// Objective returns the expression to minimize.
func (m *Model) Objective() Expr {
	return m.objective
}

// SetValue assigns a solved value to v.
func (m *Model) SetValue(v Var, x float64) {
	m.values[v] = x
	m.assigned[v] = true
}

// Value returns the assigned value of v.
func (m *Model) Value(v Var) (float64, bool) {
	return m.values[v], m.assigned[v]
}

// AssignSolution replaces the assigned values with the solved values by
// variable name. Nothing changes if any name is unknown.
func (m *Model) AssignSolution(values map[string]float64) error {
	for name := range values {
		if _, ok := m.Lookup(name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
		}
	}
	m.ClearSolution()
	for name, x := range values {
		v, _ := m.Lookup(name)
		m.SetValue(v, x)
	}
	return nil
}

// ClearSolution forgets every assigned value.
func (m *Model) ClearSolution() {
	for i := range m.values {
		m.values[i] = 0
		m.assigned[i] = false
	}
}

// Violation is a constraint or bound that does not hold for the assigned
// values.
type Violation struct {
	Name   string
	Period int
	Amount float64
}

// Violations checks every bound and constraint against the assigned values
// and returns those violated by more than tol. Unassigned variables are
// reported as an error.
func (m *Model) Violations(tol float64) ([]Violation, error) {
	for i, ok := range m.assigned {
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotAssigned, m.vars[i].Name)
		}
	}
	value := func(v Var) float64 { return m.values[v] }

	var out []Violation
	for i, v := range m.vars {
		x := m.values[i]
		amount := math.Max(v.Lower-x, x-v.Upper)
		if v.Domain == Binary {
			amount = math.Max(amount, math.Min(x, 1-x))
		}
		if amount > tol {
			out = append(out, Violation{Name: v.Name, Period: v.Period, Amount: amount})
		}
	}
	for _, c := range m.constraints {
		if amount := c.Violation(value); amount > tol {
			out = append(out, Violation{Name: c.Label(), Period: c.Period, Amount: amount})
		}
	}
	return out, nil
}
