package milp

import (
	"sort"
)

// Var is a handle to a variable in a Model. Handles are dense indices in
// creation order.
type Var int

// Term is a coefficient applied to a variable.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression: a sum of terms plus a constant. Methods
// return new expressions and never modify the receiver.
type Expr struct {
	Terms []Term
	Const float64
}

// Const returns the constant expression c.
func Const(c float64) Expr {
	return Expr{Const: c}
}

// Sum returns the expression sum(coef * var) over terms.
func Sum(terms ...Term) Expr {
	e := Expr{Terms: make([]Term, len(terms))}
	copy(e.Terms, terms)
	return e
}

// T is shorthand for a Term.
func T(coef float64, v Var) Term {
	return Term{Var: v, Coef: coef}
}

// Expr returns the expression 1*v.
func (v Var) Expr() Expr {
	return Expr{Terms: []Term{{Var: v, Coef: 1}}}
}

// Plus returns e + coef*v.
func (e Expr) Plus(coef float64, v Var) Expr {
	terms := make([]Term, len(e.Terms), len(e.Terms)+1)
	copy(terms, e.Terms)
	return Expr{Terms: append(terms, Term{Var: v, Coef: coef}), Const: e.Const}
}

// PlusConst returns e + c.
func (e Expr) PlusConst(c float64) Expr {
	terms := make([]Term, len(e.Terms))
	copy(terms, e.Terms)
	return Expr{Terms: terms, Const: e.Const + c}
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return Expr{Terms: terms, Const: e.Const + o.Const}
}

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr {
	return e.Add(o.Scale(-1))
}

// Scale returns f*e.
func (e Expr) Scale(f float64) Expr {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Var: t.Var, Coef: t.Coef * f}
	}
	return Expr{Terms: terms, Const: e.Const * f}
}

// Coefficient returns the combined coefficient of v in e.
func (e Expr) Coefficient(v Var) float64 {
	var c float64
	for _, t := range e.Terms {
		if t.Var == v {
			c += t.Coef
		}
	}
	return c
}

// Simplify merges repeated variables, drops zero coefficients and orders
// terms by variable.
func (e Expr) Simplify() Expr {
	coefs := make(map[Var]float64, len(e.Terms))
	for _, t := range e.Terms {
		coefs[t.Var] += t.Coef
	}
	terms := make([]Term, 0, len(coefs))
	for v, c := range coefs {
		if c != 0 {
			terms = append(terms, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		return terms[i].Var < terms[j].Var
	})
	return Expr{Terms: terms, Const: e.Const}
}

// IsConstant reports whether e has no variable terms after simplification.
func (e Expr) IsConstant() bool {
	return len(e.Simplify().Terms) == 0
}

// Eval evaluates e with value supplying each variable's value.
func (e Expr) Eval(value func(Var) float64) float64 {
	sum := e.Const
	for _, t := range e.Terms {
		sum += t.Coef * value(t.Var)
	}
	return sum
}
