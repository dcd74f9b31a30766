package milp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var ErrConstantViolated = errors.New("constraint without variables does not hold")

// lpLineWidth keeps lines well below the 255 character limit of CPLEX LP
// readers.
const lpLineWidth = 100

var lpNameReplacer = strings.NewReplacer("[", "(", "]", ")", " ", "_", ":", "_")

// LPName returns name as it appears in LP output.
func LPName(name string) string {
	return lpNameReplacer.Replace(name)
}

// WriteLP writes m in CPLEX LP format. Constraints that reduce to a constant
// are checked and omitted; one that does not hold is an error.
func WriteLP(w io.Writer, m *Model) error {
	lw := &lpWriter{w: bufio.NewWriter(w)}

	if m.Name != "" {
		lw.line(`\ Problem: ` + m.Name)
	}

	lw.line("Minimize")
	obj := m.objective.Simplify()
	terms := obj.Terms
	if len(terms) == 0 && len(m.vars) > 0 {
		// LP readers need at least one objective term
		terms = []Term{{Var: 0, Coef: 0}}
	}
	lw.expr(" obj:", terms, "", m)
	if obj.Const != 0 {
		lw.line(`\ objective constant: ` + lpNumber(obj.Const))
	}

	lw.line("Subject To")
	for _, c := range m.constraints {
		lhs, rhs := c.Normalized()
		if len(lhs.Terms) == 0 {
			if c.Violation(func(Var) float64 { return 0 }) > 0 {
				return fmt.Errorf("%s: %w: 0 %s %s", c.Label(), ErrConstantViolated, c.Sense, lpNumber(rhs))
			}
			continue
		}
		lw.expr(" "+LPName(c.Label())+":", lhs.Terms, c.Sense.String()+" "+lpNumber(rhs), m)
	}

	lw.line("Bounds")
	var binaries []string
	for _, v := range m.vars {
		name := LPName(v.Name)
		switch {
		case v.Domain == Binary:
			binaries = append(binaries, name)
		case math.IsInf(v.Lower, -1) && math.IsInf(v.Upper, 1):
			lw.line(" " + name + " free")
		case v.Lower == 0 && math.IsInf(v.Upper, 1):
			// default bounds
		default:
			lw.line(" " + lpNumber(v.Lower) + " <= " + name + " <= " + lpNumber(v.Upper))
		}
	}

	if len(binaries) > 0 {
		lw.line("Binaries")
		lw.wrap(" ", binaries)
	}
	lw.line("End")
	return lw.flush()
}

type lpWriter struct {
	w   *bufio.Writer
	err error
}

func (lw *lpWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = lw.w.WriteString(s + "\n")
}

// wrap writes tokens after prefix, breaking lines before lpLineWidth.
func (lw *lpWriter) wrap(prefix string, tokens []string) {
	var b strings.Builder
	b.WriteString(prefix)
	width := len(prefix)
	for _, tok := range tokens {
		if width > len(prefix) && width+1+len(tok) > lpLineWidth {
			lw.line(b.String())
			b.Reset()
			b.WriteString("   ")
			width = 3
		} else if width > 0 {
			b.WriteByte(' ')
			width++
		}
		b.WriteString(tok)
		width += len(tok)
	}
	lw.line(b.String())
}

func (lw *lpWriter) expr(label string, terms []Term, suffix string, m *Model) {
	tokens := make([]string, 0, len(terms)+1)
	for i, t := range terms {
		tokens = append(tokens, lpTerm(t.Coef, LPName(m.vars[t.Var].Name), i == 0))
	}
	if suffix != "" {
		tokens = append(tokens, suffix)
	}
	lw.wrap(label, tokens)
}

func (lw *lpWriter) flush() error {
	if lw.err != nil {
		return lw.err
	}
	return lw.w.Flush()
}

func lpTerm(coef float64, name string, first bool) string {
	sign := "+ "
	if coef < 0 {
		sign = "- "
		coef = -coef
	} else if first {
		sign = ""
	}
	if coef == 1 {
		return sign + name
	}
	return sign + lpNumber(coef) + " " + name
}

func lpNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
