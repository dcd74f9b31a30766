package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrTooFewPoints  = errors.New("curve needs at least two points")
	ErrNotIncreasing = errors.New("curve breakpoints must be strictly increasing")
	ErrNotANumber    = errors.New("curve contains NaN")
	ErrMismatched    = errors.New("curve x and y lengths differ")
)

// Point is one tabulated breakpoint.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Curve is a piecewise-linear function defined by breakpoints with strictly
// increasing X. Lookups outside the tabulated range extrapolate along the
// first or last segment.
type Curve struct {
	Points []Point `json:"points" yaml:"points"`
}

// New builds a curve from parallel x and y slices and validates it.
func New(xs, ys []float64) (Curve, error) {
	if len(xs) != len(ys) {
		return Curve{}, fmt.Errorf("%w: %d != %d", ErrMismatched, len(xs), len(ys))
	}
	c := Curve{Points: make([]Point, len(xs))}
	for i := range xs {
		c.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// FromRows builds a curve from two-column rows, as the tables are usually
// stored. Extra columns are ignored.
func FromRows(rows [][]float64) (Curve, error) {
	c := Curve{Points: make([]Point, 0, len(rows))}
	for i, r := range rows {
		if len(r) < 2 {
			return Curve{}, fmt.Errorf("row %d: %w", i, ErrShortRow)
		}
		c.Points = append(c.Points, Point{X: r[0], Y: r[1]})
	}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// Validate checks the breakpoint invariants.
func (c Curve) Validate() error {
	if len(c.Points) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, len(c.Points))
	}
	for i, p := range c.Points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return fmt.Errorf("point %d: %w", i, ErrNotANumber)
		}
		if i > 0 && p.X <= c.Points[i-1].X {
			return fmt.Errorf("point %d: %w: %g after %g", i, ErrNotIncreasing, p.X, c.Points[i-1].X)
		}
	}
	return nil
}

// Segment returns the index i of the segment [Points[i], Points[i+1]] used to
// evaluate x. The index is clamped to [0, len(Points)-2].
func (c Curve) Segment(x float64) int {
	n := len(c.Points)
	i := sort.Search(n, func(i int) bool {
		return c.Points[i].X > x
	}) - 1
	return max(0, min(i, n-2))
}

// At evaluates the curve at x. Breakpoints are reproduced exactly.
func (c Curve) At(x float64) float64 {
	i := c.Segment(x)
	return interpolate(c.Points[i], c.Points[i+1], x)
}

// Eval evaluates the curve at each of xs.
func (c Curve) Eval(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = c.At(x)
	}
	return out
}

// ScaleX returns a copy of the curve with every X multiplied by f.
func (c Curve) ScaleX(f float64) Curve {
	out := Curve{Points: make([]Point, len(c.Points))}
	for i, p := range c.Points {
		out.Points[i] = Point{X: p.X * f, Y: p.Y}
	}
	return out
}

// ScaleY returns a copy of the curve with every Y multiplied by f.
func (c Curve) ScaleY(f float64) Curve {
	out := Curve{Points: make([]Point, len(c.Points))}
	for i, p := range c.Points {
		out.Points[i] = Point{X: p.X, Y: p.Y * f}
	}
	return out
}

// interpolate weights the endpoints so that r == 0 and r == 1 return p1.Y and
// p2.Y without rounding error.
func interpolate(p1, p2 Point, x float64) float64 {
	r := (x - p1.X) / (p2.X - p1.X)
	return (1-r)*p1.Y + r*p2.Y
}
