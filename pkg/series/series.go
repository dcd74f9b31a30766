package series

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Digits is the number of decimal places every written value is rounded to.
const Digits = 4

var (
	ErrLengthMismatch = errors.New("sequence length does not match horizon length")
	ErrOutOfRange     = errors.New("value out of range")
	ErrNotANumber     = errors.New("value is not a number")
)

// Number is the set of element types a Series can hold.
type Number interface {
	~int | ~int64 | ~float64
}

// Round rounds v to Digits decimal places.
func Round(v float64) float64 {
	return scalar.Round(v, Digits)
}

// RoundAll returns a rounded copy of vs.
func RoundAll(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = Round(v)
	}
	return out
}

// Series is a per-period parameter over a fixed horizon length. It can be
// set from a single scalar, which is broadcast to every period, or from a
// sequence whose length must match the horizon exactly.
type Series[T Number] struct {
	name    string
	values  []T
	bounded bool
	lower   T
	upper   T
}

// New returns a zero-valued series of length n.
func New[T Number](name string, n int) *Series[T] {
	if n <= 0 {
		panic(fmt.Sprintf("series %s: invalid horizon length %d", name, n))
	}
	return &Series[T]{
		name:   name,
		values: make([]T, n),
	}
}

// Bounded restricts every value written to the series to [lower, upper].
func (s *Series[T]) Bounded(lower, upper T) *Series[T] {
	s.bounded = true
	s.lower = lower
	s.upper = upper
	return s
}

func (s *Series[T]) Name() string {
	return s.name
}

func (s *Series[T]) Len() int {
	return len(s.values)
}

func (s *Series[T]) check(v T) (T, error) {
	f := float64(v)
	if math.IsNaN(f) {
		return v, fmt.Errorf("%s: %w", s.name, ErrNotANumber)
	}
	r := T(Round(f))
	if s.bounded && (r < s.lower || r > s.upper) {
		return v, fmt.Errorf("%s: %w: %v not in [%v, %v]", s.name, ErrOutOfRange, v, s.lower, s.upper)
	}
	return r, nil
}

// SetScalar writes v to every period.
func (s *Series[T]) SetScalar(v T) error {
	r, err := s.check(v)
	if err != nil {
		return err
	}
	for i := range s.values {
		s.values[i] = r
	}
	return nil
}

// SetSeries writes vs period by period. Nothing is written if any value is
// rejected.
func (s *Series[T]) SetSeries(vs []T) error {
	if len(vs) != len(s.values) {
		return fmt.Errorf("%s: %w: got %d, want %d", s.name, ErrLengthMismatch, len(vs), len(s.values))
	}
	next := make([]T, len(vs))
	for i, v := range vs {
		r, err := s.check(v)
		if err != nil {
			return fmt.Errorf("period %d: %w", i, err)
		}
		next[i] = r
	}
	copy(s.values, next)
	return nil
}

// Values returns a copy of the stored values.
func (s *Series[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// At returns the value for period t.
func (s *Series[T]) At(t int) T {
	return s.values[t]
}

// First returns the value of the first period. Scalar parameters are read
// this way.
func (s *Series[T]) First() T {
	return s.values[0]
}
