package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries(t *testing.T) {
	t.Run("scalar broadcasts", func(t *testing.T) {
		s := New[float64]("cost", 3)
		require.NoError(t, s.SetScalar(1.5))
		assert.Equal(t, []float64{1.5, 1.5, 1.5}, s.Values())
		assert.Equal(t, 1.5, s.First())
	})

	t.Run("sequence round trip is rounded", func(t *testing.T) {
		s := New[float64]("available", 3)
		require.NoError(t, s.SetSeries([]float64{0.123456, 5, 2.99999}))
		assert.Equal(t, []float64{0.1235, 5, 3}, s.Values())
		assert.Equal(t, 0.1235, s.At(0))
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		s := New[float64]("available", 3)
		require.NoError(t, s.SetScalar(2))
		err := s.SetSeries([]float64{1, 2})
		require.ErrorIs(t, err, ErrLengthMismatch)
		assert.Contains(t, err.Error(), "available")
		// unchanged
		assert.Equal(t, []float64{2, 2, 2}, s.Values())
	})

	t.Run("bounded rejects out of range", func(t *testing.T) {
		s := New[float64]("efficiency", 2).Bounded(0, 1)
		require.ErrorIs(t, s.SetScalar(1.2), ErrOutOfRange)
		require.ErrorIs(t, s.SetSeries([]float64{0.4, -0.1}), ErrOutOfRange)
		require.NoError(t, s.SetSeries([]float64{0, 1}))
		assert.Equal(t, []float64{0, 1}, s.Values())
	})

	t.Run("nan rejected", func(t *testing.T) {
		s := New[float64]("temperature", 1)
		require.ErrorIs(t, s.SetScalar(math.NaN()), ErrNotANumber)
	})

	t.Run("values is a copy", func(t *testing.T) {
		s := New[float64]("x", 2)
		v := s.Values()
		v[0] = 42
		assert.Equal(t, 0.0, s.At(0))
	})

	t.Run("integer series", func(t *testing.T) {
		s := New[int]("flags", 2)
		require.NoError(t, s.SetSeries([]int{1, 0}))
		assert.Equal(t, []int{1, 0}, s.Values())
	})

	t.Run("zero length panics", func(t *testing.T) {
		assert.Panics(t, func() { New[float64]("x", 0) })
	})
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.2346, Round(1.23456))
	assert.Equal(t, -0.5, Round(-0.49999))
	assert.Equal(t, []float64{0.1, 0.0001}, RoundAll([]float64{0.1, 0.00009}))
	assert.True(t, math.IsNaN(RoundAll([]float64{math.NaN()})[0]))
}
