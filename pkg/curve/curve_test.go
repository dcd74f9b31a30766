package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurve(t *testing.T) {
	c, err := New([]float64{0, 10, 20}, []float64{1, 2, 4})
	require.NoError(t, err)

	t.Run("breakpoints are exact", func(t *testing.T) {
		for _, p := range c.Points {
			assert.Equal(t, p.Y, c.At(p.X))
		}
	})

	t.Run("interior interpolation", func(t *testing.T) {
		assert.InDelta(t, 1.5, c.At(5), 1e-12)
		assert.InDelta(t, 3.0, c.At(15), 1e-12)
	})

	t.Run("extrapolates along boundary segments", func(t *testing.T) {
		assert.InDelta(t, 0.0, c.At(-10), 1e-12)
		assert.InDelta(t, 6.0, c.At(30), 1e-12)
	})

	t.Run("segment index is clamped", func(t *testing.T) {
		assert.Equal(t, 0, c.Segment(-100))
		assert.Equal(t, 0, c.Segment(0))
		assert.Equal(t, 1, c.Segment(10))
		assert.Equal(t, 1, c.Segment(20))
		assert.Equal(t, 1, c.Segment(1e9))
	})

	t.Run("eval", func(t *testing.T) {
		assert.Equal(t, []float64{1, 2, 4}, c.Eval([]float64{0, 10, 20}))
	})

	t.Run("scale", func(t *testing.T) {
		s := c.ScaleX(0.1).ScaleY(2)
		assert.Equal(t, 4.0, s.At(1))
		// receiver untouched
		assert.Equal(t, 10.0, c.Points[1].X)
	})
}

func TestCurveValidate(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		err  error
	}{
		{name: "single point", xs: []float64{1}, ys: []float64{1}, err: ErrTooFewPoints},
		{name: "equal x", xs: []float64{1, 1}, ys: []float64{1, 2}, err: ErrNotIncreasing},
		{name: "decreasing x", xs: []float64{2, 1}, ys: []float64{1, 2}, err: ErrNotIncreasing},
		{name: "nan", xs: []float64{1, 2}, ys: []float64{math.NaN(), 2}, err: ErrNotANumber},
		{name: "mismatched", xs: []float64{1, 2}, ys: []float64{1}, err: ErrMismatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.xs, tt.ys)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFromRows(t *testing.T) {
	c, err := FromRows([][]float64{{0, 0.5, 99}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 0, Y: 0.5}, {X: 1, Y: 1}}, c.Points)

	_, err = FromRows([][]float64{{0}, {1, 1}})
	assert.ErrorIs(t, err, ErrShortRow)
}

func TestLinearizePartLoad(t *testing.T) {
	t.Run("two point table reproduces endpoints", func(t *testing.T) {
		c, err := New([]float64{0.2, 1.0}, []float64{0.9, 1.0})
		require.NoError(t, err)

		const rated = 100.0
		pl, err := LinearizePartLoad(c, 0.2, 1.0, rated)
		require.NoError(t, err)

		assert.Equal(t, 0.9, pl.LowerEfficiency)
		assert.Equal(t, 1.0, pl.UpperEfficiency)
		assert.InDelta(t, 1.025, pl.Slope, 1e-12)
		assert.InDelta(t, -2.5, pl.Intercept, 1e-12)

		// output over thermal input equals the tabulated efficiency at both ends
		assert.InDelta(t, 0.9, pl.Power(20)/20, 1e-12)
		assert.InDelta(t, 1.0, pl.Power(100)/100, 1e-12)
		assert.InDelta(t, 100, pl.MaximumPower(100), 1e-12)
	})

	t.Run("endpoints inside a longer table", func(t *testing.T) {
		c, err := New([]float64{0, 0.5, 1.0, 1.5}, []float64{0.30, 0.36, 0.40, 0.38})
		require.NoError(t, err)

		pl, err := LinearizePartLoad(c, 0.25, 1.25, 50)
		require.NoError(t, err)
		assert.InDelta(t, 0.33, pl.LowerEfficiency, 1e-12)
		assert.InDelta(t, 0.39, pl.UpperEfficiency, 1e-12)
		assert.InDelta(t, 12.5*0.33, pl.Power(12.5), 1e-9)
		assert.InDelta(t, 62.5*0.39, pl.Power(62.5), 1e-9)
	})

	t.Run("degenerate range", func(t *testing.T) {
		c, err := New([]float64{0, 1}, []float64{0.3, 0.4})
		require.NoError(t, err)
		_, err = LinearizePartLoad(c, 0.5, 0.5, 100)
		assert.ErrorIs(t, err, ErrDegenerateRange)
		_, err = LinearizePartLoad(c, 0.2, 1.0, 0)
		assert.ErrorIs(t, err, ErrDegenerateRange)
	})

	t.Run("invalid curve", func(t *testing.T) {
		_, err := LinearizePartLoad(Curve{}, 0.2, 1.0, 100)
		assert.ErrorIs(t, err, ErrTooFewPoints)
	})
}

func TestAmbient(t *testing.T) {
	eff, err := New([]float64{0, 20, 40}, []float64{0.42, 0.40, 0.36})
	require.NoError(t, err)
	cond, err := New([]float64{0, 40}, []float64{0.01, 0.03})
	require.NoError(t, err)

	a := Ambient{Efficiency: eff, Condenser: cond}
	require.NoError(t, a.Validate())

	got := a.Evaluate([]float64{20, 30, 50})
	assert.Equal(t, 0.40, got.Efficiency[0])
	assert.InDelta(t, 0.38, got.Efficiency[1], 1e-12)
	assert.InDelta(t, 0.34, got.Efficiency[2], 1e-12)
	assert.InDelta(t, 0.02, got.Condenser[0], 1e-12)
	assert.InDelta(t, 0.025, got.Condenser[1], 1e-12)
	assert.InDelta(t, 0.035, got.Condenser[2], 1e-12)

	flat := ConstantCorrections(0.41, 2)
	assert.Equal(t, []float64{0.41, 0.41}, flat.Efficiency)
	assert.Equal(t, []float64{0, 0}, flat.Condenser)
}
