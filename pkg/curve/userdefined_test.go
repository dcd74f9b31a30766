package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userDefinedTable builds a table with three HTF temperatures, three mass
// flow fractions and three ambient temperatures, each swept over three
// levels.
func userDefinedTable() [][]float64 {
	var rows [][]float64
	for range 3 {
		for _, temp := range []float64{550, 575, 600} {
			rows = append(rows, []float64{temp, 1, 35, temp / 575, temp / 575, 1})
		}
	}
	for range 3 {
		for _, m := range []float64{0.5, 0.75, 1.0} {
			// efficiency ratio W/Q falls off at part load
			rows = append(rows, []float64{575, m, 35, m * (0.9 + 0.1*m), m, 1})
		}
	}
	for range 3 {
		for i, tamb := range []float64{10, 25, 40} {
			rows = append(rows, []float64{575, 1, tamb, 1.02 - 0.02*float64(i), 1, 0.5 + 0.5*float64(i)})
		}
	}
	return rows
}

func TestParseUserDefined(t *testing.T) {
	rows := userDefinedTable()

	u, err := ParseUserDefined(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, u.NT)
	assert.Equal(t, 3, u.NM)
	assert.Equal(t, 3, u.NTamb)
	assert.Equal(t, []float64{550, 575, 600}, u.TPoints)
	assert.Equal(t, []float64{0.5, 0.75, 1.0}, u.MPoints)
	assert.Equal(t, []float64{10, 25, 40}, u.TambPoints)

	t.Run("part load", func(t *testing.T) {
		c, err := u.PartLoad(0.4)
		require.NoError(t, err)
		require.Len(t, c.Points, 3)
		assert.InDelta(t, 0.4*0.95, c.At(0.5), 1e-12)
		assert.InDelta(t, 0.4*1.0, c.At(1.0), 1e-12)
	})

	t.Run("ambient", func(t *testing.T) {
		a, err := u.Ambient(0.4, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0.4*1.02, a.Efficiency.At(10), 1e-12)
		assert.InDelta(t, 0.4*0.98, a.Efficiency.At(40), 1e-12)
		assert.InDelta(t, 0.02*0.5, a.Condenser.At(10), 1e-12)
		assert.InDelta(t, 0.02*1.5, a.Condenser.At(40), 1e-12)
	})
}

func TestParseUserDefinedMalformed(t *testing.T) {
	t.Run("no decreasing pair", func(t *testing.T) {
		rows := [][]float64{
			{550, 1, 35, 1, 1, 1},
			{575, 1, 35, 1, 1, 1},
			{600, 1, 35, 1, 1, 1},
		}
		_, err := ParseUserDefined(rows)
		assert.ErrorIs(t, err, ErrNoSegmentBoundary)
	})

	t.Run("short row", func(t *testing.T) {
		rows := userDefinedTable()
		rows[4] = rows[4][:3]
		_, err := ParseUserDefined(rows)
		assert.ErrorIs(t, err, ErrShortRow)
	})

	t.Run("truncated ambient block", func(t *testing.T) {
		rows := userDefinedTable()
		// keep the first ambient block and one row of the second
		_, err := ParseUserDefined(rows[:22])
		assert.ErrorIs(t, err, ErrShortTable)
	})

	t.Run("zero heat input", func(t *testing.T) {
		rows := userDefinedTable()
		rows[12][ColHeat] = 0
		u, err := ParseUserDefined(rows)
		require.NoError(t, err)
		_, err = u.PartLoad(0.4)
		assert.ErrorIs(t, err, ErrZeroHeatInput)
	})
}
