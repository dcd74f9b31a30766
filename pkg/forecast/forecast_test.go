package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5}

	tests := []struct {
		name  string
		start int
		n     int
		want  []float64
	}{
		{name: "inside", start: 1, n: 3, want: []float64{1, 2, 3}},
		{name: "to end", start: 3, n: 3, want: []float64{3, 4, 5}},
		{name: "wraps", start: 4, n: 4, want: []float64{4, 5, 0, 1}},
		{name: "start past end", start: 8, n: 2, want: []float64{2, 3}},
		{name: "longer than year", start: 5, n: 9, want: []float64{5, 0, 1, 2, 3, 4, 5, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(values, tt.start, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("does not alias input", func(t *testing.T) {
		got, err := Project(values, 0, 2)
		require.NoError(t, err)
		got[0] = 99
		assert.Equal(t, 0.0, values[0])
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Project(nil, 0, 1)
		assert.ErrorIs(t, err, ErrEmpty)
		_, err = Project(values, -1, 1)
		assert.ErrorIs(t, err, ErrNegativeStart)
		_, err = Project(values, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidLength)
	})
}

func TestProjectWindow(t *testing.T) {
	w, err := ProjectWindow([]float64{10, 20, 30}, []float64{1, 2, 3}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Start)
	assert.Equal(t, []float64{30, 10}, w.ThermalResource)
	assert.Equal(t, []float64{3, 1}, w.DryBulbTemperature)

	_, err = ProjectWindow([]float64{1}, nil, 0, 1)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorContains(t, err, "dry bulb temperature")
}

func TestHorizonTimes(t *testing.T) {
	t.Run("inside year", func(t *testing.T) {
		start, end := HorizonTimes(24, 48)
		assert.Equal(t, time.Date(2009, time.January, 2, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2009, time.January, 4, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("capped at year end", func(t *testing.T) {
		start, end := HorizonTimes(HoursPerYear-2, 24)
		assert.Equal(t, time.Date(2009, time.December, 31, 22, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("seconds since new year", func(t *testing.T) {
		assert.Equal(t, 3600*5, SecondsSinceNewYear(HourOfYear(5)))
	})

	t.Run("hour index", func(t *testing.T) {
		assert.Equal(t, 0, HourIndex(time.Date(2024, time.January, 1, 0, 30, 0, 0, time.UTC)))
		assert.Equal(t, 37, HourIndex(time.Date(2023, time.January, 2, 13, 0, 0, 0, time.UTC)))
		assert.Equal(t, 5, HourIndex(HourOfYear(5)))
	})

	t.Run("hour index in a leap year", func(t *testing.T) {
		assert.Equal(t, HoursPerYear-1, HourIndex(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)))
		assert.Equal(t, 8748, HourIndex(time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)))
		assert.Equal(t,
			HourIndex(time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)),
			HourIndex(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 1416, HourIndex(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
		// leap day reads 28 February
		assert.Equal(t,
			HourIndex(time.Date(2024, time.February, 28, 7, 0, 0, 0, time.UTC)),
			HourIndex(time.Date(2024, time.February, 29, 7, 0, 0, 0, time.UTC)))
	})

	t.Run("hour index uses utc", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		assert.Equal(t, HoursPerYear-1, HourIndex(time.Date(2023, time.December, 31, 18, 0, 0, 0, est)))
	})
}
