package forecast

import (
	"errors"
	"fmt"
	"time"
)

// HoursPerYear is the length of the annual forecast arrays. Leap days are
// not represented.
const HoursPerYear = 8760

var (
	ErrEmpty         = errors.New("forecast is empty")
	ErrNegativeStart = errors.New("start period is negative")
	ErrInvalidLength = errors.New("horizon length must be positive")
)

// referenceYear is a non-leap year so that hour-of-year offsets stay aligned
// with an 8760 hour array.
var referenceYear = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)

// Project returns n values of values starting at start. The array is
// treated as periodic: a window running past the end continues from the
// beginning.
func Project(values []float64, start, n int) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeStart, start)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	out := make([]float64, 0, n)
	i := start % len(values)
	for len(out) < n {
		end := min(len(values), i+n-len(out))
		out = append(out, values[i:end]...)
		i = 0
	}
	return out, nil
}

// Window is the forecast slice for one horizon.
type Window struct {
	Start              int
	ThermalResource    []float64
	DryBulbTemperature []float64
}

// ProjectWindow projects the thermal resource and dry bulb temperature
// forecasts onto the horizon [start, start+n).
func ProjectWindow(resource, temperature []float64, start, n int) (Window, error) {
	r, err := Project(resource, start, n)
	if err != nil {
		return Window{}, fmt.Errorf("thermal resource: %w", err)
	}
	tdb, err := Project(temperature, start, n)
	if err != nil {
		return Window{}, fmt.Errorf("dry bulb temperature: %w", err)
	}
	return Window{
		Start:              start,
		ThermalResource:    r,
		DryBulbTemperature: tdb,
	}, nil
}

// HourOfYear returns the time at hour start of the reference year.
func HourOfYear(start int) time.Time {
	return referenceYear.Add(time.Duration(start) * time.Hour)
}

// HorizonTimes returns the start and end times of an hourly horizon
// beginning at hour start. The end never runs past the end of the year.
func HorizonTimes(start, n int) (time.Time, time.Time) {
	begin := HourOfYear(start)
	hours := n
	if start+n > HoursPerYear {
		hours = HoursPerYear - start
	}
	return begin, begin.Add(time.Duration(hours) * time.Hour)
}

// SecondsSinceNewYear returns the seconds between the start of the reference
// year and t.
func SecondsSinceNewYear(t time.Time) int {
	return int(t.Sub(referenceYear) / time.Second)
}

// HourIndex returns the hour of the forecast year matching the month, day and
// hour of t in UTC. 29 February reads the forecast for 28 February.
func HourIndex(t time.Time) int {
	t = t.UTC()
	month, day := t.Month(), t.Day()
	if month == time.February && day == 29 {
		day = 28
	}
	ref := time.Date(referenceYear.Year(), month, day, t.Hour(), 0, 0, 0, time.UTC)
	return int(ref.Sub(referenceYear) / time.Hour)
}
