package curve

import (
	"errors"
	"fmt"
)

var ErrDegenerateRange = errors.New("operating range is empty")

// PartLoad is a single-segment linear fit of cycle electric output against
// thermal input over the operating range [cutoff, max] of rated thermal power.
// Output at thermal input q is Slope*q + Intercept.
type PartLoad struct {
	Slope     float64
	Intercept float64

	// efficiencies interpolated at the range endpoints
	LowerEfficiency float64
	UpperEfficiency float64
	LowerThermal    float64
	UpperThermal    float64
}

// LinearizePartLoad fits the line through the two operating points at the
// cutoff and max load fractions. efficiency maps load fraction to cycle
// efficiency and rated is the cycle design thermal power.
func LinearizePartLoad(efficiency Curve, cutoff, maxFrac, rated float64) (PartLoad, error) {
	if err := efficiency.Validate(); err != nil {
		return PartLoad{}, err
	}
	if rated <= 0 {
		return PartLoad{}, fmt.Errorf("%w: rated thermal power %g", ErrDegenerateRange, rated)
	}
	if maxFrac <= cutoff {
		return PartLoad{}, fmt.Errorf("%w: cutoff %g, max %g", ErrDegenerateRange, cutoff, maxFrac)
	}

	eta0 := efficiency.At(cutoff)
	eta1 := efficiency.At(maxFrac)
	q0 := cutoff * rated
	q1 := maxFrac * rated

	slope := (q1*eta1 - q0*eta0) / (q1 - q0)
	return PartLoad{
		Slope:           slope,
		Intercept:       q1 * (eta1 - slope),
		LowerEfficiency: eta0,
		UpperEfficiency: eta1,
		LowerThermal:    q0,
		UpperThermal:    q1,
	}, nil
}

// Power returns the fitted electric output at thermal input q.
func (p PartLoad) Power(q float64) float64 {
	return p.Slope*q + p.Intercept
}

// MaximumPower returns the output at maxThermal, the value the cycle
// performance relation uses as its calibrated operating point.
func (p PartLoad) MaximumPower(maxThermal float64) float64 {
	return p.Intercept + maxThermal*p.Slope
}
