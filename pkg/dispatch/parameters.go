package dispatch

import (
	"errors"
	"fmt"

	"github.com/raterudder/cspdispatch/pkg/series"
)

var ErrInvalidParameters = errors.New("invalid dispatch parameters")

// Parameters holds every parameter read while building a horizon. Each one
// is a per-period series; scalar settings are broadcast to every period.
type Parameters struct {
	n int

	// Time series
	TimeDuration                     *series.Series[float64] // hr
	AvailableThermalGeneration       *series.Series[float64] // MWt
	CycleAmbientEfficiencyCorrection *series.Series[float64] // -
	CondenserLosses                  *series.Series[float64] // fraction of generation

	// Costs
	CostPerFieldGeneration    *series.Series[float64] // $/MWht
	CostPerFieldStart         *series.Series[float64] // $/start
	CostPerCycleGeneration    *series.Series[float64] // $/MWhe
	CostPerCycleStart         *series.Series[float64] // $/start
	CostPerChangeThermalInput *series.Series[float64] // $/MWt

	// Field, receiver and storage
	FieldStartupLosses            *series.Series[float64] // MWhe
	ReceiverRequiredStartupEnergy *series.Series[float64] // MWht
	StorageCapacity               *series.Series[float64] // MWht
	ReceiverPumpingLosses         *series.Series[float64] // MWe/MWt
	MinimumReceiverPower          *series.Series[float64] // MWt
	AllowableReceiverStartupPower *series.Series[float64] // MWt
	FieldTrackLosses              *series.Series[float64] // MWe

	// Power cycle
	CycleRequiredStartupEnergy *series.Series[float64] // MWht
	CycleNominalEfficiency     *series.Series[float64] // -
	CyclePerformanceSlope      *series.Series[float64] // MWe/MWt
	CyclePumpingLosses         *series.Series[float64] // MWe/MWt
	AllowableCycleStartupPower *series.Series[float64] // MWt
	MinimumCycleThermalPower   *series.Series[float64] // MWt
	MaximumCycleThermalPower   *series.Series[float64] // MWt
	MaximumCyclePower          *series.Series[float64] // MWe

	Initial InitialState
}

// NewParameters returns parameters for an n period horizon. Durations
// default to one hour and the minimum receiver power to 1 MWt; everything
// else starts at zero.
func NewParameters(n int) *Parameters {
	if n <= 0 {
		panic(fmt.Sprintf("dispatch: horizon length must be positive, got %d", n))
	}
	f := func(name string) *series.Series[float64] {
		return series.New[float64](name, n)
	}
	p := &Parameters{
		n: n,

		TimeDuration:                     f("time_duration"),
		AvailableThermalGeneration:       f("available_thermal_generation"),
		CycleAmbientEfficiencyCorrection: f("cycle_ambient_efficiency_correction").Bounded(0, 1),
		CondenserLosses:                  f("condenser_losses"),

		CostPerFieldGeneration:    f("cost_per_field_generation"),
		CostPerFieldStart:         f("cost_per_field_start"),
		CostPerCycleGeneration:    f("cost_per_cycle_generation"),
		CostPerCycleStart:         f("cost_per_cycle_start"),
		CostPerChangeThermalInput: f("cost_per_change_thermal_input"),

		FieldStartupLosses:            f("field_startup_losses"),
		ReceiverRequiredStartupEnergy: f("receiver_required_startup_energy"),
		StorageCapacity:               f("storage_capacity"),
		ReceiverPumpingLosses:         f("receiver_pumping_losses"),
		MinimumReceiverPower:          f("minimum_receiver_power"),
		AllowableReceiverStartupPower: f("allowable_receiver_startup_power"),
		FieldTrackLosses:              f("field_track_losses"),

		CycleRequiredStartupEnergy: f("cycle_required_startup_energy"),
		CycleNominalEfficiency:     f("cycle_nominal_efficiency").Bounded(0, 1),
		CyclePerformanceSlope:      f("cycle_performance_slope"),
		CyclePumpingLosses:         f("cycle_pumping_losses"),
		AllowableCycleStartupPower: f("allowable_cycle_startup_power"),
		MinimumCycleThermalPower:   f("minimum_cycle_thermal_power"),
		MaximumCycleThermalPower:   f("maximum_cycle_thermal_power"),
		MaximumCyclePower:          f("maximum_cycle_power"),
	}
	mustSet(p.TimeDuration.SetScalar(1))
	mustSet(p.MinimumReceiverPower.SetScalar(1))
	return p
}

func mustSet(err error) {
	if err != nil {
		panic(err)
	}
}

// Periods returns the horizon length.
func (p *Parameters) Periods() int {
	return p.n
}

// SetInitial stores the initial condition, rounding energies and powers.
func (p *Parameters) SetInitial(s InitialState) {
	s.ThermalEnergyStorage = series.Round(s.ThermalEnergyStorage)
	s.ReceiverStartupInventory = series.Round(s.ReceiverStartupInventory)
	s.CycleStartupInventory = series.Round(s.CycleStartupInventory)
	s.CycleThermalPower = series.Round(s.CycleThermalPower)
	p.Initial = s
}

// Series returns every parameter series in declaration order.
func (p *Parameters) Series() []*series.Series[float64] {
	return []*series.Series[float64]{
		p.TimeDuration,
		p.AvailableThermalGeneration,
		p.CycleAmbientEfficiencyCorrection,
		p.CondenserLosses,
		p.CostPerFieldGeneration,
		p.CostPerFieldStart,
		p.CostPerCycleGeneration,
		p.CostPerCycleStart,
		p.CostPerChangeThermalInput,
		p.FieldStartupLosses,
		p.ReceiverRequiredStartupEnergy,
		p.StorageCapacity,
		p.ReceiverPumpingLosses,
		p.MinimumReceiverPower,
		p.AllowableReceiverStartupPower,
		p.FieldTrackLosses,
		p.CycleRequiredStartupEnergy,
		p.CycleNominalEfficiency,
		p.CyclePerformanceSlope,
		p.CyclePumpingLosses,
		p.AllowableCycleStartupPower,
		p.MinimumCycleThermalPower,
		p.MaximumCycleThermalPower,
		p.MaximumCyclePower,
	}
}

// Validate rejects parameters the constraint set cannot be built from.
func (p *Parameters) Validate() error {
	for i, s := range p.Series() {
		if s == nil {
			return fmt.Errorf("%w: series %d is missing", ErrInvalidParameters, i)
		}
		if s.Len() != p.n {
			return fmt.Errorf("%w: %s has %d periods, want %d", ErrInvalidParameters, s.Name(), s.Len(), p.n)
		}
	}
	for t := range p.n {
		if p.CycleNominalEfficiency.At(t) <= 0 {
			return fmt.Errorf("%w: cycle_nominal_efficiency must be positive in period %d", ErrInvalidParameters, t)
		}
		if p.TimeDuration.At(t) < 0 {
			return fmt.Errorf("%w: time_duration is negative in period %d", ErrInvalidParameters, t)
		}
	}
	return nil
}
