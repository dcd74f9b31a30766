package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raterudder/cspdispatch/pkg/curve"
	"github.com/raterudder/cspdispatch/pkg/forecast"
	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/series"
	"github.com/raterudder/cspdispatch/pkg/types"
	"gonum.org/v1/gonum/floats"
)

// Default costs applied by InitializeParameters.
const (
	DefaultCostPerFieldGeneration    = 0.5  // $/MWht
	DefaultCostPerCycleGeneration    = 2.0  // $/MWhe
	DefaultCostPerChangeThermalInput = 0.5  // $/MWt
	fieldStartCostPerRatedThermal    = 1.5  // $/start per MWt of field rating
	cycleStartCostPerRatedPower      = 40.0 // $/start per MWe of cycle rating
)

type scalarSetting struct {
	s *series.Series[float64]
	v func() float64
}

func setScalars(settings []scalarSetting) error {
	for _, st := range settings {
		if err := st.s.SetScalar(st.v()); err != nil {
			return err
		}
	}
	return nil
}

// InitializeParameters sets the costs, limits and performance coefficients
// that depend only on the plant design and cycle tables.
func InitializeParameters(ctx context.Context, p *Parameters, design types.PlantDesign, tables types.CycleTables) error {
	if err := design.Validate(); err != nil {
		return err
	}
	cycleRated := design.CycleThermalRating()
	fieldRated := design.FieldThermalRating()

	// later values read earlier ones after rounding
	err := setScalars([]scalarSetting{
		{p.CostPerFieldGeneration, func() float64 { return DefaultCostPerFieldGeneration }},
		{p.CostPerFieldStart, func() float64 { return fieldStartCostPerRatedThermal * fieldRated }},
		{p.CostPerCycleGeneration, func() float64 { return DefaultCostPerCycleGeneration }},
		{p.CostPerCycleStart, func() float64 { return cycleStartCostPerRatedPower * design.CycleRatedPower }},
		{p.CostPerChangeThermalInput, func() float64 { return DefaultCostPerChangeThermalInput }},

		{p.FieldStartupLosses, func() float64 { return design.FieldStartupPower * float64(design.ReflectorUnits) / 1e3 }},
		{p.ReceiverRequiredStartupEnergy, func() float64 { return design.ReceiverStartupEnergyFraction * fieldRated }},
		{p.StorageCapacity, func() float64 { return design.TESHours * cycleRated }},
		{p.MinimumReceiverPower, func() float64 { return design.MinimumReceiverPowerFraction * fieldRated }},
		{p.AllowableReceiverStartupPower, func() float64 {
			return p.ReceiverRequiredStartupEnergy.First() / design.ReceiverStartupDelay
		}},
		{p.ReceiverPumpingLosses, func() float64 { return design.ReceiverPumpingLosses }},
		{p.FieldTrackLosses, func() float64 { return design.FieldTrackingPower }},

		{p.CycleRequiredStartupEnergy, func() float64 { return design.CycleStartupFraction * cycleRated }},
		{p.CycleNominalEfficiency, func() float64 { return design.CycleNominalEfficiency }},
		{p.CyclePumpingLosses, func() float64 {
			return design.CyclePumpCoefficient * design.CycleDesignMassFlow / (cycleRated * 1e3)
		}},
		{p.AllowableCycleStartupPower, func() float64 {
			return p.CycleRequiredStartupEnergy.First() / design.CycleStartupTime
		}},
		{p.MinimumCycleThermalPower, func() float64 { return design.CycleCutoffFraction * cycleRated }},
		{p.MaximumCycleThermalPower, func() float64 { return design.CycleMaxFraction * cycleRated }},
	})
	if err != nil {
		return err
	}
	return setPartLoadParameters(ctx, p, design, tables)
}

// setPartLoadParameters fits the cycle performance line over the operating
// range. Without a table the cycle runs at nominal efficiency at every load.
func setPartLoadParameters(ctx context.Context, p *Parameters, design types.PlantDesign, tables types.CycleTables) error {
	nominal := design.CycleNominalEfficiency
	rated := design.CycleThermalRating()
	maxThermal := p.MaximumCycleThermalPower.First()

	var efficiency curve.Curve
	switch {
	case len(tables.LoadEfficiency) > 0:
		c, err := curve.FromRows(tables.LoadEfficiency)
		if err != nil {
			return fmt.Errorf("load efficiency table: %w", err)
		}
		// table is in MWt, the fit is in load fraction
		efficiency = c.ScaleX(1 / rated)
	case len(tables.UserDefined) > 0:
		u, err := curve.ParseUserDefined(tables.UserDefined)
		if err != nil {
			return fmt.Errorf("user-defined cycle table: %w", err)
		}
		if efficiency, err = u.PartLoad(nominal); err != nil {
			return fmt.Errorf("user-defined cycle table: %w", err)
		}
	default:
		log.Ctx(ctx).WarnContext(ctx, "cycle part-load efficiency table missing, using constant efficiency vs load",
			slog.Float64("nominalEfficiency", nominal),
		)
		return setScalars([]scalarSetting{
			{p.CyclePerformanceSlope, func() float64 { return nominal }},
			{p.MaximumCyclePower, func() float64 { return maxThermal * nominal }},
		})
	}

	fit, err := curve.LinearizePartLoad(efficiency, design.CycleCutoffFraction, design.CycleMaxFraction, rated)
	if err != nil {
		return fmt.Errorf("cycle part-load fit: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "linearized cycle part-load efficiency",
		slog.Float64("slope", fit.Slope),
		slog.Float64("intercept", fit.Intercept),
		slog.Float64("lowerEfficiency", fit.LowerEfficiency),
		slog.Float64("upperEfficiency", fit.UpperEfficiency),
	)
	return setScalars([]scalarSetting{
		{p.CyclePerformanceSlope, func() float64 { return fit.Slope }},
		{p.MaximumCyclePower, func() float64 { return fit.MaximumPower(maxThermal) }},
	})
}

// UpdateTimeSeriesParameters sets hourly durations, the available thermal
// resource and the ambient corrections for the horizon starting at hour
// start of the year, then refreshes the initial condition.
func UpdateTimeSeriesParameters(ctx context.Context, p *Parameters, plant types.Plant, start int) error {
	if err := p.TimeDuration.SetScalar(1); err != nil {
		return err
	}

	w, err := forecast.ProjectWindow(plant.Forecast.ThermalResource, plant.Forecast.DryBulbTemperature, start, p.Periods())
	if err != nil {
		return err
	}
	if err := p.AvailableThermalGeneration.SetSeries(w.ThermalResource); err != nil {
		return err
	}
	log.Ctx(ctx).DebugContext(ctx, "projected forecast",
		slog.Int("start", start),
		slog.Float64("availableThermalEnergy", floats.Sum(w.ThermalResource)),
		slog.Float64("maxDryBulbTemperature", floats.Max(w.DryBulbTemperature)),
		slog.Float64("minDryBulbTemperature", floats.Min(w.DryBulbTemperature)),
	)

	if err := setAmbientParameters(ctx, p, plant.Design, plant.Tables, w.DryBulbTemperature); err != nil {
		return err
	}
	UpdateInitialConditions(p, plant.Design, plant.State)
	return nil
}

// setAmbientParameters sets the per-period efficiency correction and
// condenser losses. Without tables the cycle runs at nominal efficiency with
// no condenser loss. The two ambient tables must be given together.
func setAmbientParameters(ctx context.Context, p *Parameters, design types.PlantDesign, tables types.CycleTables, temperatures []float64) error {
	nominal := design.CycleNominalEfficiency

	var amb curve.Ambient
	switch {
	case len(tables.AmbientEfficiency) > 0:
		if len(tables.AmbientCondenser) == 0 {
			return fmt.Errorf("%w: ambient efficiency table without condenser table", ErrInvalidParameters)
		}
		eff, err := curve.FromRows(tables.AmbientEfficiency)
		if err != nil {
			return fmt.Errorf("ambient efficiency table: %w", err)
		}
		cond, err := curve.FromRows(tables.AmbientCondenser)
		if err != nil {
			return fmt.Errorf("ambient condenser table: %w", err)
		}
		// table holds a multiplier on nominal efficiency
		amb = curve.Ambient{Efficiency: eff.ScaleY(nominal), Condenser: cond}
	case len(tables.AmbientCondenser) > 0:
		return fmt.Errorf("%w: ambient condenser table without efficiency table", ErrInvalidParameters)
	case len(tables.UserDefined) > 0:
		u, err := curve.ParseUserDefined(tables.UserDefined)
		if err != nil {
			return fmt.Errorf("user-defined cycle table: %w", err)
		}
		if amb, err = u.Ambient(nominal, design.DesignCoolingPercent); err != nil {
			return fmt.Errorf("user-defined cycle table: %w", err)
		}
	default:
		log.Ctx(ctx).WarnContext(ctx, "cycle ambient temperature corrections missing, using nominal efficiency",
			slog.Float64("nominalEfficiency", nominal),
		)
		return setCorrections(p, curve.ConstantCorrections(nominal, len(temperatures)))
	}

	if err := amb.Validate(); err != nil {
		return fmt.Errorf("%w: ambient corrections: %w", ErrInvalidParameters, err)
	}
	return setCorrections(p, amb.Evaluate(temperatures))
}

func setCorrections(p *Parameters, corrections curve.Corrections) error {
	if err := p.CycleAmbientEfficiencyCorrection.SetSeries(corrections.Efficiency); err != nil {
		return err
	}
	return p.CondenserLosses.SetSeries(corrections.Condenser)
}
