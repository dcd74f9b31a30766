package types

import (
	"errors"
	"fmt"
	"math"
)

// CurrentPlantVersion is the current version of the Plant struct.
// Increment this value when adding new fields that require default values.
const CurrentPlantVersion = 2

var ErrInvalidDesign = errors.New("invalid plant design")

// ReceiverMode is the receiver operating mode reported by the plant
// simulator.
type ReceiverMode int

const (
	ReceiverModeOff     ReceiverMode = 0
	ReceiverModeStartup ReceiverMode = 1
	ReceiverModeOn      ReceiverMode = 2
)

// CycleMode is the power cycle operating mode reported by the plant
// simulator.
type CycleMode int

const (
	CycleModeStartup           CycleMode = 0
	CycleModeOn                CycleMode = 1
	CycleModeStandby           CycleMode = 2
	CycleModeOff               CycleMode = 3
	CycleModeStartupControlled CycleMode = 4
)

// Plant is everything needed to build one dispatch horizon for a plant.
type Plant struct {
	ID       string      `json:"id" yaml:"id"`
	Version  int         `json:"version" yaml:"version"`
	Design   PlantDesign `json:"design" yaml:"design"`
	State    PlantState  `json:"state" yaml:"state"`
	Tables   CycleTables `json:"tables" yaml:"tables"`
	Forecast Forecast    `json:"forecast" yaml:"forecast"`
}

// PlantDesign holds the design constants of a trough or tower plant with two
// tank molten salt storage.
type PlantDesign struct {
	Name string `json:"name" yaml:"name"`

	// Power cycle rated gross output (MWe)
	CycleRatedPower float64 `json:"cycleRatedPower" yaml:"cycleRatedPower"`
	// Power cycle design efficiency (-)
	CycleNominalEfficiency float64 `json:"cycleNominalEfficiency" yaml:"cycleNominalEfficiency"`
	// Field design thermal output over cycle design thermal input (-)
	SolarMultiple float64 `json:"solarMultiple" yaml:"solarMultiple"`
	// Hours of cycle design thermal input held by storage (hr)
	TESHours float64 `json:"tesHours" yaml:"tesHours"`

	// Receiver
	ReceiverStartupDelay          float64 `json:"receiverStartupDelay" yaml:"receiverStartupDelay"`                   // hr
	ReceiverStartupEnergyFraction float64 `json:"receiverStartupEnergyFraction" yaml:"receiverStartupEnergyFraction"` // of field rating
	MinimumReceiverPowerFraction  float64 `json:"minimumReceiverPowerFraction" yaml:"minimumReceiverPowerFraction"`   // of field rating
	ReceiverPumpingLosses         float64 `json:"receiverPumpingLosses" yaml:"receiverPumpingLosses"`                 // MWe/MWt
	FieldTrackingPower            float64 `json:"fieldTrackingPower" yaml:"fieldTrackingPower"`                       // MWe
	FieldStartupPower             float64 `json:"fieldStartupPower" yaml:"fieldStartupPower"`                         // kWe-hr per unit
	ReflectorUnits                int     `json:"reflectorUnits" yaml:"reflectorUnits"`

	// Cycle
	CycleStartupTime     float64 `json:"cycleStartupTime" yaml:"cycleStartupTime"`         // hr
	CycleStartupFraction float64 `json:"cycleStartupFraction" yaml:"cycleStartupFraction"` // of cycle thermal rating
	CycleCutoffFraction  float64 `json:"cycleCutoffFraction" yaml:"cycleCutoffFraction"`
	CycleMaxFraction     float64 `json:"cycleMaxFraction" yaml:"cycleMaxFraction"`
	CyclePumpCoefficient float64 `json:"cyclePumpCoefficient" yaml:"cyclePumpCoefficient"` // kW/(kg/s)
	CycleDesignMassFlow  float64 `json:"cycleDesignMassFlow" yaml:"cycleDesignMassFlow"`   // kg/s
	// Design cooling parasitic as a percent of gross output, used with
	// user-defined cycle tables
	DesignCoolingPercent float64 `json:"designCoolingPercent" yaml:"designCoolingPercent"`

	// Storage
	DesignStorageMass        float64 `json:"designStorageMass" yaml:"designStorageMass"`               // kg
	HTFColdDesignTemperature float64 `json:"htfColdDesignTemperature" yaml:"htfColdDesignTemperature"` // C
}

// CycleThermalRating is the cycle design thermal input (MWt).
func (d PlantDesign) CycleThermalRating() float64 {
	return d.CycleRatedPower / d.CycleNominalEfficiency
}

// FieldThermalRating is the field design thermal output (MWt).
func (d PlantDesign) FieldThermalRating() float64 {
	return d.SolarMultiple * d.CycleThermalRating()
}

// Validate checks the design for values the dispatch model cannot use.
func (d PlantDesign) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"cycleRatedPower", d.CycleRatedPower},
		{"solarMultiple", d.SolarMultiple},
		{"receiverStartupDelay", d.ReceiverStartupDelay},
		{"cycleStartupTime", d.CycleStartupTime},
		{"cycleMaxFraction", d.CycleMaxFraction},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidDesign, p.name, p.value)
		}
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"tesHours", d.TESHours},
		{"receiverStartupEnergyFraction", d.ReceiverStartupEnergyFraction},
		{"minimumReceiverPowerFraction", d.MinimumReceiverPowerFraction},
		{"receiverPumpingLosses", d.ReceiverPumpingLosses},
		{"fieldTrackingPower", d.FieldTrackingPower},
		{"fieldStartupPower", d.FieldStartupPower},
		{"cycleStartupFraction", d.CycleStartupFraction},
		{"cycleCutoffFraction", d.CycleCutoffFraction},
		{"cyclePumpCoefficient", d.CyclePumpCoefficient},
		{"cycleDesignMassFlow", d.CycleDesignMassFlow},
		{"designCoolingPercent", d.DesignCoolingPercent},
		{"designStorageMass", d.DesignStorageMass},
	}
	for _, p := range nonNegative {
		if math.IsNaN(p.value) || p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidDesign, p.name, p.value)
		}
	}
	if !(d.CycleNominalEfficiency > 0 && d.CycleNominalEfficiency <= 1) {
		return fmt.Errorf("%w: cycleNominalEfficiency must be in (0, 1], got %g", ErrInvalidDesign, d.CycleNominalEfficiency)
	}
	if d.CycleCutoffFraction >= d.CycleMaxFraction {
		return fmt.Errorf("%w: cycleCutoffFraction %g must be below cycleMaxFraction %g", ErrInvalidDesign, d.CycleCutoffFraction, d.CycleMaxFraction)
	}
	if d.ReflectorUnits < 0 {
		return fmt.Errorf("%w: reflectorUnits must not be negative, got %d", ErrInvalidDesign, d.ReflectorUnits)
	}
	return nil
}

// PlantState is the physical state snapshot at the start of a horizon.
type PlantState struct {
	// Hot tank temperature (C)
	HotTankTemperature float64 `json:"hotTankTemperature" yaml:"hotTankTemperature"`
	// Fraction of the design storage mass in the hot tank (-)
	HotTankMassFraction float64 `json:"hotTankMassFraction" yaml:"hotTankMassFraction"`
	// HTF specific heat at the mean of hot tank and cold design temperature (J/kg/K)
	HTFSpecificHeat float64 `json:"htfSpecificHeat" yaml:"htfSpecificHeat"`

	ReceiverMode ReceiverMode `json:"receiverMode" yaml:"receiverMode"`
	CycleMode    CycleMode    `json:"cycleMode" yaml:"cycleMode"`

	// Remaining cycle startup energy (kWh). The simulator stops reporting it
	// once startup completes, which is stored as nil.
	CycleStartupEnergyRemaining *float64 `json:"cycleStartupEnergyRemaining,omitempty" yaml:"cycleStartupEnergyRemaining,omitempty"`
	// Thermal power into the cycle (MWt)
	HeatIntoCycle float64 `json:"heatIntoCycle" yaml:"heatIntoCycle"`
}

// StartupEnergyRemaining returns the remaining cycle startup energy in kWh,
// or NaN when it was not reported.
func (s PlantState) StartupEnergyRemaining() float64 {
	if s.CycleStartupEnergyRemaining == nil {
		return math.NaN()
	}
	return *s.CycleStartupEnergyRemaining
}

// CycleTables holds the tabulated off-design cycle performance. Either the
// load and ambient tables or the user-defined table are used.
type CycleTables struct {
	// Rows of (thermal input MWt, efficiency)
	LoadEfficiency [][]float64 `json:"loadEfficiency,omitempty" yaml:"loadEfficiency,omitempty"`
	// Rows of (dry bulb C, efficiency multiplier)
	AmbientEfficiency [][]float64 `json:"ambientEfficiency,omitempty" yaml:"ambientEfficiency,omitempty"`
	// Rows of (dry bulb C, fraction of design gross output used for cooling)
	AmbientCondenser [][]float64 `json:"ambientCondenser,omitempty" yaml:"ambientCondenser,omitempty"`
	// Combined table, see curve.ParseUserDefined
	UserDefined [][]float64 `json:"userDefined,omitempty" yaml:"userDefined,omitempty"`
}

// Forecast holds the annual hourly forecasts for a plant.
type Forecast struct {
	// Thermal power available from the field (MWt)
	ThermalResource []float64 `json:"thermalResource" yaml:"thermalResource"`
	// Ambient dry bulb temperature (C)
	DryBulbTemperature []float64 `json:"dryBulbTemperature" yaml:"dryBulbTemperature"`
}

// MigratePlant fills defaults added after version currentVersion.
func MigratePlant(p Plant, currentVersion int) (Plant, bool, error) {
	if currentVersion >= CurrentPlantVersion {
		return p, false, nil
	}

	migrated := false
	d := &p.Design
	for version := currentVersion + 1; version <= CurrentPlantVersion; version++ {
		switch version {
		case 1:
			// version 1: cycle operating range and startup
			if d.CycleCutoffFraction == 0 {
				d.CycleCutoffFraction = 0.2
				migrated = true
			}
			if d.CycleMaxFraction == 0 {
				d.CycleMaxFraction = 1.05
				migrated = true
			}
			if d.CycleStartupTime == 0 {
				d.CycleStartupTime = 0.5
				migrated = true
			}
			if d.CycleStartupFraction == 0 {
				d.CycleStartupFraction = 0.5
				migrated = true
			}
			if d.CyclePumpCoefficient == 0 {
				d.CyclePumpCoefficient = 0.55
				migrated = true
			}
		case 2:
			// version 2: receiver startup and minimum turndown
			if d.ReceiverStartupDelay == 0 {
				d.ReceiverStartupDelay = 0.2
				migrated = true
			}
			if d.ReceiverStartupEnergyFraction == 0 {
				d.ReceiverStartupEnergyFraction = 0.25
				migrated = true
			}
			if d.MinimumReceiverPowerFraction == 0 {
				d.MinimumReceiverPowerFraction = 0.25
				migrated = true
			}
		default:
			return p, false, fmt.Errorf("unknown plant version: %d", version)
		}
	}
	p.Version = CurrentPlantVersion
	return p, migrated, nil
}
