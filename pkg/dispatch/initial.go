package dispatch

import (
	"math"

	"github.com/raterudder/cspdispatch/pkg/types"
)

// startupSnapTolerance is the relative distance from the required cycle
// startup energy within which the initial inventory is treated as complete.
const startupSnapTolerance = 1e-6

// InitialState is the plant condition the first period links to.
type InitialState struct {
	ThermalEnergyStorage     float64 // MWht
	ReceiverStartupInventory float64 // MWht
	IsFieldGenerating        bool
	IsFieldStarting          bool
	CycleStartupInventory    float64 // MWht
	CycleThermalPower        float64 // MWt
	IsCycleGenerating        bool
	IsCycleStarting          bool
}

// AdaptInitialState converts a plant state snapshot into initial conditions.
// storageCapacity and cycleRequired are the storage capacity and cycle
// required startup energy in MWht.
func AdaptInitialState(design types.PlantDesign, state types.PlantState, storageCapacity, cycleRequired float64) InitialState {
	hotMass := state.HotTankMassFraction * design.DesignStorageMass
	// J to MWh
	stored := hotMass * state.HTFSpecificHeat * (state.HotTankTemperature - design.HTFColdDesignTemperature) * 1e-6 / 3600

	s := InitialState{
		ThermalEnergyStorage: math.Max(0, math.Min(storageCapacity, stored)),
		IsFieldGenerating:    state.ReceiverMode == types.ReceiverModeOn,
		IsFieldStarting:      state.ReceiverMode == types.ReceiverModeStartup,
		IsCycleGenerating:    state.CycleMode == types.CycleModeOn,
		IsCycleStarting: state.CycleMode == types.CycleModeStartup ||
			state.CycleMode == types.CycleModeStartupControlled,
	}

	// remaining energy is reported in kWh and is not reported at all once
	// startup has completed
	remaining := state.StartupEnergyRemaining()
	if math.IsNaN(remaining) {
		s.CycleStartupInventory = cycleRequired
	} else {
		s.CycleStartupInventory = math.Max(0, cycleRequired-remaining/1e3)
		if s.CycleStartupInventory > (1-startupSnapTolerance)*cycleRequired {
			s.CycleStartupInventory = cycleRequired
		}
	}

	if s.IsCycleGenerating {
		s.CycleThermalPower = state.HeatIntoCycle
	}
	return s
}

// UpdateInitialConditions recomputes the initial condition from state using
// the storage capacity and cycle startup energy already set on p.
func UpdateInitialConditions(p *Parameters, design types.PlantDesign, state types.PlantState) {
	p.SetInitial(AdaptInitialState(design, state, p.StorageCapacity.First(), p.CycleRequiredStartupEnergy.First()))
}
