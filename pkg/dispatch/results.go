package dispatch

import (
	"math"

	"github.com/raterudder/cspdispatch/pkg/milp"
	"github.com/raterudder/cspdispatch/pkg/series"
)

// value returns the rounded solved value of the variable picked from each
// block. Unassigned variables read as NaN.
func (h *Horizon) value(pick func(Block) milp.Var) []float64 {
	out := make([]float64, len(h.Blocks))
	for t, b := range h.Blocks {
		x, ok := h.Model.Value(pick(b))
		if !ok {
			x = math.NaN()
		}
		out[t] = x
	}
	return series.RoundAll(out)
}

func (h *Horizon) ThermalEnergyStorage() []float64 {
	return h.value(func(b Block) milp.Var { return b.ThermalEnergyStorage })
}

func (h *Horizon) ReceiverStartupInventory() []float64 {
	return h.value(func(b Block) milp.Var { return b.ReceiverStartupInventory })
}

func (h *Horizon) ReceiverThermalPower() []float64 {
	return h.value(func(b Block) milp.Var { return b.ReceiverThermalPower })
}

func (h *Horizon) ReceiverStartupConsumption() []float64 {
	return h.value(func(b Block) milp.Var { return b.ReceiverStartupConsumption })
}

func (h *Horizon) IsFieldGenerating() []float64 {
	return h.value(func(b Block) milp.Var { return b.IsFieldGenerating })
}

func (h *Horizon) IsFieldStarting() []float64 {
	return h.value(func(b Block) milp.Var { return b.IsFieldStarting })
}

func (h *Horizon) IncurFieldStart() []float64 {
	return h.value(func(b Block) milp.Var { return b.IncurFieldStart })
}

func (h *Horizon) CycleStartupInventory() []float64 {
	return h.value(func(b Block) milp.Var { return b.CycleStartupInventory })
}

func (h *Horizon) SystemLoad() []float64 {
	return h.value(func(b Block) milp.Var { return b.SystemLoad })
}

func (h *Horizon) CycleGeneration() []float64 {
	return h.value(func(b Block) milp.Var { return b.CycleGeneration })
}

func (h *Horizon) CycleThermalRamp() []float64 {
	return h.value(func(b Block) milp.Var { return b.CycleThermalRamp })
}

func (h *Horizon) CycleThermalPower() []float64 {
	return h.value(func(b Block) milp.Var { return b.CycleThermalPower })
}

func (h *Horizon) IsCycleGenerating() []float64 {
	return h.value(func(b Block) milp.Var { return b.IsCycleGenerating })
}

func (h *Horizon) IsCycleStarting() []float64 {
	return h.value(func(b Block) milp.Var { return b.IsCycleStarting })
}

func (h *Horizon) IncurCycleStart() []float64 {
	return h.value(func(b Block) milp.Var { return b.IncurCycleStart })
}

// Results is a snapshot of every solved output series.
type Results struct {
	ThermalEnergyStorage       []float64 `json:"thermalEnergyStorage"`
	ReceiverStartupInventory   []float64 `json:"receiverStartupInventory"`
	ReceiverThermalPower       []float64 `json:"receiverThermalPower"`
	ReceiverStartupConsumption []float64 `json:"receiverStartupConsumption"`
	IsFieldGenerating          []float64 `json:"isFieldGenerating"`
	IsFieldStarting            []float64 `json:"isFieldStarting"`
	IncurFieldStart            []float64 `json:"incurFieldStart"`
	CycleStartupInventory      []float64 `json:"cycleStartupInventory"`
	SystemLoad                 []float64 `json:"systemLoad"`
	CycleGeneration            []float64 `json:"cycleGeneration"`
	CycleThermalRamp           []float64 `json:"cycleThermalRamp"`
	CycleThermalPower          []float64 `json:"cycleThermalPower"`
	IsCycleGenerating          []float64 `json:"isCycleGenerating"`
	IsCycleStarting            []float64 `json:"isCycleStarting"`
	IncurCycleStart            []float64 `json:"incurCycleStart"`
}

// Results collects every output series.
func (h *Horizon) Results() Results {
	return Results{
		ThermalEnergyStorage:       h.ThermalEnergyStorage(),
		ReceiverStartupInventory:   h.ReceiverStartupInventory(),
		ReceiverThermalPower:       h.ReceiverThermalPower(),
		ReceiverStartupConsumption: h.ReceiverStartupConsumption(),
		IsFieldGenerating:          h.IsFieldGenerating(),
		IsFieldStarting:            h.IsFieldStarting(),
		IncurFieldStart:            h.IncurFieldStart(),
		CycleStartupInventory:      h.CycleStartupInventory(),
		SystemLoad:                 h.SystemLoad(),
		CycleGeneration:            h.CycleGeneration(),
		CycleThermalRamp:           h.CycleThermalRamp(),
		CycleThermalPower:          h.CycleThermalPower(),
		IsCycleGenerating:          h.IsCycleGenerating(),
		IsCycleStarting:            h.IsCycleStarting(),
		IncurCycleStart:            h.IncurCycleStart(),
	}
}
