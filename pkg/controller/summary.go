package controller

import (
	"time"

	"github.com/raterudder/cspdispatch/pkg/forecast"
)

// PeriodSummary is the input side of one period of a built horizon.
type PeriodSummary struct {
	TS                    time.Time `json:"ts"`
	Hour                  int       `json:"hour"`
	DurationHours         float64   `json:"durationHours"`
	AvailableThermalMW    float64   `json:"availableThermalMW"`
	AmbientEfficiency     float64   `json:"ambientEfficiency"`
	CondenserLosses       float64   `json:"condenserLosses"`
	MaximumCycleThermalMW float64   `json:"maximumCycleThermalMW"`
	StorageCapacityMWh    float64   `json:"storageCapacityMWh"`
	ReceiverCanStart      bool      `json:"receiverCanStart"`
	FieldCanRunCycle      bool      `json:"fieldCanRunCycle"`
}

// Summarize returns one summary row per period, stamped with the hour of the
// forecast year it was projected from.
func (b *Build) Summarize() []PeriodSummary {
	p := b.Parameters
	out := make([]PeriodSummary, p.Periods())
	for t := range out {
		hour := (b.Start + t) % forecast.HoursPerYear
		available := p.AvailableThermalGeneration.At(t)
		out[t] = PeriodSummary{
			TS:                    forecast.HourOfYear(hour),
			Hour:                  hour,
			DurationHours:         p.TimeDuration.At(t),
			AvailableThermalMW:    available,
			AmbientEfficiency:     p.CycleAmbientEfficiencyCorrection.At(t),
			CondenserLosses:       p.CondenserLosses.At(t),
			MaximumCycleThermalMW: p.MaximumCycleThermalPower.At(t),
			StorageCapacityMWh:    p.StorageCapacity.At(t),
			ReceiverCanStart:      available >= p.MinimumReceiverPower.At(t),
			FieldCanRunCycle:      available >= p.MinimumCycleThermalPower.At(t),
		}
	}
	return out
}
