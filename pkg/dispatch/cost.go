package dispatch

import (
	"github.com/raterudder/cspdispatch/pkg/milp"
)

// OperatingCost returns the horizon operating cost: generation costs scaled
// by period duration plus start penalties and positive thermal ramping.
func OperatingCost(p *Parameters, h *Horizon) milp.Expr {
	var e milp.Expr
	for t, b := range h.Blocks {
		d := p.TimeDuration.At(t)
		e = e.Add(milp.Sum(
			milp.T(d*p.CostPerFieldGeneration.At(t), b.ReceiverThermalPower),
			milp.T(d*p.CostPerCycleGeneration.At(t), b.CycleGeneration),
			milp.T(p.CostPerFieldStart.At(t), b.IncurFieldStart),
			milp.T(p.CostPerCycleStart.At(t), b.IncurCycleStart),
			milp.T(p.CostPerChangeThermalInput.At(t), b.CycleThermalRamp),
		))
	}
	return e.Simplify()
}
