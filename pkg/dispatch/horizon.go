package dispatch

import (
	"context"
	"log/slog"

	"github.com/raterudder/cspdispatch/pkg/log"
	"github.com/raterudder/cspdispatch/pkg/milp"
)

// ModelName is the name given to every horizon model.
const ModelName = "csp_dispatch"

// Horizon is the dispatch formulation for every period of a horizon.
type Horizon struct {
	Model   *milp.Model
	Blocks  []Block
	Initial InitialState
}

// Build creates a model with one block per period and links each block's
// previous-period variables to the block before it. The first block links
// to p.Initial. The objective is left empty.
func Build(ctx context.Context, p *Parameters) (*Horizon, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	h := &Horizon{
		Model:   milp.NewModel(ModelName),
		Blocks:  make([]Block, p.Periods()),
		Initial: p.Initial,
	}
	for t := range p.Periods() {
		h.Blocks[t] = buildBlock(h.Model, p, t)
	}
	for t := range h.Blocks {
		h.link(t)
	}
	log.Ctx(ctx).DebugContext(ctx, "built dispatch horizon",
		slog.Int("periods", p.Periods()),
		slog.Int("variables", h.Model.NumVariables()),
		slog.Int("constraints", len(h.Model.Constraints())),
	)
	return h, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

type linking struct {
	name     string
	doc      string
	previous milp.Var
	initial  float64
	current  func(Block) milp.Var
}

// link adds the equalities tying block t's previous-period variables to the
// same quantities at the end of period t-1.
func (h *Horizon) link(t int) {
	b := h.Blocks[t]
	in := h.Initial
	links := []linking{
		{"tes_linking", "Thermal energy storage linking constraint",
			b.PreviousThermalEnergyStorage, in.ThermalEnergyStorage,
			func(b Block) milp.Var { return b.ThermalEnergyStorage }},
		{"receiver_startup_inventory_linking", "Receiver startup inventory linking constraint",
			b.PreviousReceiverStartupInventory, in.ReceiverStartupInventory,
			func(b Block) milp.Var { return b.ReceiverStartupInventory }},
		{"field_generating_linking", "Is field generating linking constraint",
			b.WasFieldGenerating, boolValue(in.IsFieldGenerating),
			func(b Block) milp.Var { return b.IsFieldGenerating }},
		{"field_starting_linking", "Is field starting up linking constraint",
			b.WasFieldStarting, boolValue(in.IsFieldStarting),
			func(b Block) milp.Var { return b.IsFieldStarting }},
		{"cycle_startup_inventory_linking", "Cycle startup inventory linking constraint",
			b.PreviousCycleStartupInventory, in.CycleStartupInventory,
			func(b Block) milp.Var { return b.CycleStartupInventory }},
		{"cycle_thermal_power_linking", "Cycle thermal power linking constraint",
			b.PreviousCycleThermalPower, in.CycleThermalPower,
			func(b Block) milp.Var { return b.CycleThermalPower }},
		{"cycle_generating_linking", "Is cycle generating linking constraint",
			b.WasCycleGenerating, boolValue(in.IsCycleGenerating),
			func(b Block) milp.Var { return b.IsCycleGenerating }},
		{"cycle_starting_linking", "Is cycle starting up linking constraint",
			b.WasCycleStarting, boolValue(in.IsCycleStarting),
			func(b Block) milp.Var { return b.IsCycleStarting }},
	}
	for _, l := range links {
		rhs := milp.Const(l.initial)
		if t > 0 {
			rhs = l.current(h.Blocks[t-1]).Expr()
		}
		h.Model.AddConstraint(milp.Constraint{
			Name:   l.name,
			Doc:    l.doc,
			Period: t,
			LHS:    l.previous.Expr(),
			Sense:  milp.Equal,
			RHS:    rhs,
		})
	}
}

// Periods returns the number of blocks.
func (h *Horizon) Periods() int {
	return len(h.Blocks)
}

// Ports returns the per-period ports in period order.
func (h *Horizon) Ports() []milp.Port {
	return h.Model.Ports()
}

// AssignSolution assigns solved values by variable name.
func (h *Horizon) AssignSolution(values map[string]float64) error {
	return h.Model.AssignSolution(values)
}
