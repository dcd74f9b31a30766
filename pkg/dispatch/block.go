package dispatch

import (
	"fmt"

	"github.com/raterudder/cspdispatch/pkg/milp"
)

// Port member names.
const (
	PortCycleGeneration = "cycle_generation"
	PortSystemLoad      = "system_load"
)

// Block holds the variable handles of one period.
type Block struct {
	Period int

	// Storage
	ThermalEnergyStorage         milp.Var
	PreviousThermalEnergyStorage milp.Var

	// Receiver
	ReceiverStartupInventory         milp.Var
	ReceiverThermalPower             milp.Var
	ReceiverStartupConsumption       milp.Var
	IsFieldGenerating                milp.Var
	IsFieldStarting                  milp.Var
	IncurFieldStart                  milp.Var
	PreviousReceiverStartupInventory milp.Var
	WasFieldGenerating               milp.Var
	WasFieldStarting                 milp.Var

	// Cycle
	SystemLoad                    milp.Var
	CycleStartupInventory         milp.Var
	CycleGeneration               milp.Var
	CycleThermalRamp              milp.Var
	CycleThermalPower             milp.Var
	IsCycleGenerating             milp.Var
	IsCycleStarting               milp.Var
	IncurCycleStart               milp.Var
	PreviousCycleStartupInventory milp.Var
	PreviousCycleThermalPower     milp.Var
	WasCycleGenerating            milp.Var
	WasCycleStarting              milp.Var
}

// blockBuilder adds one period's variables and constraints to a model.
type blockBuilder struct {
	m *milp.Model
	p *Parameters
	t int
	b Block
}

func buildBlock(m *milp.Model, p *Parameters, t int) Block {
	bb := &blockBuilder{m: m, p: p, t: t, b: Block{Period: t}}
	bb.storageVariables()
	bb.receiverVariables()
	bb.cycleVariables()
	bb.storageConstraints()
	bb.receiverConstraints()
	bb.cycleConstraints()
	bb.port()
	return bb.b
}

func (bb *blockBuilder) name(s string) string {
	return fmt.Sprintf("%s[%d]", s, bb.t)
}

func (bb *blockBuilder) continuous(name, doc, units string) milp.Var {
	return bb.m.NewVar(milp.NonNegative(bb.name(name), doc, units, bb.t))
}

func (bb *blockBuilder) bounded(name, doc, units string, upper float64) milp.Var {
	return bb.m.NewVar(milp.NonNegative(bb.name(name), doc, units, bb.t).WithUpper(upper))
}

func (bb *blockBuilder) binary(name, doc string) milp.Var {
	return bb.m.NewVar(milp.BinaryVariable(bb.name(name), doc, bb.t))
}

func (bb *blockBuilder) constrain(name, doc string, lhs milp.Expr, sense milp.Sense, rhs milp.Expr) {
	bb.m.AddConstraint(milp.Constraint{
		Name:   name,
		Doc:    doc,
		Period: bb.t,
		LHS:    lhs,
		Sense:  sense,
		RHS:    rhs,
	})
}

func (bb *blockBuilder) storageVariables() {
	capacity := bb.p.StorageCapacity.At(bb.t)
	bb.b.ThermalEnergyStorage = bb.bounded("thermal_energy_storage",
		"Thermal energy storage reserve quantity", "MWh", capacity)
	bb.b.PreviousThermalEnergyStorage = bb.bounded("previous_thermal_energy_storage",
		"Thermal energy storage reserve quantity at the beginning of the period", "MWh", capacity)
}

func (bb *blockBuilder) receiverVariables() {
	b := &bb.b
	b.ReceiverStartupInventory = bb.continuous("receiver_startup_inventory",
		"Receiver start-up energy inventory", "MWh")
	b.ReceiverThermalPower = bb.continuous("receiver_thermal_power",
		"Thermal power delivered by the receiver", "MW")
	b.ReceiverStartupConsumption = bb.continuous("receiver_startup_consumption",
		"Receiver start-up power consumption", "MW")
	b.IsFieldGenerating = bb.binary("is_field_generating",
		"1 if solar field is generating usable thermal power")
	b.IsFieldStarting = bb.binary("is_field_starting",
		"1 if solar field is starting up")
	b.IncurFieldStart = bb.binary("incur_field_start",
		"1 if solar field start-up penalty is incurred")
	b.PreviousReceiverStartupInventory = bb.continuous("previous_receiver_startup_inventory",
		"Previous receiver start-up energy inventory", "MWh")
	b.WasFieldGenerating = bb.binary("was_field_generating",
		"1 if solar field was generating usable thermal power in the previous period")
	b.WasFieldStarting = bb.binary("was_field_starting",
		"1 if solar field was starting up in the previous period")
}

func (bb *blockBuilder) cycleVariables() {
	b := &bb.b
	maxThermal := bb.p.MaximumCycleThermalPower.At(bb.t)
	b.SystemLoad = bb.continuous("system_load",
		"Load of csp system", "MW")
	b.CycleStartupInventory = bb.continuous("cycle_startup_inventory",
		"Cycle start-up energy inventory", "MWh")
	b.CycleGeneration = bb.continuous("cycle_generation",
		"Power cycle electricity generation", "MW")
	b.CycleThermalRamp = bb.bounded("cycle_thermal_ramp",
		"Power cycle positive change in thermal energy input", "MW", maxThermal)
	b.CycleThermalPower = bb.bounded("cycle_thermal_power",
		"Cycle thermal power utilization", "MW", maxThermal)
	b.IsCycleGenerating = bb.binary("is_cycle_generating",
		"1 if cycle is generating electric power")
	b.IsCycleStarting = bb.binary("is_cycle_starting",
		"1 if cycle is starting up")
	b.IncurCycleStart = bb.binary("incur_cycle_start",
		"1 if cycle start-up penalty is incurred")
	b.PreviousCycleStartupInventory = bb.continuous("previous_cycle_startup_inventory",
		"Previous cycle start-up energy inventory", "MWh")
	b.PreviousCycleThermalPower = bb.bounded("previous_cycle_thermal_power",
		"Cycle thermal power in the previous period", "MW", maxThermal)
	b.WasCycleGenerating = bb.binary("was_cycle_generating",
		"1 if cycle was generating electric power in the previous period")
	b.WasCycleStarting = bb.binary("was_cycle_starting",
		"1 if cycle was starting up in the previous period")
}

func (bb *blockBuilder) storageConstraints() {
	b, p, t := bb.b, bb.p, bb.t
	d := p.TimeDuration.At(t)
	bb.constrain("storage_inventory", "Thermal energy storage energy balance",
		milp.Sum(milp.T(1, b.ThermalEnergyStorage), milp.T(-1, b.PreviousThermalEnergyStorage)),
		milp.Equal,
		milp.Sum(
			milp.T(d, b.ReceiverThermalPower),
			milp.T(-d*p.AllowableCycleStartupPower.At(t), b.IsCycleStarting),
			milp.T(-d, b.CycleThermalPower),
		))
}

// ratioBound returns the constraint y <= x/den + extra. A non-positive den
// makes the ratio unbounded, so the binary is only held to its own bound.
func ratioBound(y milp.Var, x milp.Expr, den float64, extra milp.Expr) (milp.Expr, milp.Expr) {
	if den <= 0 {
		return y.Expr(), milp.Const(1)
	}
	return y.Expr(), x.Scale(1 / den).Add(extra)
}

// resourceCut returns the constraint y <= available/minimum. With no minimum
// the binary may only be set when some resource is available.
func resourceCut(y milp.Var, available, minimum float64) (milp.Expr, milp.Expr) {
	if minimum <= 0 {
		if available <= 0 {
			return y.Expr(), milp.Const(0)
		}
		return y.Expr(), milp.Const(1)
	}
	return y.Expr(), milp.Const(available / minimum)
}

func (bb *blockBuilder) receiverConstraints() {
	b, p, t := bb.b, bb.p, bb.t
	d := p.TimeDuration.At(t)
	required := p.ReceiverRequiredStartupEnergy.At(t)
	available := p.AvailableThermalGeneration.At(t)
	minimum := p.MinimumReceiverPower.At(t)

	// Start-up
	bb.constrain("receiver_startup_inventory_balance", "Receiver startup energy inventory balance",
		b.ReceiverStartupInventory.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(1, b.PreviousReceiverStartupInventory), milp.T(d, b.ReceiverStartupConsumption)))
	bb.constrain("receiver_startup_inventory_reset", "Resets receiver and/or field startup inventory when startup is completed",
		b.ReceiverStartupInventory.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(required, b.IsFieldStarting)))
	lhs, rhs := ratioBound(b.IsFieldGenerating, b.ReceiverStartupInventory.Expr(), required, b.WasFieldGenerating.Expr())
	bb.constrain("receiver_operation_startup", "Thermal production is allowed only upon completion of start-up or operating in previous time period",
		lhs, milp.LessEqual, rhs)
	bb.constrain("receiver_startup_delay", "If field previously was producing, it cannot startup this period",
		milp.Sum(milp.T(1, b.IsFieldStarting), milp.T(1, b.WasFieldGenerating)),
		milp.LessEqual,
		milp.Const(1))
	bb.constrain("receiver_startup_limit", "Receiver and/or field startup energy consumption limit",
		b.ReceiverStartupConsumption.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(p.AllowableReceiverStartupPower.At(t), b.IsFieldStarting)))
	lhs, rhs = resourceCut(b.IsFieldStarting, available, minimum)
	bb.constrain("receiver_startup_cut", "Receiver and/or field trivial resource startup cut",
		lhs, milp.LessEqual, rhs)

	// Supply and demand
	bb.constrain("receiver_energy_balance", "Receiver generation and startup usage must be below available",
		milp.Const(available),
		milp.GreaterEqual,
		milp.Sum(milp.T(1, b.ReceiverThermalPower), milp.T(1, b.ReceiverStartupConsumption)))
	bb.constrain("maximum_field_generation", "Receiver maximum generation limit",
		b.ReceiverThermalPower.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(available, b.IsFieldGenerating)))
	bb.constrain("minimum_field_generation", "Receiver minimum generation limit",
		b.ReceiverThermalPower.Expr(),
		milp.GreaterEqual,
		milp.Sum(milp.T(minimum, b.IsFieldGenerating)))
	lhs, rhs = resourceCut(b.IsFieldGenerating, available, minimum)
	bb.constrain("receiver_generation_cut", "Receiver and/or field trivial resource generation cut",
		lhs, milp.LessEqual, rhs)

	// Modes
	bb.constrain("field_startup", "Ensures that field start is accounted",
		b.IncurFieldStart.Expr(),
		milp.GreaterEqual,
		milp.Sum(milp.T(1, b.IsFieldStarting), milp.T(-1, b.WasFieldStarting)))
}

func (bb *blockBuilder) cycleConstraints() {
	b, p, t := bb.b, bb.p, bb.t
	d := p.TimeDuration.At(t)
	required := p.CycleRequiredStartupEnergy.At(t)
	allowable := p.AllowableCycleStartupPower.At(t)
	maxThermal := p.MaximumCycleThermalPower.At(t)
	slope := p.CyclePerformanceSlope.At(t)

	// Start-up
	bb.constrain("cycle_startup_inventory_balance", "Cycle startup energy inventory balance",
		b.CycleStartupInventory.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(1, b.PreviousCycleStartupInventory), milp.T(d*allowable, b.IsCycleStarting)))
	bb.constrain("cycle_startup_inventory_reset", "Resets power cycle startup inventory when startup is completed",
		b.CycleStartupInventory.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(required, b.IsCycleStarting)))
	lhs, rhs := ratioBound(b.IsCycleGenerating, b.CycleStartupInventory.Expr(), required, b.WasCycleGenerating.Expr())
	bb.constrain("cycle_operation_startup", "Electric production is allowed only upon completion of start-up or operating in previous time period",
		lhs, milp.LessEqual, rhs)
	bb.constrain("cycle_startup_delay", "If cycle previously was generating, it cannot startup this period",
		milp.Sum(milp.T(1, b.IsCycleStarting), milp.T(1, b.WasCycleGenerating)),
		milp.LessEqual,
		milp.Const(1))

	// Supply and demand
	bb.constrain("maximum_cycle_thermal_consumption", "Power cycle maximum thermal energy consumption maximum limit",
		b.CycleThermalPower.Expr(),
		milp.LessEqual,
		milp.Sum(milp.T(maxThermal, b.IsCycleGenerating)))
	bb.constrain("minimum_cycle_thermal_consumption", "Power cycle minimum thermal energy consumption minimum limit",
		b.CycleThermalPower.Expr(),
		milp.GreaterEqual,
		milp.Sum(milp.T(p.MinimumCycleThermalPower.At(t), b.IsCycleGenerating)))
	correction := p.CycleAmbientEfficiencyCorrection.At(t) / p.CycleNominalEfficiency.At(t)
	bb.constrain("cycle_performance_curve", "Power cycle relationship between electrical power and thermal input with corrections for ambient temperature",
		b.CycleGeneration.Expr(),
		milp.Equal,
		milp.Sum(
			milp.T(correction*slope, b.CycleThermalPower),
			milp.T(correction*(p.MaximumCyclePower.At(t)-slope*maxThermal), b.IsCycleGenerating),
		))
	bb.constrain("cycle_thermal_ramp_constraint", "Positive ramping of power cycle thermal power",
		b.CycleThermalRamp.Expr(),
		milp.GreaterEqual,
		milp.Sum(milp.T(1, b.CycleThermalPower), milp.T(-1, b.PreviousCycleThermalPower)))

	// Modes
	bb.constrain("cycle_startup", "Ensures that cycle start is accounted",
		b.IncurCycleStart.Expr(),
		milp.GreaterEqual,
		milp.Sum(milp.T(1, b.IsCycleStarting), milp.T(-1, b.WasCycleStarting)))

	// System load
	receiverPumping := p.ReceiverPumpingLosses.At(t)
	cyclePumping := p.CyclePumpingLosses.At(t)
	load := milp.Sum(
		milp.T(p.CondenserLosses.At(t), b.CycleGeneration),
		milp.T(receiverPumping, b.ReceiverThermalPower),
		milp.T(receiverPumping, b.ReceiverStartupConsumption),
		milp.T(cyclePumping, b.CycleThermalPower),
		milp.T(cyclePumping*allowable, b.IsCycleStarting),
		milp.T(p.FieldTrackLosses.At(t), b.IsFieldGenerating),
	)
	if d > 0 {
		load = load.Plus(p.FieldStartupLosses.At(t)/d, b.IsFieldStarting)
	}
	bb.constrain("generation_balance", "Calculates csp system load for grid model",
		b.SystemLoad.Expr(), milp.Equal, load)
}

func (bb *blockBuilder) port() {
	bb.m.AddPort(milp.Port{
		Name:   bb.name("csp"),
		Period: bb.t,
		Members: []milp.PortMember{
			{Name: PortCycleGeneration, Var: bb.b.CycleGeneration, Direction: milp.Out},
			{Name: PortSystemLoad, Var: bb.b.SystemLoad, Direction: milp.In},
		},
	})
}
