package curve

// Ambient holds the dry bulb temperature corrections for the cycle: the
// corrected efficiency and the fraction of gross output consumed by the
// condenser.
type Ambient struct {
	Efficiency Curve
	Condenser  Curve
}

// Corrections are the per-period values evaluated from an Ambient table.
type Corrections struct {
	Efficiency []float64
	Condenser  []float64
}

// Validate checks both curves.
func (a Ambient) Validate() error {
	if err := a.Efficiency.Validate(); err != nil {
		return err
	}
	return a.Condenser.Validate()
}

// Evaluate interpolates both curves at each temperature independently.
func (a Ambient) Evaluate(temperatures []float64) Corrections {
	return Corrections{
		Efficiency: a.Efficiency.Eval(temperatures),
		Condenser:  a.Condenser.Eval(temperatures),
	}
}

// ConstantCorrections returns n periods of nominal efficiency and no
// condenser loss.
func ConstantCorrections(nominal float64, n int) Corrections {
	c := Corrections{
		Efficiency: make([]float64, n),
		Condenser:  make([]float64, n),
	}
	for i := range c.Efficiency {
		c.Efficiency[i] = nominal
	}
	return c
}
