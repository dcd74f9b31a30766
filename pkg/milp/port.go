package milp

// Direction is the flow direction of a port member relative to the
// component that declares it.
type Direction int

const (
	Out Direction = iota
	In
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// PortMember is one variable exposed through a port.
type PortMember struct {
	Name      string
	Var       Var
	Direction Direction
}

// Port groups the variables a component exposes to the surrounding energy
// balance for one period.
type Port struct {
	Name    string
	Period  int
	Members []PortMember
}

// Member returns the member called name.
func (p Port) Member(name string) (PortMember, bool) {
	for _, pm := range p.Members {
		if pm.Name == name {
			return pm, true
		}
	}
	return PortMember{}, false
}

func (m *Model) AddPort(p Port) {
	m.ports = append(m.ports, p)
}

// Ports returns every declared port in declaration order.
func (m *Model) Ports() []Port {
	out := make([]Port, len(m.ports))
	copy(out, m.ports)
	return out
}
