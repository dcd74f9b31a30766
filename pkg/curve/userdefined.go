package curve

import (
	"errors"
	"fmt"
)

// Columns of a user-defined cycle performance table row.
const (
	ColHTFTemperature = iota
	ColMassFlow
	ColAmbientTemperature
	ColPower
	ColHeat
	ColCooling
	userDefinedColumns
)

var (
	ErrShortRow          = errors.New("table row has too few columns")
	ErrShortTable        = errors.New("table has too few rows")
	ErrNoSegmentBoundary = errors.New("no segment boundary found")
	ErrZeroHeatInput     = errors.New("normalized heat input is zero")
)

// UserDefined is the detected block structure of a combined cycle
// performance table. The table holds three blocks of HTF temperature sweeps,
// then three blocks of mass flow sweeps, then three blocks of ambient
// temperature sweeps. Each block ends where its swept column decreases.
type UserDefined struct {
	Rows [][]float64

	NT    int
	NM    int
	NTamb int

	TPoints    []float64
	MPoints    []float64
	TambPoints []float64
}

// ParseUserDefined detects the segment sizes of rows. A table without a
// decreasing transition in a swept column is rejected.
func ParseUserDefined(rows [][]float64) (UserDefined, error) {
	for i, r := range rows {
		if len(r) < userDefinedColumns {
			return UserDefined{}, fmt.Errorf("row %d: %w: got %d, want %d", i, ErrShortRow, len(r), userDefinedColumns)
		}
	}
	u := UserDefined{Rows: rows}

	var err error
	if u.NT, err = segmentLength(rows, 0, ColHTFTemperature); err != nil {
		return UserDefined{}, fmt.Errorf("htf temperature block: %w", err)
	}
	i0 := 3 * u.NT
	if u.NM, err = segmentLength(rows, i0, ColMassFlow); err != nil {
		return UserDefined{}, fmt.Errorf("mass flow block: %w", err)
	}
	i1 := 3*u.NT + 3*u.NM
	if u.NTamb, err = segmentLength(rows, i1, ColAmbientTemperature); err != nil {
		return UserDefined{}, fmt.Errorf("ambient temperature block: %w", err)
	}
	// the ambient fit reads the second ambient block
	if need := i1 + 2*u.NTamb; len(rows) < need {
		return UserDefined{}, fmt.Errorf("%w: got %d, want at least %d", ErrShortTable, len(rows), need)
	}

	u.TPoints = column(rows[:u.NT], ColHTFTemperature)
	u.MPoints = column(rows[i0:i0+u.NM], ColMassFlow)
	u.TambPoints = column(rows[i1:i1+u.NTamb], ColAmbientTemperature)
	return u, nil
}

// PartLoad returns efficiency against load fraction at design HTF
// temperature and design ambient temperature.
func (u UserDefined) PartLoad(nominal float64) (Curve, error) {
	k := 3*u.NT + u.NM
	ys, err := u.efficiencies(k, u.NM, nominal)
	if err != nil {
		return Curve{}, err
	}
	return New(u.MPoints, ys)
}

// Ambient returns the efficiency and condenser loss corrections against
// ambient temperature at design HTF temperature and design mass flow.
// coolingPercent is the design cooling parasitic as a percent of gross output.
func (u UserDefined) Ambient(nominal, coolingPercent float64) (Ambient, error) {
	k := 3*u.NT + 3*u.NM + u.NTamb
	eff, err := u.efficiencies(k, u.NTamb, nominal)
	if err != nil {
		return Ambient{}, err
	}
	cond := make([]float64, u.NTamb)
	for j := range cond {
		cond[j] = coolingPercent / 100 * u.Rows[k+j][ColCooling]
	}
	a := Ambient{}
	if a.Efficiency, err = New(u.TambPoints, eff); err != nil {
		return Ambient{}, err
	}
	if a.Condenser, err = New(u.TambPoints, cond); err != nil {
		return Ambient{}, err
	}
	return a, nil
}

func (u UserDefined) efficiencies(k, n int, nominal float64) ([]float64, error) {
	ys := make([]float64, n)
	for p := range ys {
		row := u.Rows[k+p]
		if row[ColHeat] == 0 {
			return nil, fmt.Errorf("row %d: %w", k+p, ErrZeroHeatInput)
		}
		ys[p] = nominal * row[ColPower] / row[ColHeat]
	}
	return ys, nil
}

// segmentLength returns one plus the offset from start of the first row whose
// col value is lower than the row before it.
func segmentLength(rows [][]float64, start, col int) (int, error) {
	for i := start + 1; i < len(rows); i++ {
		if rows[i][col] < rows[i-1][col] {
			return i - start, nil
		}
	}
	return 0, fmt.Errorf("%w in column %d after row %d", ErrNoSegmentBoundary, col, start)
}

func column(rows [][]float64, col int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[col]
	}
	return out
}
