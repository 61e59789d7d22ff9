package pool

import (
	"fmt"

	"github.com/carbocation/platemap/plate"
)

// Resolve maps a coordinate on a pooled plate back to the source coordinates
// whose material was combined into it. Both schemes yield exactly four
// candidates. For Quadrant they are the 2x2 block in row-major order on a
// single source plate; for ByPlate they are the same well on four
// consecutive source plates.
func Resolve(pooled plate.Coordinate, s Scheme, f plate.Format) ([]plate.Coordinate, error) {
	if pooled.Plate < 1 || pooled.Plate > plate.MaxPlate {
		return nil, fmt.Errorf("%w: pooled plate number %d", plate.ErrOutOfRange, pooled.Plate)
	}
	if !f.Contains(pooled.Well) {
		return nil, fmt.Errorf("%w: %s on a %s plate", plate.ErrOutOfRange, pooled.Well, f)
	}

	switch s {
	case Quadrant:
		return resolveQuadrant(pooled, f)
	case ByPlate:
		return resolveByPlate(pooled), nil
	}

	return nil, fmt.Errorf("%w: %v", ErrInvalidPoolingScheme, s)
}

// firstSourcePlate is the lowest source plate number pooled into pooledPlate.
func firstSourcePlate(pooledPlate int) int {
	return (pooledPlate-1)*PlatesPerPool + 1
}

// quadrant returns the 1-based quadrant a pooled well draws from:
// upper+odd=1, upper+even=2, lower+odd=3, lower+even=4.
func quadrant(w plate.Well) int {
	q := 1
	if !w.Upper() {
		q += 2
	}
	if !w.OddCol() {
		q++
	}
	return q
}

func resolveQuadrant(pooled plate.Coordinate, f plate.Format) ([]plate.Coordinate, error) {
	w := pooled.Well

	// Upper rows pair with the row below them, lower rows with the row above.
	rowDelta := -1
	if w.Upper() {
		rowDelta = 1
	}
	pairedRow, err := f.Row(w.Row, rowDelta)
	if err != nil {
		return nil, err
	}

	// Odd columns pair with the column to their right, even with the left.
	colDelta := -1
	if w.OddCol() {
		colDelta = 1
	}
	pairedCol, err := f.Col(w.Col, colDelta)
	if err != nil {
		return nil, err
	}

	rows := [2]int{w.Row, pairedRow}
	if pairedRow < w.Row {
		rows = [2]int{pairedRow, w.Row}
	}
	cols := [2]int{w.Col, pairedCol}
	if pairedCol < w.Col {
		cols = [2]int{pairedCol, w.Col}
	}

	sourcePlate := firstSourcePlate(pooled.Plate) + quadrant(w) - 1

	out := make([]plate.Coordinate, 0, 4)
	for _, r := range rows {
		for _, c := range cols {
			out = append(out, plate.Coordinate{Plate: sourcePlate, Well: plate.Well{Row: r, Col: c}})
		}
	}

	return out, nil
}

func resolveByPlate(pooled plate.Coordinate) []plate.Coordinate {
	out := make([]plate.Coordinate, 0, PlatesPerPool)
	first := firstSourcePlate(pooled.Plate)
	for i := 0; i < PlatesPerPool; i++ {
		out = append(out, plate.Coordinate{Plate: first + i, Well: pooled.Well})
	}

	return out
}

// Forward applies the pooling rule itself: it returns the pooled coordinate
// into which a source coordinate was combined. Resolve(Forward(c)) always
// contains c.
func Forward(source plate.Coordinate, s Scheme) plate.Coordinate {
	pooledPlate := (source.Plate-1)/PlatesPerPool + 1

	if s == ByPlate {
		return plate.Coordinate{Plate: pooledPlate, Well: source.Well}
	}

	// Quadrant: the source plate's position within its group of four picks
	// the corner of the 2x2 block.
	q := (source.Plate-1)%PlatesPerPool + 1

	row := source.Well.Row &^ 1
	if q > 2 {
		row++
	}

	col := (source.Well.Col-1)&^1 + 1
	if q%2 == 0 {
		col++
	}

	return plate.Coordinate{Plate: pooledPlate, Well: plate.Well{Row: row, Col: col}}
}

// Source is one resolved candidate together with the index of the pooled
// input it came from.
type Source struct {
	Index      int
	Coordinate plate.Coordinate
}

// Failure records a pooled input that could not be resolved.
type Failure struct {
	Index  int
	Pooled plate.Coordinate
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("Trouble finding source wells from pooled well %s: %v", f.Pooled, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// ResolveAll resolves every pooled coordinate in order. Inputs that cannot be
// resolved are skipped and reported; the rest are still resolved. An invalid
// scheme resolves nothing.
func ResolveAll(pooled []plate.Coordinate, s Scheme, f plate.Format) ([]Source, []Failure, error) {
	if !s.Valid() {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPoolingScheme, s)
	}

	out := make([]Source, 0, len(pooled)*PlatesPerPool)
	var failures []Failure

	for i, c := range pooled {
		candidates, err := Resolve(c, s, f)
		if err != nil {
			failures = append(failures, Failure{Index: i, Pooled: c, Err: err})
			continue
		}

		for _, candidate := range candidates {
			out = append(out, Source{Index: i, Coordinate: candidate})
		}
	}

	return out, failures, nil
}
