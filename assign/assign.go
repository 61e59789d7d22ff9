// Package assign lays an ordered list of items onto as many destination
// plates as needed, walking the canonical well layout plate after plate.
package assign

import "github.com/carbocation/platemap/plate"

// Placement pairs an item with its destination well.
type Placement[T any] struct {
	Item T
	Dest plate.Coordinate
}

// Assign gives the i-th item destination plate i/wells+1 and the
// (i%wells)-th well of the layout. Destinations are never reused within one
// call, and only the last plate can be partially filled.
func Assign[T any](items []T, layout plate.Layout) []Placement[T] {
	out := make([]Placement[T], 0, len(items))
	for i, item := range items {
		out = append(out, Placement[T]{Item: item, Dest: Position(i, layout)})
	}

	return out
}

// Position is the destination of the i-th item (0-based).
func Position(i int, layout plate.Layout) plate.Coordinate {
	n := layout.Len()
	return plate.Coordinate{
		Plate: i/n + 1,
		Well:  layout.At(i % n),
	}
}

// PlateCount is the number of destination plates needed for n items, i.e.
// ceil(n / wellsPerPlate).
func PlateCount(n, wellsPerPlate int) int {
	if n <= 0 || wellsPerPlate <= 0 {
		return 0
	}
	return (n + wellsPerPlate - 1) / wellsPerPlate
}
