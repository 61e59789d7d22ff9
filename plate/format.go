package plate

import (
	"errors"
	"fmt"
	"math"
)

// MaxCols is the widest plate a format may describe. Column labels stay at
// one or two digits.
const MaxCols = 99

// MaxPlate is the highest plate number accepted, keeping pooled plate
// arithmetic ((P-1)*4 + q) well inside int32.
const MaxPlate = math.MaxInt32 / 4

// Alphabet holds the row letters available to any plate format. A format
// with N rows uses Alphabet[:N].
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	ErrInvalidDimension = errors.New("invalid plate dimension")
	ErrOutOfRange       = errors.New("well is out of range for the plate format")
	ErrMalformedWell    = errors.New("malformed well label")
)

// Format describes the physical dimensions of a microplate.
type Format struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

var (
	Format96  = Format{Rows: 8, Cols: 12}
	Format384 = Format{Rows: 16, Cols: 24}
)

func (f Format) String() string {
	return fmt.Sprintf("%dx%d", f.Rows, f.Cols)
}

// Wells is the number of wells on one plate of this format.
func (f Format) Wells() int {
	return f.Rows * f.Cols
}

// Validate fails with ErrInvalidDimension if the format cannot be labeled
// with a single row letter and a one or two digit column.
func (f Format) Validate() error {
	if f.Rows < 1 || f.Rows > len(Alphabet) {
		return fmt.Errorf("%w: %d rows (must be between 1 and %d)", ErrInvalidDimension, f.Rows, len(Alphabet))
	}
	if f.Cols < 1 || f.Cols > MaxCols {
		return fmt.Errorf("%w: %d columns (must be between 1 and %d)", ErrInvalidDimension, f.Cols, MaxCols)
	}

	return nil
}

// Contains reports whether w is a well on a plate of this format.
func (f Format) Contains(w Well) bool {
	return w.Row >= 0 && w.Row < f.Rows && w.Col >= 1 && w.Col <= f.Cols
}

// Row returns the row index delta rows away from row. Edge rows do not wrap.
func (f Format) Row(row, delta int) (int, error) {
	out := row + delta
	if out < 0 || out >= f.Rows {
		return 0, fmt.Errorf("%w: row index %d on a %s plate", ErrOutOfRange, out, f)
	}

	return out, nil
}

// Col returns the column delta columns away from col. Edge columns do not
// wrap.
func (f Format) Col(col, delta int) (int, error) {
	out := col + delta
	if out < 1 || out > f.Cols {
		return 0, fmt.Errorf("%w: column %d on a %s plate", ErrOutOfRange, out, f)
	}

	return out, nil
}
