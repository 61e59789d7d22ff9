package plate

import (
	"fmt"
	"strconv"
	"strings"
)

// Well identifies a position on a plate. Row is a 0-based index into
// Alphabet; Col is 1-based, as printed on the plate.
type Well struct {
	Row int
	Col int
}

// RowLetter returns the printed row identifier, or "?" if the row is outside
// Alphabet.
func (w Well) RowLetter() string {
	if w.Row < 0 || w.Row >= len(Alphabet) {
		return "?"
	}
	return Alphabet[w.Row : w.Row+1]
}

// String renders the well label, e.g. A01 or P24. Single-digit columns are
// zero padded.
func (w Well) String() string {
	if w.Col < 10 {
		return w.RowLetter() + "0" + strconv.Itoa(w.Col)
	}
	return w.RowLetter() + strconv.Itoa(w.Col)
}

// Upper reports whether the well sits in an even-indexed row (A, C, E, ...),
// i.e. the upper row of its row pair.
func (w Well) Upper() bool {
	return w.Row%2 == 0
}

// OddCol reports whether the well's printed column number is odd.
func (w Well) OddCol() bool {
	return w.Col%2 == 1
}

// ParseWell decomposes a label such as "B04", " b4 " or "A11" into its row
// and column. It does not check the label against any plate format.
func ParseWell(label string) (Well, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) < 2 || len(s) > 3 {
		return Well{}, fmt.Errorf("%w: %q", ErrMalformedWell, label)
	}

	row := strings.IndexByte(Alphabet, s[0])
	if row < 0 {
		return Well{}, fmt.Errorf("%w: %q has no row letter", ErrMalformedWell, label)
	}

	digits := s[1:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Well{}, fmt.Errorf("%w: %q has a non-numeric column", ErrMalformedWell, label)
		}
	}

	col, err := strconv.Atoi(digits)
	if err != nil || col < 1 {
		return Well{}, fmt.Errorf("%w: %q has an invalid column", ErrMalformedWell, label)
	}

	return Well{Row: row, Col: col}, nil
}

// MustParseWell is like ParseWell but panics on error. It is meant for
// literals.
func MustParseWell(label string) Well {
	w, err := ParseWell(label)
	if err != nil {
		panic(err)
	}
	return w
}

// Coordinate is one physical well on one physical plate.
type Coordinate struct {
	Plate int
	Well  Well
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d:%s", c.Plate, c.Well)
}

// Less orders coordinates by plate, then row-major by well.
func (c Coordinate) Less(o Coordinate) bool {
	if c.Plate != o.Plate {
		return c.Plate < o.Plate
	}
	if c.Well.Row != o.Well.Row {
		return c.Well.Row < o.Well.Row
	}
	return c.Well.Col < o.Well.Col
}
