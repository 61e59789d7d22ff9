package plate

import (
	"sync"

	"github.com/BenLubar/memoize"
)

// Layout is the canonical, row-major ordering of every well on one plate:
// A01, A02, ..., A24, B01, ..., P24 for a 384-well plate. A Layout is shared
// between callers and must be treated as read only; Labels returns a copy.
type Layout struct {
	format Format
	wells  []Well
	labels []string
}

var (
	layoutMu       sync.Mutex
	memoizedLayout = memoize.Memoize(buildLayout)
)

// CanonicalLayout returns the layout for f. Each format is built once.
func CanonicalLayout(f Format) (Layout, error) {
	if err := f.Validate(); err != nil {
		return Layout{}, err
	}

	layoutMu.Lock()
	defer layoutMu.Unlock()

	return memoizedLayout.(func(int, int) Layout)(f.Rows, f.Cols), nil
}

// MustCanonicalLayout is CanonicalLayout for formats known to be valid.
func MustCanonicalLayout(f Format) Layout {
	l, err := CanonicalLayout(f)
	if err != nil {
		panic(err)
	}
	return l
}

func buildLayout(rows, cols int) Layout {
	out := Layout{
		format: Format{Rows: rows, Cols: cols},
		wells:  make([]Well, 0, rows*cols),
		labels: make([]string, 0, rows*cols),
	}

	for row := 0; row < rows; row++ {
		for col := 1; col <= cols; col++ {
			w := Well{Row: row, Col: col}
			out.wells = append(out.wells, w)
			out.labels = append(out.labels, w.String())
		}
	}

	return out
}

func (l Layout) Format() Format {
	return l.format
}

// Len is the number of wells on one plate.
func (l Layout) Len() int {
	return len(l.wells)
}

// At returns the i-th well in canonical order.
func (l Layout) At(i int) Well {
	return l.wells[i]
}

// Label returns the i-th well label in canonical order.
func (l Layout) Label(i int) string {
	return l.labels[i]
}

func (l Layout) Labels() []string {
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// Index returns the canonical position of w, or -1 if w is not on the plate.
func (l Layout) Index(w Well) int {
	if !l.format.Contains(w) {
		return -1
	}
	return w.Row*l.format.Cols + (w.Col - 1)
}
