package rearrange

import (
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

var ErrInvalidBatchSize = errors.New("invalid batch size")

// Batch is the part of a worklist whose destination plates fall in
// [FirstPlate, LastPlate].
type Batch struct {
	Index      int
	FirstPlate int
	LastPlate  int
	Result
}

// Batches splits the worklist into consecutive ranges of numPlates
// destination plates, so that each range can be run (or downloaded) on its
// own. Row order within each batch follows the worklist.
func (r Result) Batches(numPlates int) ([]Batch, error) {
	if numPlates < 1 {
		return nil, fmt.Errorf("%w: %d (must be a positive number of plates)", ErrInvalidBatchSize, numPlates)
	}

	total := r.Plates()
	out := make([]Batch, 0, (total+numPlates-1)/numPlates)

	for k := 1; (k-1)*numPlates < total; k++ {
		b := Batch{
			Index:      k,
			FirstPlate: (k-1)*numPlates + 1,
			LastPlate:  k * numPlates,
			Result: Result{
				Header:  r.Header,
				Columns: r.Columns,
				Format:  r.Format,
				Rows:    []Row{},
			},
		}

		for _, row := range r.Rows {
			if row.Dest.Plate >= b.FirstPlate && row.Dest.Plate <= b.LastPlate {
				b.Rows = append(b.Rows, row)
			}
		}

		out = append(out, b)
	}

	return out, nil
}

// PlateSummary describes how one destination plate is filled.
type PlateSummary struct {
	DestPlate    int    `csv:"DestPlate"`
	Wells        int    `csv:"Wells"`
	FirstWell    string `csv:"FirstWell"`
	LastWell     string `csv:"LastWell"`
	SourcePlates int    `csv:"SourcePlates"`
}

// Summary returns one entry per destination plate, in plate order.
func (r Result) Summary() []PlateSummary {
	out := make([]PlateSummary, 0, r.Plates())

	for p := 1; p <= r.Plates(); p++ {
		wells := r.DestWells(p)
		s := PlateSummary{DestPlate: p, Wells: len(wells)}
		if len(wells) > 0 {
			s.FirstWell = wells[0].String()
			s.LastWell = wells[len(wells)-1].String()
		}

		sources := make(map[int]struct{})
		for _, row := range r.Rows {
			if row.Dest.Plate == p {
				sources[row.Source.Plate] = struct{}{}
			}
		}
		s.SourcePlates = len(sources)

		out = append(out, s)
	}

	return out
}

// WriteSummary writes Summary as CSV.
func (r Result) WriteSummary(w io.Writer) error {
	return gocsv.Marshal(r.Summary(), w)
}
