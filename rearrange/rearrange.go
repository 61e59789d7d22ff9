// Package rearrange builds the two robot worklists: deconvolution of pooled
// hits back onto their source wells, and rearrangement of already-resolved
// hits. Both lay the resulting rows onto fresh destination plates in
// canonical well order and attach a fixed transfer volume.
package rearrange

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/carbocation/platemap/assign"
	"github.com/carbocation/platemap/hittable"
	"github.com/carbocation/platemap/plate"
	"github.com/carbocation/platemap/pool"
)

// Transfer volumes per workflow.
const (
	DeconvolutionVolume    = 40
	HitRearrangementVolume = 50
)

// Logger receives one line per skipped input row. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
}

type options struct {
	format plate.Format
	volume int
	sort   bool
	logger Logger
}

type Option func(*options)

// WithFormat sets the destination plate format. The default is 384 wells.
func WithFormat(f plate.Format) Option {
	return func(o *options) { o.format = f }
}

// WithVolume overrides the workflow's transfer volume.
func WithVolume(vol int) Option {
	return func(o *options) { o.volume = vol }
}

// SortBySource orders the output by (SourcePlate, SourceWell) after
// destinations have been assigned.
func SortBySource() Option {
	return func(o *options) { o.sort = true }
}

// WithLogger logs every skipped row in addition to returning it.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(defaultVolume int, opts []Option) options {
	o := options{format: plate.Format384, volume: defaultVolume}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Row is one transfer: an input row (with its source columns rewritten to
// the resolved source coordinate) and where it goes.
type Row struct {
	Input  int
	Values []string
	Source plate.Coordinate
	Dest   plate.Coordinate
	Vol    int
}

// Result is a worklist plus the input rows that had to be skipped.
type Result struct {
	Header      []string
	Columns     hittable.Columns
	Format      plate.Format
	Rows        []Row
	Diagnostics []hittable.Diagnostic
}

// Deconvolve expands every pooled hit into its four candidate source wells
// under scheme s and lays the candidates onto destination plates with the
// deconvolution volume. An invalid scheme fails before anything is read.
func Deconvolve(t hittable.Table, s pool.Scheme, opts ...Option) (Result, error) {
	if !s.Valid() {
		return Result{}, fmt.Errorf("%w: %v", pool.ErrInvalidPoolingScheme, s)
	}

	o := newOptions(DeconvolutionVolume, opts)

	out, hits, err := prepare(t, o)
	if err != nil {
		return Result{}, err
	}

	pooled := make([]plate.Coordinate, 0, len(hits))
	for _, h := range hits {
		pooled = append(pooled, h.Coordinate)
	}

	sources, failures, err := pool.ResolveAll(pooled, s, o.format)
	if err != nil {
		return Result{}, err
	}

	for _, f := range failures {
		out.Diagnostics = append(out.Diagnostics, hittable.Diagnostic{
			Row:   hits[f.Index].Row,
			Value: f.Pooled.String(),
			Err:   f,
		})
	}

	rows := make([]Row, 0, len(sources))
	for _, src := range sources {
		input := hits[src.Index].Row
		rows = append(rows, Row{
			Input:  input,
			Values: withSource(t.Rows[input], len(out.Header), out.Columns, src.Coordinate),
			Source: src.Coordinate,
		})
	}

	return finish(out, rows, o)
}

// Rearrange lays already-resolved hits onto destination plates in their
// input order with the hit rearrangement volume.
func Rearrange(t hittable.Table, opts ...Option) (Result, error) {
	o := newOptions(HitRearrangementVolume, opts)

	out, hits, err := prepare(t, o)
	if err != nil {
		return Result{}, err
	}

	rows := make([]Row, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, Row{
			Input:  h.Row,
			Values: withSource(t.Rows[h.Row], len(out.Header), out.Columns, h.Coordinate),
			Source: h.Coordinate,
		})
	}

	return finish(out, rows, o)
}

func prepare(t hittable.Table, o options) (Result, []hittable.Hit, error) {
	if err := o.format.Validate(); err != nil {
		return Result{}, nil, err
	}

	norm, cols, err := t.Normalized()
	if err != nil {
		return Result{}, nil, err
	}

	_, hits, diags, err := norm.Hits(o.format)
	if err != nil {
		return Result{}, nil, err
	}

	return Result{Header: norm.Header, Columns: cols, Format: o.format, Diagnostics: diags}, hits, nil
}

func finish(out Result, rows []Row, o options) (Result, error) {
	layout, err := plate.CanonicalLayout(o.format)
	if err != nil {
		return Result{}, err
	}

	for _, p := range assign.Assign(rows, layout) {
		r := p.Item
		r.Dest = p.Dest
		r.Vol = o.volume
		out.Rows = append(out.Rows, r)
	}
	if out.Rows == nil {
		out.Rows = []Row{}
	}

	if o.sort {
		sort.SliceStable(out.Rows, func(i, j int) bool {
			return out.Rows[i].Source.Less(out.Rows[j].Source)
		})
	}

	sort.SliceStable(out.Diagnostics, func(i, j int) bool {
		return out.Diagnostics[i].Row < out.Diagnostics[j].Row
	})

	if o.logger != nil {
		for _, d := range out.Diagnostics {
			o.logger.Printf("Skipping %v\n", d)
		}
	}

	return out, nil
}

// withSource copies an input row, pads it to the header width and writes
// the source coordinate into the source columns in canonical form.
func withSource(row []string, width int, cols hittable.Columns, src plate.Coordinate) []string {
	if len(row) > width {
		width = len(row)
	}

	out := make([]string, width)
	copy(out, row)
	out[cols.Plate] = strconv.Itoa(src.Plate)
	out[cols.Well] = src.Well.String()

	return out
}

// Table renders the worklist with DestPlate, DestWell and Vol appended to
// the input columns.
func (r Result) Table() hittable.Table {
	header := make([]string, 0, len(r.Header)+3)
	header = append(header, r.Header...)
	header = append(header, hittable.DestPlate, hittable.DestWell, hittable.Vol)

	out := hittable.Table{Header: header, Rows: make([][]string, 0, len(r.Rows))}
	for _, row := range r.Rows {
		values := make([]string, len(r.Header), len(r.Header)+3)
		copy(values, row.Values)
		values = append(values, strconv.Itoa(row.Dest.Plate), row.Dest.Well.String(), strconv.Itoa(row.Vol))
		out.Rows = append(out.Rows, values)
	}

	return out
}

// Plates is the number of destination plates used.
func (r Result) Plates() int {
	max := 0
	for _, row := range r.Rows {
		if row.Dest.Plate > max {
			max = row.Dest.Plate
		}
	}
	return max
}

// DestWells lists the wells used on one destination plate, in canonical
// order.
func (r Result) DestWells(destPlate int) []plate.Well {
	var out []plate.Well
	for _, row := range r.Rows {
		if row.Dest.Plate == destPlate {
			out = append(out, row.Dest.Well)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})

	return out
}

func (r Result) String() string {
	return fmt.Sprintf("%d transfers onto %d %s plates (%d rows skipped)", len(r.Rows), r.Plates(), r.Format, len(r.Diagnostics))
}
