// Package hitpick selects hits from a primary screen by the fold change
// between a positive and a negative measurement channel.
package hitpick

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/platemap/hittable"
)

// FoldColumn is appended to every picked row.
const FoldColumn = "Fold"

var (
	ErrMissingMeasurement = errors.New("missing measurement")
	ErrNonNumeric         = errors.New("non-numeric measurement")
	ErrZeroDenominator    = errors.New("negative channel is zero")
	ErrInvalidThreshold   = errors.New("invalid fold threshold")
)

// Cells that spreadsheets and R exports use for "no value".
var missingTokens = map[string]struct{}{
	"":    {},
	"na":  {},
	"n/a": {},
	"nan": {},
}

type Options struct {
	PositiveColumn string
	NegativeColumn string

	// MinFold is exclusive: a row is a hit when its fold is strictly greater.
	MinFold float64
}

func DefaultOptions() Options {
	return Options{PositiveColumn: "Ag+", NegativeColumn: "Ag-", MinFold: 1}
}

// Measurement is one parsed input row.
type Measurement struct {
	Row      int
	Positive float64
	Negative float64
	Fold     float64
	Hit      bool
}

type Result struct {
	Options      Options
	Measurements []Measurement
	Hits         hittable.Table
	Diagnostics  []hittable.Diagnostic
}

// Pick computes Fold = positive / negative for every row and keeps rows whose
// fold exceeds o.MinFold. Rows with missing, non-numeric or zero-denominator
// measurements are skipped and reported. Input order is preserved.
func Pick(t hittable.Table, o Options) (Result, error) {
	if math.IsNaN(o.MinFold) || math.IsInf(o.MinFold, 0) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, o.MinFold)
	}

	pos, err := column(t.Header, o.PositiveColumn)
	if err != nil {
		return Result{}, err
	}
	neg, err := column(t.Header, o.NegativeColumn)
	if err != nil {
		return Result{}, err
	}

	header := make([]string, 0, len(t.Header)+1)
	header = append(header, t.Header...)
	header = append(header, FoldColumn)

	out := Result{
		Options:      o,
		Measurements: make([]Measurement, 0, len(t.Rows)),
		Hits:         hittable.Table{Header: header, Rows: [][]string{}},
	}

	for i, row := range t.Rows {
		if len(row) <= pos || len(row) <= neg {
			out.Diagnostics = append(out.Diagnostics, hittable.Diagnostic{Row: i, Value: strings.Join(row, ","), Err: hittable.ErrShortRow})
			continue
		}

		m := Measurement{Row: i}
		if m.Positive, err = parseMeasurement(row[pos]); err != nil {
			out.Diagnostics = append(out.Diagnostics, hittable.Diagnostic{Row: i, Value: row[pos], Err: err})
			continue
		}
		if m.Negative, err = parseMeasurement(row[neg]); err != nil {
			out.Diagnostics = append(out.Diagnostics, hittable.Diagnostic{Row: i, Value: row[neg], Err: err})
			continue
		}
		if m.Negative == 0 {
			out.Diagnostics = append(out.Diagnostics, hittable.Diagnostic{Row: i, Value: row[neg], Err: ErrZeroDenominator})
			continue
		}

		m.Fold = m.Positive / m.Negative
		m.Hit = m.Fold > o.MinFold
		out.Measurements = append(out.Measurements, m)

		if m.Hit {
			values := make([]string, len(t.Header), len(header))
			copy(values, row)
			values = append(values, strconv.FormatFloat(m.Fold, 'f', -1, 64))
			out.Hits.Rows = append(out.Hits.Rows, values)
		}
	}

	return out, nil
}

// column finds a measurement column by name, ignoring case and surrounding
// whitespace.
func column(header []string, name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q (header: %v)", hittable.ErrMissingColumn, name, header)
}

func parseMeasurement(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if _, missing := missingTokens[strings.ToLower(s)]; missing {
		return 0, ErrMissingMeasurement
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, cell)
	}

	return v, nil
}

// Folds returns the fold of every measured row, hits or not.
func (r Result) Folds() []float64 {
	out := make([]float64, 0, len(r.Measurements))
	for _, m := range r.Measurements {
		out = append(out, m.Fold)
	}
	return out
}
