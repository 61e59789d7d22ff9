// Package hittable holds the tabular hit lists that flow in and out of the
// plate engine: a header plus rows of opaque string cells, two of which
// identify the source plate and source well.
package hittable

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/platemap/plate"
)

// Canonical column names.
const (
	SourcePlate = "SourcePlate"
	SourceWell  = "SourceWell"
	DestPlate   = "DestPlate"
	DestWell    = "DestWell"
	Vol         = "Vol"
)

var (
	ErrMissingColumn  = errors.New("missing column")
	ErrMalformedPlate = errors.New("malformed plate number")
	ErrShortRow       = errors.New("row is missing cells")
)

// Table is a header and its rows. Cells are kept as read; the engine only
// interprets the source plate and source well columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// Columns locates the source plate and source well columns of a table.
type Columns struct {
	Plate int
	Well  int
}

// Len is the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Columns finds the source plate and well columns. A header named exactly
// SourcePlate (or SourceWell) wins; otherwise the first header containing
// "plate" (or "well"), case-insensitively, is used.
func (t Table) Columns() (Columns, error) {
	out := Columns{Plate: -1, Well: -1}

	for i, h := range t.Header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch name {
		case strings.ToLower(SourcePlate):
			out.Plate = i
		case strings.ToLower(SourceWell):
			out.Well = i
		}
	}

	for i, h := range t.Header {
		name := strings.ToLower(h)
		if out.Plate < 0 && i != out.Well && strings.Contains(name, "plate") {
			out.Plate = i
		} else if out.Well < 0 && i != out.Plate && strings.Contains(name, "well") {
			out.Well = i
		}
	}

	if out.Plate < 0 {
		return out, fmt.Errorf("%w: no header contains \"plate\" (header: %v)", ErrMissingColumn, t.Header)
	}
	if out.Well < 0 {
		return out, fmt.Errorf("%w: no header contains \"well\" (header: %v)", ErrMissingColumn, t.Header)
	}

	return out, nil
}

// Normalized returns a table whose source columns carry the canonical
// SourcePlate and SourceWell names. Rows are shared with t.
func (t Table) Normalized() (Table, Columns, error) {
	cols, err := t.Columns()
	if err != nil {
		return Table{}, cols, err
	}

	header := make([]string, len(t.Header))
	copy(header, t.Header)
	header[cols.Plate] = SourcePlate
	header[cols.Well] = SourceWell

	return Table{Header: header, Rows: t.Rows}, cols, nil
}

// Hit is a data row whose source coordinate parsed.
type Hit struct {
	Row        int
	Coordinate plate.Coordinate
}

// Hits parses the source coordinate of every row. Rows that cannot be parsed
// are skipped and described by a Diagnostic; the error return is reserved
// for problems with the table as a whole.
func (t Table) Hits(f plate.Format) (Columns, []Hit, []Diagnostic, error) {
	cols, err := t.Columns()
	if err != nil {
		return cols, nil, nil, err
	}

	hits := make([]Hit, 0, len(t.Rows))
	var diags []Diagnostic

	for i, row := range t.Rows {
		if len(row) <= cols.Plate || len(row) <= cols.Well {
			diags = append(diags, Diagnostic{Row: i, Value: strings.Join(row, ","), Err: ErrShortRow})
			continue
		}

		plateNum, err := ParsePlate(row[cols.Plate])
		if err != nil {
			diags = append(diags, Diagnostic{Row: i, Value: row[cols.Plate], Err: err})
			continue
		}

		well, err := plate.ParseWell(row[cols.Well])
		if err != nil {
			diags = append(diags, Diagnostic{Row: i, Value: row[cols.Well], Err: err})
			continue
		}

		if !f.Contains(well) {
			diags = append(diags, Diagnostic{Row: i, Value: row[cols.Well], Err: fmt.Errorf("%w: %s on a %s plate", plate.ErrOutOfRange, well, f)})
			continue
		}

		hits = append(hits, Hit{Row: i, Coordinate: plate.Coordinate{Plate: plateNum, Well: well}})
	}

	return cols, hits, diags, nil
}

// ParsePlate reads a plate number between 1 and plate.MaxPlate. Spreadsheets
// often export integers as floats, so "3.0" is accepted; "3.5" is not.
func ParsePlate(cell string) (int, error) {
	s := strings.TrimSpace(cell)

	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > plate.MaxPlate {
			return 0, fmt.Errorf("%w: %q (plates are numbered from 1 to %d)", ErrMalformedPlate, cell, plate.MaxPlate)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 1 || f > plate.MaxPlate {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPlate, cell)
	}

	return int(f), nil
}

// Example is the table users are shown as a template for their own uploads.
func Example() Table {
	plates := []string{"1", "1", "1", "2", "2", "3", "3", "3"}
	wells := []string{"A02", " A06", "A11", "B04", "C06", "C13", "A07", "A21"}
	agPos := []string{"100", "10000", "50", "1039", "1023", "123", "78", "67"}
	agNeg := []string{"87", "242", "52", "102", "194", "62", "60", "72"}

	out := Table{Header: []string{SourcePlate, SourceWell, "Ag+", "Ag-"}}
	for i := range plates {
		out.Rows = append(out.Rows, []string{plates[i], wells[i], agPos[i], agNeg[i]})
	}

	return out
}
