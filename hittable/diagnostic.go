package hittable

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Diagnostic explains why one input row was skipped. Row is the 0-based
// index into Table.Rows.
type Diagnostic struct {
	Row   int
	Value string
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("row %d (%q): %v", d.Row+1, d.Value, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type diagnosticRecord struct {
	Row    int    `csv:"Row"`
	Value  string `csv:"Value"`
	Reason string `csv:"Reason"`
}

// WriteDiagnostics writes one CSV line per skipped row, numbering rows from
// 1 as a spreadsheet would (excluding the header).
func WriteDiagnostics(w io.Writer, diags []Diagnostic) error {
	records := make([]diagnosticRecord, 0, len(diags))
	for _, d := range diags {
		records = append(records, diagnosticRecord{Row: d.Row + 1, Value: d.Value, Reason: d.Err.Error()})
	}

	return gocsv.Marshal(records, w)
}
