package hittable

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/pfx"
)

// Write emits the table as delimited text, header first. Rows shorter than
// the header are padded so every line has the same number of fields.
func Write(w io.Writer, t Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(t.Header); err != nil {
		return pfx.Err(err)
	}

	for _, row := range t.Rows {
		if len(row) < len(t.Header) {
			padded := make([]string, len(t.Header))
			copy(padded, row)
			row = padded
		}
		if err := cw.Write(row); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()

	return pfx.Err(cw.Error())
}
