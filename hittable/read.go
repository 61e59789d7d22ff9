package hittable

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"

	"github.com/carbocation/platemap"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ReadFile loads a hit table from a local path or gs:// URL. The format is
// chosen by extension: .xlsx and .xls are read as spreadsheets (first sheet
// only); anything else is treated as delimited text, optionally compressed.
func ReadFile(ctx context.Context, path string, client *storage.Client) (Table, error) {
	f, err := platemap.Open(ctx, path, client)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	return Read(path, f)
}

// Read loads a hit table from r, using name only to pick the format.
func Read(name string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ReadXLSX(r)
	case ".xls":
		// The xls reader needs to seek.
		data, err := io.ReadAll(r)
		if err != nil {
			return Table{}, pfx.Err(err)
		}
		return ReadXLS(bytes.NewReader(data))
	}

	decompressed, _, err := platemap.MaybeDecompress(r)
	if err != nil {
		return Table{}, pfx.Err(fmt.Errorf("%s: %w", name, err))
	}

	return ReadDelimited(decompressed)
}

// ReadDelimited reads CSV-like text. The delimiter is sniffed from the data,
// and non-UTF-8 exports (e.g. Windows-1252 from older Excel versions) are
// transcoded.
func ReadDelimited(r io.Reader) (Table, error) {
	utf8Reader, err := charset.NewReader(r, "text/csv")
	if err != nil {
		return Table{}, pfx.Err(err)
	}

	data, err := io.ReadAll(utf8Reader)
	if err != nil {
		return Table{}, pfx.Err(err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = platemap.DetermineDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, pfx.Err(err)
	}

	return fromRecords(records)
}

// ReadXLS reads the first sheet of a legacy Excel workbook.
func ReadXLS(rs io.ReadSeeker) (Table, error) {
	spreadsheet, err := xls.OpenReader(rs, "utf-8")
	if err != nil {
		return Table{}, pfx.Err(err)
	}

	if spreadsheet.NumSheets() < 1 {
		return Table{}, fmt.Errorf("Workbook contains no sheets")
	}

	sheet := spreadsheet.GetSheet(0)
	if sheet == nil {
		return Table{}, fmt.Errorf("Sheet 0 was nil")
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			continue
		}

		record := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			record = append(record, row.Col(colID))
		}
		records = append(records, trimTrailingEmpty(record))
	}

	return fromRecords(records)
}

// ReadXLSX reads the first sheet of an Office Open XML workbook.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, pfx.Err(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 1 {
		return Table{}, fmt.Errorf("Workbook contains no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, pfx.Err(err)
	}

	return fromRecords(records)
}

// fromRecords treats the first non-blank record as the header and drops
// blank rows, which spreadsheets tend to leave behind.
func fromRecords(records [][]string) (Table, error) {
	out := Table{}

	for _, record := range records {
		if blank(record) {
			continue
		}

		if out.Header == nil {
			out.Header = trimAll(record)
			continue
		}

		out.Rows = append(out.Rows, record)
	}

	if out.Header == nil {
		return out, fmt.Errorf("%w: the table has no header", ErrMissingColumn)
	}

	return out, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, v := range record {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func trimTrailingEmpty(record []string) []string {
	for len(record) > 0 && record[len(record)-1] == "" {
		record = record[:len(record)-1]
	}
	return record
}
