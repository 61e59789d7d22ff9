package hittable

import (
	"bytes"
	"compress/gzip"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/carbocation/platemap/plate"
)

func TestColumnsBySubstring(t *testing.T) {
	tbl := Table{Header: []string{"Ag+", "Hybridoma plate #", "Ag-", "well id"}}

	norm, cols, err := tbl.Normalized()
	require.NoError(t, err)
	assert.Equal(t, Columns{Plate: 1, Well: 3}, cols)
	assert.Equal(t, []string{"Ag+", SourcePlate, "Ag-", SourceWell}, norm.Header)

	// The original header is left alone.
	assert.Equal(t, "Hybridoma plate #", tbl.Header[1])
}

func TestColumnsExactNameWins(t *testing.T) {
	tbl := Table{Header: []string{"Plate barcode", "SourcePlate", "SourceWell", "Well notes"}}

	cols, err := tbl.Columns()
	require.NoError(t, err)
	assert.Equal(t, Columns{Plate: 1, Well: 2}, cols)
}

func TestColumnsMissing(t *testing.T) {
	_, err := Table{Header: []string{"SourcePlate", "Ag+"}}.Columns()
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = Table{Header: []string{"Position", "SourceWell"}}.Columns()
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestHitsSkipsMalformedRows(t *testing.T) {
	tbl := Table{
		Header: []string{"SourcePlate", "SourceWell", "Ag+"},
		Rows: [][]string{
			{"1", "A02", "100"},
			{" 1 ", " A06", "10000"},
			{"x", "A11", "50"},
			{"2", "B4", "1039"},
			{"2", "4B", "1023"},
			{"3"},
			{"3.0", "Q01", "78"},
			{"0", "A01", "1"},
			{"3.0", "a21", "67"},
		},
	}

	_, hits, diags, err := tbl.Hits(plate.Format384)
	require.NoError(t, err)

	got := make([]string, 0, len(hits))
	for _, h := range hits {
		got = append(got, h.Coordinate.String())
	}
	assert.Equal(t, []string{"1:A02", "1:A06", "2:B04", "3:A21"}, got)
	assert.Equal(t, []int{0, 1, 3, 8}, []int{hits[0].Row, hits[1].Row, hits[2].Row, hits[3].Row})

	require.Len(t, diags, 5)
	assert.True(t, errors.Is(diags[0], ErrMalformedPlate))
	assert.Equal(t, 2, diags[0].Row)
	assert.True(t, errors.Is(diags[1], plate.ErrMalformedWell))
	assert.True(t, errors.Is(diags[2], ErrShortRow))
	assert.True(t, errors.Is(diags[3], plate.ErrOutOfRange))
	assert.True(t, errors.Is(diags[4], ErrMalformedPlate))
	assert.Contains(t, diags[1].Error(), "row 5")
}

func TestHitsEmpty(t *testing.T) {
	_, hits, diags, err := Table{Header: []string{"SourcePlate", "SourceWell"}}.Hits(plate.Format384)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Empty(t, diags)
}

func TestParsePlate(t *testing.T) {
	for input, expected := range map[string]int{"1": 1, " 12 ": 12, "3.0": 3, "4.00": 4} {
		got, err := ParsePlate(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}

	for _, input := range []string{"", "0", "-2", "3.5", "NA", "one", "9223372036854775807", "1e12", "536870912"} {
		_, err := ParsePlate(input)
		assert.True(t, errors.Is(err, ErrMalformedPlate), input)
	}

	got, err := ParsePlate("536870911")
	require.NoError(t, err)
	assert.Equal(t, plate.MaxPlate, got)
}

func TestReadDelimitedTSV(t *testing.T) {
	tbl, err := ReadDelimited(strings.NewReader("SourcePlate\tSourceWell\tAg+\tAg-\n1\tA02\t100\t87\n1\t A06\t10000\t242\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"SourcePlate", "SourceWell", "Ag+", "Ag-"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, " A06", tbl.Rows[1][1])
}

func TestReadDelimitedWindows1252(t *testing.T) {
	// Older Excel versions export Windows-1252, not UTF-8.
	data := []byte("Plate,Well,Note\n1,A02,d\xe9j\xe0\n2,B04,ok\n")

	tbl, err := ReadDelimited(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "déjà", tbl.Rows[0][2])
}

func TestReadDelimitedBOM(t *testing.T) {
	tbl, err := ReadDelimited(strings.NewReader("\xef\xbb\xbfSourcePlate,SourceWell\n1,A02\n"))
	require.NoError(t, err)
	assert.Equal(t, "SourcePlate", tbl.Header[0])
}

func TestReadGzippedCSV(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("SourcePlate,SourceWell\n1,A02\n2,B04\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	tbl, err := Read("hits.csv.gz", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Plate", "Well", "Ag+", "Ag-"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1, "A02", 100, 87}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{2, "B04", 1039, 102}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := Read("hits.xlsx", buf)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	_, hits, diags, err := tbl.Hits(plate.Format384)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "2:B04", hits[1].Coordinate.String())
}

func TestFromRecordsDropsBlankRows(t *testing.T) {
	tbl, err := fromRecords([][]string{{"", ""}, {" Plate ", "Well"}, {"1", "A02"}, {"", " "}, {"2", "B04"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Plate", "Well"}, tbl.Header)
	assert.Equal(t, [][]string{{"1", "A02"}, {"2", "B04"}}, tbl.Rows)
}

func TestReadNoHeader(t *testing.T) {
	_, err := ReadDelimited(strings.NewReader("\n\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestWritePadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Table{Header: []string{"a", "b", "c"}, Rows: [][]string{{"1"}, {"1", "2", "3"}}}, '\t')
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc\n1\t\t\n1\t2\t3\n", buf.String())
}

func TestWriteDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDiagnostics(&buf, []Diagnostic{{Row: 2, Value: "4B", Err: plate.ErrMalformedWell}})
	require.NoError(t, err)
	assert.Equal(t, "Row,Value,Reason\n3,4B,malformed well label\n", buf.String())
}

func TestExample(t *testing.T) {
	_, hits, diags, err := Example().Hits(plate.Format384)
	require.NoError(t, err)
	assert.Len(t, hits, 8)
	assert.Empty(t, diags)
}
