package platemap

import (
	"bytes"
	"compress/gzip"
	"io"
	"os/user"
	"path/filepath"
	"testing"
)

func TestDetermineDelimiter(t *testing.T) {
	for expected, sample := range map[rune]string{
		',':  "SourcePlate,SourceWell,Ag+,Ag-\n1,A02,100,87\n1,A06,10000,242\n",
		'\t': "SourcePlate\tSourceWell\tAg+\tAg-\n1\tA02\t100\t87\n1\tA06\t10000\t242\n",
		';':  "SourcePlate;SourceWell\n1;A02\n2;B04\n3;C13\n",
	} {
		if got := DetermineDelimiter([]byte(sample)); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	}
}

func TestMaybeDecompressGzip(t *testing.T) {
	payload := "SourcePlate,SourceWell\n1,A02\n"

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	r, dt, err := MaybeDecompress(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeGzip {
		t.Errorf("Expected gzip, got %v", dt)
	}

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Errorf("Expected %q, got %q", payload, got)
	}
}

func TestDetectDataType(t *testing.T) {
	for expected, header := range map[DataType][]byte{
		DataTypeGzip:          {0x1f, 0x8b, 0x08},
		DataTypeZip:           {0x50, 0x4b, 0x03, 0x04},
		DataTypeXZ:            {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
		DataTypeBZip2:         {0x42, 0x5a, 0x68},
		DataTypeNoCompression: {0x1f, 0x9d, 0x90}, // Unix compress (.Z) is read as-is
	} {
		if got := DetectDataType(header); got != expected {
			t.Errorf("% x: expected %v, got %v", header, expected, got)
		}
	}
}

func TestMaybeDecompressPlain(t *testing.T) {
	for _, payload := range []string{"", "x", "SourcePlate,SourceWell\n1,A02\n"} {
		r, dt, err := MaybeDecompress(bytes.NewBufferString(payload))
		if err != nil {
			t.Fatal(err)
		}
		if dt != DataTypeNoCompression {
			t.Errorf("%q: expected no compression, got %v", payload, dt)
		}

		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != payload {
			t.Errorf("Expected %q, got %q", payload, got)
		}
	}
}

func TestExpandHome(t *testing.T) {
	if got := ExpandHome("/tmp/hits.csv"); got != "/tmp/hits.csv" {
		t.Errorf("Absolute paths must not change, got %s", got)
	}

	usr, err := user.Current()
	if err != nil {
		t.Skip(err)
	}
	if got := ExpandHome("~/hits.csv"); got != filepath.Join(usr.HomeDir, "hits.csv") {
		t.Errorf("Expected the home directory to be expanded, got %s", got)
	}
}

func TestNeedsStorageClient(t *testing.T) {
	if NeedsStorageClient("hits.csv", "/tmp/x.xlsx") {
		t.Error("Local paths do not need a storage client")
	}
	if !NeedsStorageClient("hits.csv", "gs://bucket/screen/hits.csv") {
		t.Error("gs:// paths need a storage client")
	}
}
