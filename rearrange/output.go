package rearrange

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/carbocation/platemap/hittable"
)

// File name suffixes appended to the input's base name.
const (
	WorklistSuffix = "_deconvoluted"
	HitListSuffix  = "_hit_list"
	SkippedSuffix  = "_skipped"
)

// OutputPrefix derives output file names from an input path: the base name
// up to its first dot, so hits.tsv.gz becomes hits. Works for gs:// paths
// too.
func OutputPrefix(inputPath string) string {
	base := path.Base(filepath.ToSlash(inputPath))
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// WriteCSV writes the worklist as comma-delimited text.
func (r Result) WriteCSV(w io.Writer) error {
	return hittable.Write(w, r.Table(), ',')
}

// WriteFiles writes the worklist into dir as <prefix>_deconvoluted.csv or,
// when groupPlates > 0, as one <prefix>_deconvoluted_<k>.csv per batch.
// Skipped rows, if any, go to <prefix>_skipped.csv. It returns the paths
// written.
func (r Result) WriteFiles(dir, prefix string, groupPlates int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, pfx.Err(err)
	}

	var written []string

	if groupPlates == 0 {
		name := filepath.Join(dir, prefix+WorklistSuffix+".csv")
		if err := writeFile(name, r.WriteCSV); err != nil {
			return written, err
		}
		written = append(written, name)
	} else {
		batches, err := r.Batches(groupPlates)
		if err != nil {
			return nil, err
		}

		for _, b := range batches {
			name := filepath.Join(dir, fmt.Sprintf("%s%s_%d.csv", prefix, WorklistSuffix, b.Index))
			if err := writeFile(name, b.WriteCSV); err != nil {
				return written, err
			}
			written = append(written, name)
		}
	}

	if len(r.Diagnostics) > 0 {
		name := filepath.Join(dir, prefix+SkippedSuffix+".csv")
		err := writeFile(name, func(w io.Writer) error {
			return hittable.WriteDiagnostics(w, r.Diagnostics)
		})
		if err != nil {
			return written, err
		}
		written = append(written, name)
	}

	return written, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return pfx.Err(err)
	}

	if err := write(f); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return pfx.Err(f.Close())
}
