package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"

	"github.com/carbocation/platemap/hitpick"
	"github.com/carbocation/platemap/rearrange"
)

// DestPlate draws the wells used on one destination plate of a worklist.
func DestPlate(w io.Writer, res rearrange.Result, destPlate int, fill color.Color) error {
	return PlateMap(w, res.Format, fmt.Sprintf("Plate %d", destPlate), res.DestWells(destPlate), fill)
}

// WorklistMaps writes <prefix>_plate_<p>.png into dir for every destination
// plate of res and returns the paths written.
func WorklistMaps(dir, prefix string, res rearrange.Result, fill color.Color) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, pfx.Err(err)
	}

	written := make([]string, 0, res.Plates())
	for p := 1; p <= res.Plates(); p++ {
		name := filepath.Join(dir, fmt.Sprintf("%s_plate_%d.png", prefix, p))

		f, err := os.Create(name)
		if err != nil {
			return written, pfx.Err(err)
		}
		if err := DestPlate(f, res, p, fill); err != nil {
			f.Close()
			return written, err
		}
		if err := f.Close(); err != nil {
			return written, pfx.Err(err)
		}

		written = append(written, name)
	}

	return written, nil
}

// Points converts measured rows for Scatter.
func Points(res hitpick.Result) []Point {
	out := make([]Point, 0, len(res.Measurements))
	for _, m := range res.Measurements {
		out = append(out, Point{X: m.Positive, Y: m.Negative, Hit: m.Hit})
	}
	return out
}
