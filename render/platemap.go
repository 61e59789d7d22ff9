package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/carbocation/platemap/plate"
)

const (
	cellSize = 24.0
	margin   = 28.0
)

var (
	emptyWell  = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	wellBorder = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

// PlateMapSize is the pixel size of the image PlateMap draws for f.
func PlateMapSize(f plate.Format) (width, height int) {
	return int(2*margin + float64(f.Cols)*cellSize), int(2*margin + float64(f.Rows)*cellSize)
}

// PlateMap draws one plate of format f as a PNG grid with row letters and
// column numbers. Wells listed in used are filled with fill; the rest are drawn
// empty. title, if set, is written in the top left corner.
func PlateMap(w io.Writer, f plate.Format, title string, used []plate.Well, fill color.Color) error {
	if err := f.Validate(); err != nil {
		return err
	}

	filled := make(map[plate.Well]struct{}, len(used))
	for _, well := range used {
		if !f.Contains(well) {
			return fmt.Errorf("%w: %s on a %s plate", plate.ErrOutOfRange, well, f)
		}
		filled[well] = struct{}{}
	}

	width, height := PlateMapSize(f)
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	if title != "" {
		dc.DrawStringAnchored(title, 4, margin/2-6, 0, 0.5)
	}
	for c := 1; c <= f.Cols; c++ {
		dc.DrawStringAnchored(strconv.Itoa(c), margin+(float64(c)-0.5)*cellSize, margin-6, 0.5, 0)
	}
	for r := 0; r < f.Rows; r++ {
		dc.DrawStringAnchored(string(plate.Alphabet[r]), margin/2, margin+(float64(r)+0.5)*cellSize, 0.5, 0.5)
	}

	radius := cellSize/2 - 2
	for r := 0; r < f.Rows; r++ {
		for c := 1; c <= f.Cols; c++ {
			x := margin + (float64(c)-0.5)*cellSize
			y := margin + (float64(r)+0.5)*cellSize

			dc.DrawCircle(x, y, radius)
			if _, ok := filled[plate.Well{Row: r, Col: c}]; ok {
				dc.SetColor(fill)
			} else {
				dc.SetColor(emptyWell)
			}
			dc.FillPreserve()
			dc.SetColor(wellBorder)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}

	return dc.EncodePNG(w)
}
