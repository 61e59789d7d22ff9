// Package render draws destination plate maps and hit-picking plots.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/icza/gox/imagex/colorx"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultHitColor is used when no color is configured.
const DefaultHitColor = "#d62728"

// ParseColor reads a #rrggbb or #rgb color. The leading # is optional.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorx.ParseHexColor(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", hex, err)
	}

	return c, nil
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
