package render

import (
	"errors"
	"image/color"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoPoints = errors.New("nothing to plot")

// Point is one measured row. X is the positive channel, Y the negative.
type Point struct {
	X, Y float64
	Hit  bool
}

// Scatter plots every point in grey and overlays hits in hitColor.
func Scatter(w io.Writer, xLabel, yLabel string, points []Point, hitColor color.RGBA) error {
	if len(points) == 0 {
		return ErrNoPoints
	}

	var allX, allY, hitX, hitY []float64
	for _, p := range points {
		allX = append(allX, p.X)
		allY = append(allY, p.Y)
		if p.Hit {
			hitX = append(hitX, p.X)
			hitY = append(hitY, p.Y)
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name: "measured",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    drawing.ColorFromHex("1f77b4"),
			},
			XValues: allX,
			YValues: allY,
		},
	}
	if len(hitX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name: "hits",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    toDrawing(hitColor),
			},
			XValues: hitX,
			YValues: hitY,
		})
	}

	graph := chart.Chart{
		Width:  640,
		Height: 384,
		XAxis:  chart.XAxis{Name: xLabel},
		YAxis:  chart.YAxis{Name: yLabel},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}

// Histogram prints a text histogram of values, e.g. fold changes, for a
// terminal.
func Histogram(w io.Writer, values []float64, bins int) error {
	if len(values) == 0 {
		return ErrNoPoints
	}
	if bins < 1 {
		bins = 1
	}

	hist := histogram.Hist(bins, values)

	return histogram.Fprint(w, hist, histogram.Linear(40))
}
