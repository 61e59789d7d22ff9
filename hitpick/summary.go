package hitpick

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Rows       int
	Measured   int
	Hits       int
	MeanFold   float64
	MedianFold float64
	MaxFold    float64

	// Correlation is Pearson's r between the two channels over measured
	// rows. NaN when fewer than two rows were measured.
	Correlation float64
}

func (r Result) Summary() (Summary, error) {
	out := Summary{
		Rows:        len(r.Measurements) + len(r.Diagnostics),
		Measured:    len(r.Measurements),
		Hits:        r.Hits.Len(),
		Correlation: math.NaN(),
	}
	if out.Measured == 0 {
		return out, nil
	}

	data := stats.LoadRawData(r.Folds())

	var err error
	if out.MeanFold, err = data.Mean(); err != nil {
		return out, err
	}
	if out.MedianFold, err = data.Median(); err != nil {
		return out, err
	}
	if out.MaxFold, err = data.Max(); err != nil {
		return out, err
	}

	if out.Measured > 1 {
		pos := make([]float64, 0, out.Measured)
		neg := make([]float64, 0, out.Measured)
		for _, m := range r.Measurements {
			pos = append(pos, m.Positive)
			neg = append(neg, m.Negative)
		}
		out.Correlation = stat.Correlation(pos, neg, nil)
	}

	return out, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("%d of %d rows measured, %d hits. Fold mean %.3f, median %.3f, max %.3f. Channel correlation %.3f",
		s.Measured, s.Rows, s.Hits, s.MeanFold, s.MedianFold, s.MaxFold, s.Correlation)
}
