// Package plot turns sampled noise into pictures: a line plot for 1D
// series and a lit height mesh for 2D grids.
package plot

import (
	"math"

	"terraview/internal/errors"
)

// Series is a 1D sample series. X is expected to be non-decreasing.
type Series struct {
	X []float64
	Y []float64
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Y) }

// Grid is a 2D height field stored row-major: Values[iy*NumX+ix].
type Grid struct {
	Values []float64
	NumX   int
	NumY   int
}

// Validate checks the grid dimensions against its values.
func (g Grid) Validate() error {
	if g.NumX < 1 || g.NumY < 1 {
		return errors.New(errors.ErrCodeShapeMismatch, "grid must be at least 1x1, got %dx%d", g.NumX, g.NumY)
	}
	if len(g.Values) != g.NumX*g.NumY {
		return errors.New(errors.ErrCodeShapeMismatch,
			"grid %dx%d needs %d values, got %d", g.NumX, g.NumY, g.NumX*g.NumY, len(g.Values))
	}
	return nil
}

// At returns the height at (ix, iy).
func (g Grid) At(ix, iy int) float64 { return g.Values[iy*g.NumX+ix] }

// maxAbs returns the largest finite |v| and how many values were not finite.
func maxAbs(values []float64) (m float64, nonFinite int) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite++
			continue
		}
		m = math.Max(m, math.Abs(v))
	}
	return m, nonFinite
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
