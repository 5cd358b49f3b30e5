package plot

import (
	"math"

	"terraview/internal/errors"
	"terraview/internal/render"
)

// headroom keeps extrema 3% away from the plot edges.
const headroom = 1.03

// Default line plot strokes.
var (
	ReferenceStroke = render.Stroke{Color: render.MustHex("#ccc"), Width: 1}
	SeriesStroke    = render.Stroke{Color: render.MustHex("#23c"), Width: 2}
)

// LineRenderer draws a Series as a polyline around a horizontal zero line,
// with a vertical grid line at every whole x.
type LineRenderer struct {
	reference render.Stroke
	series    render.Stroke
}

// LineOption configures a LineRenderer.
type LineOption func(*LineRenderer)

// WithReferenceStroke sets the stroke of the center and grid lines.
func WithReferenceStroke(s render.Stroke) LineOption {
	return func(r *LineRenderer) { r.reference = s }
}

// WithSeriesStroke sets the stroke of the data line.
func WithSeriesStroke(s render.Stroke) LineOption {
	return func(r *LineRenderer) { r.series = s }
}

// NewLineRenderer creates a line renderer.
func NewLineRenderer(opts ...LineOption) *LineRenderer {
	r := &LineRenderer{reference: ReferenceStroke, series: SeriesStroke}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render redraws s from scratch. The surface is always fitted and cleared;
// the returned error says why nothing (or only part) was drawn:
//
//   - no samples: nil, nothing drawn
//   - len(X) != len(Y): SHAPE_MISMATCH, nothing drawn
//   - zero-size surface or x range: DEGENERATE_RANGE, nothing drawn
//   - NaN or Inf samples: NON_FINITE_VALUE, segments touching them skipped
func (r *LineRenderer) Render(s render.Surface, data Series) error {
	render.Fit(s)
	s.Clear()

	n := len(data.Y)
	if n == 0 {
		return nil
	}
	if len(data.X) != n {
		return errors.New(errors.ErrCodeShapeMismatch, "series has %d x and %d y values", len(data.X), n)
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeDegenerateRange, "surface is %dx%d", w, h)
	}

	x0 := data.X[0]
	span := data.X[n-1] - x0
	if span == 0 || !isFinite(span) {
		return errors.New(errors.ErrCodeDegenerateRange, "x range [%g, %g] is empty", x0, data.X[n-1])
	}

	peak, nonFinite := maxAbs(data.Y)
	xScale := float64(w) / span
	yScale := 0.0
	if peak > 0 {
		yScale = (float64(h) / 2) / (peak * headroom)
	}
	half := float64(h) / 2
	px := func(x float64) float64 { return (x - x0) * xScale }
	py := func(y float64) float64 { return half - y*yScale }

	s.StrokeLine(render.Point{X: 0, Y: half}, render.Point{X: float64(w), Y: half}, r.reference)

	for i := 1; i < n; i++ {
		if x := data.X[i]; x == math.Trunc(x) {
			s.StrokeLine(render.Point{X: px(x), Y: 0}, render.Point{X: px(x), Y: float64(h)}, r.reference)
		}
		if !isFinite(data.Y[i-1]) || !isFinite(data.Y[i]) || !isFinite(data.X[i-1]) || !isFinite(data.X[i]) {
			continue
		}
		s.StrokeLine(
			render.Point{X: px(data.X[i-1]), Y: py(data.Y[i-1])},
			render.Point{X: px(data.X[i]), Y: py(data.Y[i])},
			r.series,
		)
	}

	if nonFinite > 0 {
		return errors.New(errors.ErrCodeNonFiniteValue, "skipped %d non-finite samples", nonFinite)
	}
	return nil
}
