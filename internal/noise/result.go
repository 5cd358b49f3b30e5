package noise

import (
	"terraview/internal/errors"
	"terraview/internal/plot"
)

// Result is the data returned for one request.
// Values are ordered with the first dimension varying slowest.
type Result struct {
	Params Params
	Values []float64
	Cached bool
}

// Check verifies that the number of values matches the requested shape.
func (r *Result) Check() error {
	if want := r.Params.SampleCount(); len(r.Values) != want {
		return errors.New(errors.ErrCodeShapeMismatch,
			"expected %d values for %v, got %d", want, r.Params.Shape(), len(r.Values))
	}
	return nil
}

// Series returns the samples of a 1D result paired with their positions.
func (r *Result) Series() plot.Series {
	x := make([]float64, len(r.Values))
	for k := range x {
		x[k] = r.Params.Position(0, k)
	}
	y := make([]float64, len(r.Values))
	copy(y, r.Values)
	return plot.Series{X: x, Y: y}
}

// Grid returns a 2D result as a row-major height grid (x varies fastest).
func (r *Result) Grid() (plot.Grid, error) {
	if r.Params.Dimension != 2 {
		return plot.Grid{}, errors.New(errors.ErrCodeShapeMismatch, "grid needs 2D data, got %dD", r.Params.Dimension)
	}
	if err := r.Check(); err != nil {
		return plot.Grid{}, err
	}
	shape := r.Params.Shape()
	nx, ny := shape[0], shape[1]
	values := make([]float64, len(r.Values))
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			values[iy*nx+ix] = r.Values[ix*ny+iy]
		}
	}
	return plot.Grid{Values: values, NumX: nx, NumY: ny}, nil
}
