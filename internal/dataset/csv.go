package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"terraview/internal/errors"
	"terraview/internal/noise"
	"terraview/internal/plot"
)

// WriteCSV writes a series as "x,value" rows.
func WriteCSV(w io.Writer, s plot.Series) error {
	if len(s.X) != len(s.Y) {
		return errors.New(errors.ErrCodeShapeMismatch, "series has %d x and %d y values", len(s.X), len(s.Y))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "value"}); err != nil {
		return err
	}
	for i := range s.Y {
		if err := cw.Write([]string{formatFloat(s.X[i]), formatFloat(s.Y[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultCSV writes r with one coordinate column per dimension:
// "x,value" for 1D and "x,y,value" for 2D, in service order.
func WriteResultCSV(w io.Writer, r *noise.Result) error {
	if err := r.Check(); err != nil {
		return err
	}
	if r.Params.Dimension == 1 {
		return WriteCSV(w, r.Series())
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "value"}); err != nil {
		return err
	}
	shape := r.Params.Shape()
	for ix := 0; ix < shape[0]; ix++ {
		for iy := 0; iy < shape[1]; iy++ {
			row := []string{
				formatFloat(r.Params.Position(0, ix)),
				formatFloat(r.Params.Position(1, iy)),
				formatFloat(r.Values[ix*shape[1]+iy]),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// LoadCSV reads a 1D series from a CSV file.
// Column detection (case-insensitive): x|t|t1 for positions and
// value|v|y for samples, "value" winning over "y" when both exist.
// Rows that do not parse are skipped.
func LoadCSV(path string) (plot.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return plot.Series{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV for an open reader.
func ReadCSV(in io.Reader) (plot.Series, error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return plot.Series{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	if len(recs) == 0 {
		return plot.Series{}, errors.New(errors.ErrCodeEmptyInput, "empty csv")
	}

	idxX, idxV := -1, -1
	valuePriority := 0
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x", "t", "t1":
			if idxX == -1 {
				idxX = i
			}
		case "value", "v":
			if valuePriority < 2 {
				idxV, valuePriority = i, 2
			}
		case "y":
			if valuePriority < 1 {
				idxV, valuePriority = i, 1
			}
		}
	}
	if idxX == -1 || idxV == -1 {
		return plot.Series{}, errors.New(errors.ErrCodeInvalidFormat, "csv: position and value columns not found")
	}

	var s plot.Series
	for _, row := range recs[1:] {
		if idxX >= len(row) || idxV >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		v, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxV]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, v)
	}
	if len(s.Y) == 0 {
		return plot.Series{}, errors.New(errors.ErrCodeEmptyInput, "csv: no valid samples parsed")
	}
	return s, nil
}
