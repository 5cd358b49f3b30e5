// Package dataset saves fetched noise to disk and reads it back: JSON
// snapshots that round-trip a whole result, and CSV exports of the samples.
package dataset

import (
	"math"
	"time"

	"terraview/internal/noise"
)

// SnapshotVersion is the snapshot file format version.
const SnapshotVersion = 1

// Snapshot is a fetched result together with the request that produced it.
type Snapshot struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"savedAt"`
	Params  SnapshotParams `json:"params"`
	Values  []float64      `json:"values"`
}

// SnapshotParams is the JSON form of noise.Params.
type SnapshotParams struct {
	Dimension     int    `json:"dimension"`
	From          []int  `json:"from"`
	To            []int  `json:"to"`
	Resolution    int    `json:"resolution"`
	NoiseFunction string `json:"noiseFunction"`
	Seed          *int64 `json:"seed,omitempty"`
}

// Summary describes a set of samples. Min, Max and Mean cover finite values
// only; they are zero when there are none.
type Summary struct {
	Count     int
	Min       float64
	Max       float64
	Mean      float64
	MaxAbs    float64
	NonFinite int
}

// Stats summarizes values in one pass.
func Stats(values []float64) Summary {
	s := Summary{Count: len(values)}
	finite, sum := 0, 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.NonFinite++
			continue
		}
		if finite == 0 {
			s.Min, s.Max = v, v
		} else {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
		s.MaxAbs = math.Max(s.MaxAbs, math.Abs(v))
		sum += v
		finite++
	}
	if finite > 0 {
		s.Mean = sum / float64(finite)
	}
	return s
}

func toSnapshotParams(p noise.Params) SnapshotParams {
	c := p.Clone()
	return SnapshotParams{
		Dimension:     c.Dimension,
		From:          c.From,
		To:            c.To,
		Resolution:    c.Resolution,
		NoiseFunction: c.NoiseFunction,
		Seed:          c.Seed,
	}
}

func (sp SnapshotParams) params() noise.Params {
	return noise.Params{
		Dimension:     sp.Dimension,
		From:          sp.From,
		To:            sp.To,
		Resolution:    sp.Resolution,
		NoiseFunction: sp.NoiseFunction,
		Seed:          sp.Seed,
	}.Clone()
}
