package noiseapi

import (
	"encoding/json"
	"math"

	"terraview/internal/errors"
	"terraview/internal/noise"
)

// SchemaVersion is the only response layout the client understands.
const SchemaVersion = 1

// response is the version 1 body of a successful noise request.
//
//	{"version":1,"values":[...],"from":[0,0],"to":[5,2],"resolution":20,"noiseFunction":"red"}
//
// The older layout carrying a "rawNoise" object is rejected.
type response struct {
	Version       *int            `json:"version"`
	Values        []float64       `json:"values"`
	From          []float64       `json:"from"`
	To            []float64       `json:"to"`
	Resolution    int             `json:"resolution"`
	NoiseFunction string          `json:"noiseFunction"`
	RawNoise      json.RawMessage `json:"rawNoise,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Decode parses a response body for the request p.
func Decode(data []byte, p noise.Params) (*noise.Result, error) {
	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBadResponse, err, "invalid json")
	}
	if len(r.RawNoise) > 0 && string(r.RawNoise) != "null" {
		return nil, errors.New(errors.ErrCodeUnsupportedSchema, "rawNoise responses are not supported")
	}
	version := SchemaVersion
	if r.Version != nil {
		version = *r.Version
	}
	if version != SchemaVersion {
		return nil, errors.New(errors.ErrCodeUnsupportedSchema, "response version %d is not supported", version)
	}
	if r.Values == nil {
		return nil, errors.New(errors.ErrCodeBadResponse, "response has no values")
	}
	if !echoes(r.From, p.From) || !echoes(r.To, p.To) {
		return nil, errors.New(errors.ErrCodeBadResponse, "response range does not match the request")
	}
	if r.Resolution != 0 && r.Resolution != p.Resolution {
		return nil, errors.New(errors.ErrCodeBadResponse, "response resolution %d does not match %d", r.Resolution, p.Resolution)
	}

	res := &noise.Result{Params: p.Clone(), Values: r.Values}
	if err := res.Check(); err != nil {
		return nil, err
	}
	return res, nil
}

// echoes reports whether the range the service echoed back matches the
// request. An omitted range is accepted.
func echoes(got []float64, want []int) bool {
	if got == nil {
		return true
	}
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-float64(want[i])) > 1e-9 {
			return false
		}
	}
	return true
}

// Encode writes a version 1 body for a result.
func Encode(r *noise.Result) ([]byte, error) {
	version := SchemaVersion
	from := make([]float64, len(r.Params.From))
	to := make([]float64, len(r.Params.To))
	for i := range from {
		from[i] = float64(r.Params.From[i])
		to[i] = float64(r.Params.To[i])
	}
	return json.Marshal(response{
		Version:       &version,
		Values:        r.Values,
		From:          from,
		To:            to,
		Resolution:    r.Params.Resolution,
		NoiseFunction: r.Params.NoiseFunction,
	})
}
