// Package noise describes noise requests and the sampled data the service
// returns for them.
package noise

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"terraview/internal/errors"
)

// Default ranges used when a browser opens, indexed by dimension.
var (
	defaultFrom       = []int{0, 0, 0}
	defaultTo         = []int{5, 2, 2}
	defaultResolution = []int{40, 20}
)

// Params is a snapshot of everything that determines a noise request.
type Params struct {
	Dimension     int
	From          []int
	To            []int
	Resolution    int
	NoiseFunction string
	Seed          *int64
}

// DefaultParams returns the initial parameters of a browser.
func DefaultParams(dimension int, noiseFunction string) Params {
	res := defaultResolution[len(defaultResolution)-1]
	if dimension >= 1 && dimension <= len(defaultResolution) {
		res = defaultResolution[dimension-1]
	}
	d := min(max(dimension, 0), len(defaultFrom))
	return Params{
		Dimension:     dimension,
		From:          slices.Clone(defaultFrom[:d]),
		To:            slices.Clone(defaultTo[:d]),
		Resolution:    res,
		NoiseFunction: noiseFunction,
	}
}

// Validate checks the rules the service enforces so bad requests never leave
// the client.
func (p Params) Validate() error {
	if p.Dimension < 1 || p.Dimension > 2 {
		return errors.New(errors.ErrCodeInvalidParams, "dimension must be 1 or 2, got %d", p.Dimension)
	}
	if len(p.From) != p.Dimension {
		return errors.New(errors.ErrCodeInvalidParams, "from must have %d entries", p.Dimension)
	}
	if len(p.To) != p.Dimension {
		return errors.New(errors.ErrCodeInvalidParams, "to must have %d entries", p.Dimension)
	}
	for i := range p.From {
		if p.From[i] >= p.To[i] {
			return errors.New(errors.ErrCodeInvalidParams, "to must be greater than from in each dimension")
		}
	}
	if p.Resolution < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "resolution must be a positive integer")
	}
	if n := p.sampleCountFloat(); n > MaxSampleCount {
		return errors.New(errors.ErrCodeInvalidParams, "request asks for %.4g samples, at most %d are possible", n, MaxSampleCount)
	}
	if p.NoiseFunction == "" {
		return errors.New(errors.ErrCodeInvalidParams, "noise function is required")
	}
	return nil
}

// MaxSampleCount bounds the samples a single request may ask for, so that
// Shape and SampleCount never overflow for validated parameters.
const MaxSampleCount = math.MaxInt32

// sampleCountFloat computes the sample count without integer overflow.
func (p Params) sampleCountFloat() float64 {
	n := 1.0
	for i := range p.From {
		n *= (float64(p.To[i]) - float64(p.From[i])) * float64(p.Resolution)
	}
	return n
}

// Shape returns the number of samples along each dimension. Only validated
// parameters are guaranteed not to overflow.
func (p Params) Shape() []int {
	shape := make([]int, len(p.From))
	for i := range p.From {
		shape[i] = (p.To[i] - p.From[i]) * p.Resolution
	}
	return shape
}

// SampleCount returns the total number of values the service returns.
func (p Params) SampleCount() int {
	if len(p.From) == 0 {
		return 0
	}
	n := 1
	for _, s := range p.Shape() {
		n *= s
	}
	return n
}

// Position returns the coordinate of sample k along dimension dim.
func (p Params) Position(dim, k int) float64 {
	return float64(p.From[dim]) + float64(k)/float64(p.Resolution)
}

// Equal reports whether two snapshots describe the same request.
func (p Params) Equal(o Params) bool {
	if p.Dimension != o.Dimension || p.Resolution != o.Resolution || p.NoiseFunction != o.NoiseFunction {
		return false
	}
	if !slices.Equal(p.From, o.From) || !slices.Equal(p.To, o.To) {
		return false
	}
	switch {
	case p.Seed == nil && o.Seed == nil:
		return true
	case p.Seed == nil || o.Seed == nil:
		return false
	default:
		return *p.Seed == *o.Seed
	}
}

// Clone returns a deep copy.
func (p Params) Clone() Params {
	c := p
	c.From = slices.Clone(p.From)
	c.To = slices.Clone(p.To)
	if p.Seed != nil {
		s := *p.Seed
		c.Seed = &s
	}
	return c
}

// Query encodes the request as URL query parameters.
func (p Params) Query() url.Values {
	q := url.Values{}
	q.Set("from", JoinInts(p.From))
	q.Set("to", JoinInts(p.To))
	q.Set("resolution", strconv.Itoa(p.Resolution))
	q.Set("noiseFunction", p.NoiseFunction)
	if p.Seed != nil {
		q.Set("seed", strconv.FormatInt(*p.Seed, 10))
	}
	return q
}

// String is used for logging.
func (p Params) String() string {
	seed := "random"
	if p.Seed != nil {
		seed = strconv.FormatInt(*p.Seed, 10)
	}
	return fmt.Sprintf("%s %dD from=[%s] to=[%s] res=%d seed=%s",
		p.NoiseFunction, p.Dimension, JoinInts(p.From), JoinInts(p.To), p.Resolution, seed)
}

// JoinInts formats integers as a comma-joined list.
func JoinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ParseInts parses a comma-joined integer list with exactly n entries.
// Entries must be written canonically: "1.0", " 2" and "03" are rejected.
func ParseInts(s string, n int) ([]int, error) {
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidParams, "expected %d comma-separated integers", n)
	}
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidParams, "expected %d comma-separated integers, got %d", n, len(parts))
	}
	out := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || strconv.Itoa(v) != part {
			return nil, errors.New(errors.ErrCodeInvalidParams, "%q is not an integer", part)
		}
		out[i] = v
	}
	return out, nil
}

// ParseResolution parses a positive integer.
func ParseResolution(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(v) != s || v < 1 {
		return 0, errors.New(errors.ErrCodeInvalidParams, "resolution must be a positive integer")
	}
	return v, nil
}

// ParseSeed parses an optional seed. An empty string means the service picks one.
func ParseSeed(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidParams, "seed must be an integer")
	}
	return &v, nil
}
