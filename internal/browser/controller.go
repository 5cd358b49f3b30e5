// Package browser holds the state of one noise browser: the request
// parameters, the last good result and the error line. It sequences
// requests so a slow, superseded response can never overwrite newer data.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"terraview/internal/noise"
)

// Fetcher retrieves sampled noise. noiseapi.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, p noise.Params) (*noise.Result, error)
}

// Controller owns the parameters of a browser and applies fetch outcomes.
// All methods are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	params  noise.Params
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	result  *noise.Result
	err     error
	fetcher Fetcher
	logger  *log.Logger
}

// New creates a controller with the default parameters for dimension.
func New(dimension int, noiseFunction string, fetcher Fetcher, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		params:  noise.DefaultParams(dimension, noiseFunction),
		fetcher: fetcher,
		logger:  logger,
	}
}

// SetFrom parses a comma-joined list of integers into the range start.
func (c *Controller) SetFrom(text string) (bool, error) {
	return c.setInts(text, func(p *noise.Params) *[]int { return &p.From })
}

// SetTo parses a comma-joined list of integers into the range end.
func (c *Controller) SetTo(text string) (bool, error) {
	return c.setInts(text, func(p *noise.Params) *[]int { return &p.To })
}

func (c *Controller) setInts(text string, field func(*noise.Params) *[]int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := noise.ParseInts(text, c.params.Dimension)
	if err != nil {
		return false, err
	}
	next := c.params.Clone()
	*field(&next) = v
	return c.apply(next), nil
}

// SetResolution parses a positive integer resolution.
func (c *Controller) SetResolution(text string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := noise.ParseResolution(text)
	if err != nil {
		return false, err
	}
	next := c.params.Clone()
	next.Resolution = v
	return c.apply(next), nil
}

// SetSeed parses an integer seed. Empty text lets the service pick one.
func (c *Controller) SetSeed(text string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := noise.ParseSeed(text)
	if err != nil {
		return false, err
	}
	next := c.params.Clone()
	next.Seed = v
	return c.apply(next), nil
}

func (c *Controller) apply(next noise.Params) bool {
	if c.params.Equal(next) {
		return false
	}
	c.params = next
	return true
}

// Request is one dispatched fetch.
type Request struct {
	Seq     uint64
	Params  noise.Params
	ctx     context.Context
	cancel  context.CancelFunc
	fetcher Fetcher
}

// Outcome is the result of a Request, ready for Resolve.
type Outcome struct {
	Seq     uint64
	Params  noise.Params
	Result  *noise.Result
	Err     error
	Elapsed time.Duration
}

// Do runs the fetch. It blocks and is meant to run off the UI goroutine.
func (r *Request) Do() Outcome {
	defer r.cancel()
	start := time.Now()
	res, err := r.fetcher.Fetch(r.ctx, r.Params)
	return Outcome{Seq: r.Seq, Params: r.Params, Result: res, Err: err, Elapsed: time.Since(start)}
}

// Dispatch snapshots the current parameters and cancels any request still in
// flight. Parameters that fail validation are reported without dispatching
// and become the error line; the request in flight is abandoned either way.
func (c *Controller) Dispatch(ctx context.Context) (*Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	if err := c.params.Validate(); err != nil {
		c.err = err
		return nil, err
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	c.logger.Debug("dispatch", "seq", c.seq, "params", c.params)
	return &Request{
		Seq:     c.seq,
		Params:  c.params.Clone(),
		ctx:     reqCtx,
		cancel:  cancel,
		fetcher: c.fetcher,
	}, nil
}

// Resolve applies o if it answers the latest request for the current
// parameters and reports whether it did. Failures replace the error line and
// keep the last good result on screen.
func (c *Controller) Resolve(o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o.Seq != c.seq || !o.Params.Equal(c.params) {
		c.logger.Debug("discarding superseded response", "seq", o.Seq, "latest", c.seq)
		return false
	}
	c.loading = false
	c.cancel = nil
	if o.Err != nil {
		c.err = o.Err
		c.logger.Warn("fetch failed", "params", o.Params, "err", o.Err)
		return true
	}
	c.result = o.Result
	c.err = nil
	c.logger.Debug("applied", "seq", o.Seq, "values", len(o.Result.Values), "cached", o.Result.Cached, "took", o.Elapsed)
	return true
}

// Cancel aborts the request in flight, if any. Its outcome will be
// discarded by Resolve.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return
	}
	c.abandonLocked()
}

// abandonLocked cancels the request in flight, if any, and advances the
// sequence so its outcome is discarded.
func (c *Controller) abandonLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
	c.seq++
}

// Params returns a copy of the current parameters.
func (c *Controller) Params() noise.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params.Clone()
}

// Result returns the last good result, or nil.
func (c *Controller) Result() *noise.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Err returns the current error line, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether the latest request is still in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Seq returns the current sequence number. Outcomes carrying any other
// number are discarded.
func (c *Controller) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
