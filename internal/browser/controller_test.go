package browser

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"terraview/internal/errors"
	"terraview/internal/noise"
)

// gateFetcher blocks each fetch until its release channel is closed. With
// ignoreCancel set it behaves like a server that answers a request the
// client no longer wants.
type gateFetcher struct {
	mu           sync.Mutex
	gates        map[string]chan struct{}
	fail         map[string]error
	ignoreCancel bool
}

func newGateFetcher() *gateFetcher {
	return &gateFetcher{gates: map[string]chan struct{}{}, fail: map[string]error{}}
}

func (f *gateFetcher) gate(p noise.Params) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := p.String()
	if _, ok := f.gates[key]; !ok {
		f.gates[key] = make(chan struct{})
	}
	return f.gates[key]
}

func (f *gateFetcher) release(p noise.Params) { close(f.gate(p)) }

func (f *gateFetcher) Fetch(ctx context.Context, p noise.Params) (*noise.Result, error) {
	if f.ignoreCancel {
		<-f.gate(p)
	} else {
		select {
		case <-f.gate(p):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	err := f.fail[p.String()]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	values := make([]float64, p.SampleCount())
	for i := range values {
		values[i] = float64(p.From[0])
	}
	return &noise.Result{Params: p, Values: values}, nil
}

func newController(f Fetcher) *Controller {
	return New(1, "white", f, log.New(io.Discard))
}

func TestControllerDefaults(t *testing.T) {
	c := newController(newGateFetcher())
	p := c.Params()
	if !slices.Equal(p.From, []int{0}) || !slices.Equal(p.To, []int{5}) || p.Resolution != 40 || p.NoiseFunction != "white" {
		t.Errorf("Params() = %+v", p)
	}
	if c.Result() != nil || c.Err() != nil || c.Loading() {
		t.Error("new controller should have no result, error or request")
	}
}

func TestControllerSetters(t *testing.T) {
	c := newController(newGateFetcher())

	tests := []struct {
		name    string
		set     func(string) (bool, error)
		in      string
		changed bool
		wantErr bool
	}{
		{"from", c.SetFrom, "1", true, false},
		{"from same", c.SetFrom, "1", false, false},
		{"from two values", c.SetFrom, "1,2", false, true},
		{"from float", c.SetFrom, "1.5", false, true},
		{"to", c.SetTo, "9", true, false},
		{"resolution", c.SetResolution, "10", true, false},
		{"resolution zero", c.SetResolution, "0", false, true},
		{"seed", c.SetSeed, "42", true, false},
		{"seed same", c.SetSeed, "42", false, false},
		{"seed text", c.SetSeed, "abc", false, true},
		{"seed cleared", c.SetSeed, "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := tt.set(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidParams) {
				t.Errorf("err = %v, want INVALID_PARAMS", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}

	p := c.Params()
	if p.From[0] != 1 || p.To[0] != 9 || p.Resolution != 10 || p.Seed != nil {
		t.Errorf("Params() = %v", p)
	}
}

func TestControllerDispatchRejectsInvalidRange(t *testing.T) {
	c := newController(newGateFetcher())
	if _, err := c.SetFrom("7"); err != nil {
		t.Fatal(err)
	}
	req, err := c.Dispatch(context.Background())
	if req != nil || !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Fatalf("Dispatch() = %v, %v; want INVALID_PARAMS", req, err)
	}
	if c.Err() == nil {
		t.Error("rejected dispatch should set the error line")
	}
}

func TestControllerAppliesLatest(t *testing.T) {
	f := newGateFetcher()
	c := newController(f)

	req, err := c.Dispatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	f.release(req.Params)
	if !c.Resolve(req.Do()) {
		t.Fatal("Resolve() rejected the latest outcome")
	}
	if res := c.Result(); res == nil || len(res.Values) != 200 {
		t.Fatalf("Result() = %v", res)
	}
	if c.Loading() {
		t.Error("Loading() = true after resolve")
	}
}

func TestControllerDiscardsSupersededResponse(t *testing.T) {
	f := newGateFetcher()
	f.ignoreCancel = true
	c := newController(f)

	first, err := c.Dispatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	firstDone := make(chan Outcome, 1)
	go func() { firstDone <- first.Do() }()

	if _, err := c.SetFrom("2"); err != nil {
		t.Fatal(err)
	}
	second, err := c.Dispatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	secondDone := make(chan Outcome, 1)
	go func() { secondDone <- second.Do() }()

	// Let the newer request finish first, then the stale one.
	f.release(second.Params)
	if !c.Resolve(<-secondDone) {
		t.Fatal("latest outcome was rejected")
	}
	f.release(first.Params)
	stale := <-firstDone
	if stale.Err != nil {
		t.Fatalf("stale request failed: %v", stale.Err)
	}
	if c.Resolve(stale) {
		t.Error("superseded outcome was applied")
	}

	res := c.Result()
	if res == nil || !res.Params.Equal(c.Params()) || res.Values[0] != 2 {
		t.Errorf("displayed result is for %v, want %v", res.Params, c.Params())
	}
}

func TestControllerDiscardsWhenParamsChanged(t *testing.T) {
	f := newGateFetcher()
	c := newController(f)

	req, err := c.Dispatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// edited but not yet dispatched
	if _, err := c.SetResolution("8"); err != nil {
		t.Fatal(err)
	}
	f.release(req.Params)
	if c.Resolve(req.Do()) {
		t.Error("outcome for stale parameters was applied")
	}
	if c.Result() != nil {
		t.Error("stale data reached the display")
	}
}

func TestControllerKeepsLastGoodOnError(t *testing.T) {
	f := newGateFetcher()
	c := newController(f)

	req, _ := c.Dispatch(context.Background())
	f.release(req.Params)
	c.Resolve(req.Do())
	good := c.Result()

	c.SetTo("6")
	req, _ = c.Dispatch(context.Background())
	f.fail[req.Params.String()] = errors.New(errors.ErrCodeNetwork, "connection refused")
	f.release(req.Params)
	if !c.Resolve(req.Do()) {
		t.Fatal("failure for the latest request should be applied")
	}
	if c.Result() != good {
		t.Error("failure replaced the last good result")
	}
	if !errors.Is(c.Err(), errors.ErrCodeNetwork) {
		t.Errorf("Err() = %v, want NETWORK_ERROR", c.Err())
	}

	f.fail[req.Params.String()] = nil
	c.SetTo("7")
	req, _ = c.Dispatch(context.Background())
	f.release(req.Params)
	c.Resolve(req.Do())
	if c.Err() != nil {
		t.Errorf("Err() = %v after a successful fetch", c.Err())
	}
}

func TestControllerCancel(t *testing.T) {
	f := newGateFetcher()
	c := newController(f)

	req, _ := c.Dispatch(context.Background())
	c.Cancel()
	out := req.Do()
	if out.Err == nil {
		t.Fatal("cancelled request should fail")
	}
	if c.Resolve(out) {
		t.Error("cancelled outcome was applied")
	}
	if c.Err() != nil || c.Loading() {
		t.Errorf("Err() = %v, Loading() = %v after cancel", c.Err(), c.Loading())
	}
}

func TestControllerInvalidEditAbandonsInFlight(t *testing.T) {
	f := newGateFetcher()
	c := newController(f)

	req, err := c.Dispatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetFrom("9"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Dispatch(context.Background()); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Fatalf("Dispatch() = %v, want INVALID_PARAMS", err)
	}
	if c.Loading() {
		t.Error("Loading() = true with nothing in flight")
	}

	out := req.Do()
	if out.Err == nil {
		t.Error("abandoned request should have been cancelled")
	}
	if c.Resolve(out) {
		t.Error("abandoned outcome was applied")
	}
	if c.Loading() || !errors.Is(c.Err(), errors.ErrCodeInvalidParams) {
		t.Errorf("Loading() = %v, Err() = %v; want false, INVALID_PARAMS", c.Loading(), c.Err())
	}
}
