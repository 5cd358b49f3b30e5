package noiseapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"terraview/internal/cache"
	"terraview/internal/errors"
	"terraview/internal/noise"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func params1D() noise.Params {
	p := noise.DefaultParams(1, "red")
	p.To = []int{1}
	p.Resolution = 4
	return p
}

func TestFetch(t *testing.T) {
	var gotQuery, gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotID = r.Header.Get("X-Request-ID")
		fmt.Fprint(w, `{"version":1,"values":[0.1,0.2,0.3,0.4],"from":[0],"to":[1],"resolution":4,"noiseFunction":"red"}`)
	}))
	defer server.Close()

	c := NewClient(server.URL+"/noise", WithLogger(quietLogger()))
	res, err := c.Fetch(context.Background(), params1D())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(res.Values) != 4 || res.Values[3] != 0.4 {
		t.Errorf("Values = %v", res.Values)
	}
	if res.Cached {
		t.Error("first fetch should not be cached")
	}
	if gotQuery != "from=0&noiseFunction=red&resolution=4&to=1" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(gotID) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", gotID)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.Code
	}{
		{"server message", http.StatusBadRequest, `{"error": "Invalid param: (resolution)"}`, errors.ErrCodeInvalidParams},
		{"bare 404", http.StatusNotFound, `not found`, errors.ErrCodeBadResponse},
		{"server failure", http.StatusInternalServerError, ``, errors.ErrCodeNetwork},
		{"invalid json", http.StatusOK, `{"values": [`, errors.ErrCodeBadResponse},
		{"raw noise", http.StatusOK, `{"rawNoise":{"x":[0],"value":[1]}}`, errors.ErrCodeUnsupportedSchema},
		{"future version", http.StatusOK, `{"version":2,"values":[1,2,3,4]}`, errors.ErrCodeUnsupportedSchema},
		{"no values", http.StatusOK, `{"version":1}`, errors.ErrCodeBadResponse},
		{"short values", http.StatusOK, `{"values":[1,2]}`, errors.ErrCodeShapeMismatch},
		{"wrong range", http.StatusOK, `{"values":[1,2,3,4],"from":[1],"to":[2]}`, errors.ErrCodeBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			c := NewClient(server.URL, WithLogger(quietLogger()))
			_, err := c.Fetch(context.Background(), params1D())
			if !errors.Is(err, tt.code) {
				t.Errorf("Fetch() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFetchMissingVersionIsV1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"values":[1,2,3,4]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(quietLogger()))
	if _, err := c.Fetch(context.Background(), params1D()); err != nil {
		t.Errorf("Fetch() error: %v", err)
	}
}

func TestFetchRejectsInvalidParamsLocally(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(quietLogger()), WithMaxSamples(10))

	bad := params1D()
	bad.To = []int{0}
	if _, err := c.Fetch(context.Background(), bad); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("to == from: error = %v", err)
	}

	big := params1D()
	big.To = []int{100}
	if _, err := c.Fetch(context.Background(), big); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("over max samples: error = %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times, want 0", calls.Load())
	}
}

func TestFetchRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"values":[1,2,3,4]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(quietLogger()), WithRetries(3), WithRetryDelay(time.Millisecond))
	if _, err := c.Fetch(context.Background(), params1D()); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchDefaultsToSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(quietLogger()))
	if _, err := c.Fetch(context.Background(), params1D()); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Fetch() error = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchCachesSeededRequests(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"values":[1,2,3,4]}`)
	}))
	defer server.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(server.URL, WithLogger(quietLogger()), WithCache(store, time.Hour))
	ctx := context.Background()

	seed := int64(11)
	seeded := params1D()
	seeded.Seed = &seed

	if _, err := c.Fetch(ctx, seeded); err != nil {
		t.Fatal(err)
	}
	res, err := c.Fetch(ctx, seeded)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cached {
		t.Error("second seeded fetch should come from cache")
	}
	if calls.Load() != 1 {
		t.Errorf("seeded calls = %d, want 1", calls.Load())
	}

	unseeded := params1D()
	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(ctx, unseeded); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("total calls = %d, want 3 (unseeded requests bypass the cache)", calls.Load())
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(quietLogger()), WithTimeout(20*time.Millisecond))
	_, err := c.Fetch(context.Background(), params1D())
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Fetch() error = %v, want TIMEOUT", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(server.URL, WithLogger(quietLogger()))
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if _, err := c.Fetch(ctx, params1D()); err != context.Canceled {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/amiup" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"amiup": true}`)
	}))
	defer server.Close()

	c := NewClient(server.URL+"/noise", WithLogger(quietLogger()))
	if _, err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}

	down := NewClient(server.URL+"/noise", WithLogger(quietLogger()), WithStatusPath("/health"))
	if _, err := down.Ping(context.Background()); err == nil {
		t.Error("Ping() against a missing path should fail")
	}
}

func TestEncodeDecode(t *testing.T) {
	p := noise.DefaultParams(2, "rawPerlin")
	p.To = []int{1, 1}
	p.Resolution = 2
	in := &noise.Result{Params: p, Values: []float64{1, 2, 3, 4}}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	out, err := Decode(data, p)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(out.Values) != 4 || out.Values[2] != 3 {
		t.Errorf("Values = %v", out.Values)
	}
}
