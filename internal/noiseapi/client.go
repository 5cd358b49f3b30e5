// Package noiseapi talks to the noise service over HTTP.
package noiseapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"terraview/internal/cache"
	"terraview/internal/errors"
	"terraview/internal/noise"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	defaultStatusPath = "/amiup"
	maxBodySize       = 64 << 20
)

// Client fetches sampled noise. It is safe for concurrent use.
type Client struct {
	http       *http.Client
	endpoint   string
	statusPath string
	cache      cache.Cache
	ttl        time.Duration
	attempts   int
	retryDelay time.Duration
	maxSamples int
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.http.Timeout = d } }

// WithCache stores responses of seeded requests in store for ttl.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = store, ttl }
}

// WithRetries sets the total number of attempts per request.
func WithRetries(attempts int) Option { return func(c *Client) { c.attempts = attempts } }

// WithRetryDelay sets the delay before the first retry.
func WithRetryDelay(d time.Duration) Option { return func(c *Client) { c.retryDelay = d } }

// WithMaxSamples rejects requests that would return more than n values.
func WithMaxSamples(n int) Option { return func(c *Client) { c.maxSamples = n } }

// WithStatusPath sets the path of the liveness endpoint.
func WithStatusPath(p string) Option { return func(c *Client) { c.statusPath = p } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient creates a client for the noise endpoint, e.g. http://host:8080/noise.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: defaultTimeout},
		endpoint:   endpoint,
		statusPath: defaultStatusPath,
		cache:      cache.NewNullCache(),
		attempts:   1,
		retryDelay: defaultRetryDelay,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the noise endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch requests the samples described by p.
func (c *Client) Fetch(ctx context.Context, p noise.Params) (*noise.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if c.maxSamples > 0 && p.SampleCount() > c.maxSamples {
		return nil, errors.New(errors.ErrCodeInvalidParams,
			"request asks for %d samples, the limit is %d", p.SampleCount(), c.maxSamples)
	}

	var key string
	if p.Seed != nil {
		key = cache.Key("noise", p.NoiseFunction, p.From, p.To, p.Resolution, *p.Seed)
		if res, ok := c.cached(ctx, key, p); ok {
			return res, nil
		}
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParams, err, "invalid endpoint")
	}
	u.RawQuery = p.Query().Encode()

	start := time.Now()
	var body []byte
	err = Retry(ctx, c.attempts, c.retryDelay, func() error {
		var err error
		body, err = c.get(ctx, u.String())
		return err
	})
	if err != nil {
		return nil, err
	}

	res, err := Decode(body, p)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched noise", "params", p, "values", len(res.Values), "took", time.Since(start).Round(time.Millisecond))

	if key != "" {
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			c.logger.Warn("cache write failed", "err", err)
		}
	}
	return res, nil
}

func (c *Client) cached(ctx context.Context, key string, p noise.Params) (*noise.Result, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	res, err := Decode(data, p)
	if err != nil {
		c.logger.Warn("dropping unreadable cache entry", "err", err)
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	res.Cached = true
	c.logger.Debug("cache hit", "params", p)
	return res, true
}

// Ping calls the liveness endpoint and reports how long it took.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParams, err, "invalid endpoint")
	}
	u.Path = c.statusPath
	u.RawQuery = ""

	start := time.Now()
	body, err := c.get(ctx, u.String())
	if err != nil {
		return 0, err
	}
	var status struct {
		Amiup bool `json:"amiup"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return 0, errors.Wrap(errors.ErrCodeBadResponse, err, "invalid status body")
	}
	if !status.Amiup {
		return 0, errors.New(errors.ErrCodeBadResponse, "service reports it is not up")
	}
	return time.Since(start), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParams, err, "build request")
	}
	id := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", id)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read response"))
	}
	c.logger.Debug("response", "status", resp.StatusCode, "bytes", len(body), "request_id", id)

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return errors.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "request timed out"))
	}
	return errors.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request failed"))
}

func checkStatus(code int, body []byte) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return errors.Retryable(errors.New(errors.ErrCodeNetwork, "service returned status %d", code))
	case code >= 400:
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			return errors.New(errors.ErrCodeInvalidParams, "%s", eb.Error)
		}
		return errors.New(errors.ErrCodeBadResponse, "service returned status %d", code)
	default:
		return errors.New(errors.ErrCodeBadResponse, "unexpected status %d", code)
	}
}

// String is used in log lines and status output.
func (c *Client) String() string {
	return fmt.Sprintf("noiseapi(%s)", c.endpoint)
}
