// Package backend is the typed client for the platform's REST API. Every
// function takes ids, tokens and bodies and returns model records; nothing
// here knows about pages or fragments.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

// Options configures a Client
type Options struct {
	BaseURL string        // e.g. http://127.0.0.1:8000/api
	Timeout time.Duration // per request, 0 means 10s
	Rate    float64       // requests per second across the process, 0 means unlimited
	Burst   int
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// New creates a backend client
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}

	c := &Client{
		http:    rc,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		limiter: rate.NewLimiter(limit, opts.Burst),
	}

	rc.SetBaseURL(c.baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "scrimhub-ui")

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		return c.limiter.Wait(r.Context())
	})

	return c
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call is the single path every REST call goes through. token may be empty
// for public endpoints; out may be nil when the response body is ignored.
type call struct {
	method string
	path   string
	token  string
	body   any
	out    any
	params map[string]string
	query  map[string]string
}

func (c *Client) do(ctx context.Context, cl call) error {
	req := c.http.R().SetContext(ctx)
	if cl.token != "" {
		req.SetAuthToken(cl.token)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}
	if cl.out != nil {
		req.SetResult(cl.out)
	}
	if len(cl.params) > 0 {
		req.SetPathParams(cl.params)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}

	op := cl.method + " " + cl.path
	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		if resp != nil && resp.RawResponse != nil && !resp.IsError() {
			// reached the backend, but the body did not match the record
			logger.Error("Backend response could not be decoded", "op", op, "error", err)
			return fmt.Errorf("backend: %s: decode response: %w", op, err)
		}
		logger.Warn("Backend call failed", "op", op, "error", err)
		return &TransportError{Op: op, Err: err}
	}

	logger.Debug("Backend call", "op", op, "status", resp.StatusCode(), "duration", time.Since(start))
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), resp.Body())
	}
	return nil
}
