package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client provides a configurable HTTP client with common functionality
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     logrus.FieldLogger
}

// Option tweaks a Client at construction time.
type Option func(*Client)

// WithRateLimit caps outgoing requests per second. Zero or negative disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a new HTTP client with the specified timeout
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		logger:     discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request with proper context and headers
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST request with proper context and headers.
// Content-Type defaults to application/json.
func (c *Client) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, url, body, withJSONContentType(headers))
}

// Put performs a PUT request with proper context and headers
func (c *Client) Put(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	if body != nil {
		headers = withJSONContentType(headers)
	}
	return c.do(ctx, http.MethodPut, url, body, headers)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"method": method, "url": url}).WithError(err).Debug("request failed")
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("request done")

	return resp, nil
}

func withJSONContentType(headers map[string]string) map[string]string {
	if headers != nil && headers["Content-Type"] != "" {
		return headers
	}
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Content-Type"] = "application/json"
	return out
}

// GetTimeout returns the client timeout
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}
