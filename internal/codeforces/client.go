package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://codeforces.com/api"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 0.5
	DefaultRateBurst = 5

	statusOK = "OK"

	maxBodyBytes = 64 << 20
)

// Config holds upstream client settings.
type Config struct {
	BaseURL   string        `yaml:"baseURL"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rateLimit"` // requests per second, <0 disables limiting
	RateBurst int           `yaml:"rateBurst"`
	UserAgent string        `yaml:"userAgent"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}
	if c.UserAgent == "" {
		c.UserAgent = "cfanalyzer/1.0"
	}
}

// Client calls the public Codeforces API. It never retries.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	metrics   *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics records call outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client from cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.ApplyDefaults()

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit < 0 {
		limit = rate.Inf
	}
	c := &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, cfg.RateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserInfo fetches the profile of handle.
func (c *Client) UserInfo(ctx context.Context, handle string) (UserInfo, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return UserInfo{}, err
	}
	users, err := call[[]UserInfo](ctx, c, "user.info", url.Values{"handles": {handle}}, appErr.HandleNotFound)
	if err != nil {
		return UserInfo{}, err
	}
	if len(users) == 0 {
		return UserInfo{}, appErr.New(appErr.HandleNotFound).WithDetail("handle", handle)
	}
	return users[0], nil
}

// UserStatus fetches every submission of handle, newest first.
func (c *Client) UserStatus(ctx context.Context, handle string) ([]Submission, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return call[[]Submission](ctx, c, "user.status", url.Values{"handle": {handle}}, appErr.SubmissionFetchFailed)
}

// UserRating fetches the rated contest history of handle, oldest first.
func (c *Client) UserRating(ctx context.Context, handle string) ([]RatingChange, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	return call[[]RatingChange](ctx, c, "user.rating", url.Values{"handle": {handle}}, appErr.RatingFetchFailed)
}

// Problemset fetches the global problem catalog.
func (c *Client) Problemset(ctx context.Context) (Problemset, error) {
	return call[Problemset](ctx, c, "problemset.problems", nil, appErr.CatalogUnavailable)
}

func normalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", appErr.New(appErr.InvalidHandle)
	}
	return handle, nil
}

// call issues a GET for method and unwraps the {status, comment, result} envelope.
// A FAILED envelope maps to failCode; transport and decoding problems map to the
// upstream codes.
func call[T any](ctx context.Context, c *Client, method string, params url.Values, failCode appErr.ErrorCode) (T, error) {
	var zero T
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.observe(method, "throttled", time.Since(start))
		return zero, appErr.Wrap(err, appErr.Timeout).WithDetail("method", method)
	}

	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, appErr.Wrapf(err, appErr.InternalServerError, "build request failed")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, "transport_error", time.Since(start))
		logger.Warn(ctx, "codeforces request failed", zap.String("method", method), zap.Error(err))
		return zero, appErr.Wrap(err, appErr.UpstreamUnavailable).WithDetail("method", method)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.observe(method, "transport_error", time.Since(start))
		return zero, appErr.Wrap(err, appErr.UpstreamUnavailable).WithDetail("method", method)
	}

	// Codeforces reports FAILED envelopes with HTTP 400, so the body is decoded first.
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil || env.Status == "" {
		if err == nil {
			err = fmt.Errorf("missing status field")
		}
		if resp.StatusCode >= http.StatusBadRequest {
			c.metrics.observe(method, "http_error", time.Since(start))
			logger.Warn(ctx, "codeforces returned non-json error",
				zap.String("method", method), zap.Int("status", resp.StatusCode))
			return zero, appErr.Wrap(err, appErr.UpstreamUnavailable).
				WithDetail("method", method).
				WithDetail("http_status", resp.StatusCode)
		}
		c.metrics.observe(method, "malformed", time.Since(start))
		return zero, appErr.Wrap(err, appErr.UpstreamMalformed).WithDetail("method", method)
	}

	if env.Status != statusOK {
		c.metrics.observe(method, "failed", time.Since(start))
		logger.Warn(ctx, "codeforces rejected request",
			zap.String("method", method),
			zap.String("comment", env.Comment),
			zap.Int("status", resp.StatusCode))
		return zero, appErr.Wrap(fmt.Errorf("%s: %s", method, env.Comment), failCode).
			WithDetail("method", method).
			WithDetail("comment", env.Comment)
	}

	elapsed := time.Since(start)
	c.metrics.observe(method, "ok", elapsed)
	logger.Debug(ctx, "codeforces request done", zap.String("method", method), zap.Duration("duration", elapsed))
	return env.Result, nil
}
