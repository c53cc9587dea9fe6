package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"learningcenter/internal/config"
	"learningcenter/internal/logging"
	"learningcenter/internal/services"
)

// HTTPDoer describes the HTTP client used to reach the API.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues JSON requests relative to a base URL.
type Client struct {
	baseURL   string
	http      HTTPDoer
	userAgent string
	logger    *slog.Logger
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger attaches a logger for per-request debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// WithRequestIDs replaces the X-Request-ID generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "api base url required", nil)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "parse api base url", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "", fmt.Sprintf("api base url %q must be absolute", baseURL), nil)
	}
	client := &Client{
		baseURL:   baseURL,
		http:      &http.Client{},
		logger:    logging.NewNop(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig creates a client from the [api] section of cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "config required", nil)
	}
	return New(cfg.API.BaseURL,
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		WithUserAgent(cfg.API.UserAgent),
		WithLogger(logging.NewComponentLogger(logger, "http")),
	)
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. body, when non-nil, is encoded as JSON. A response
// is returned for every completed exchange, including non-2xx ones, which
// additionally yield a *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = c.requestID()
		ctx = services.WithRequestID(ctx, requestID)
	}
	resource, _ := services.ResourceFromContext(ctx)
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, services.Wrap(services.ErrTransport, resource, method, "encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, resource, method, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("X-Request-ID", requestID)

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		logger.Debug("api request failed",
			logging.String("method", method),
			logging.String("url", target),
			logging.Duration("latency", latency),
			logging.Error(err),
		)
		return nil, services.Wrap(services.ErrTransport, resource, method+" "+target, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, resource, method+" "+target, "read response body", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       data,
		Method:     method,
		URL:        target,
		RequestID:  requestID,
	}
	logger.Debug("api request completed",
		logging.String("method", method),
		logging.String("url", target),
		logging.Int(logging.FieldStatus, resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &StatusError{Response: out}
	}
	return out, nil
}

// IsStatus reports whether err carries a response with the given status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Response != nil && statusErr.Response.StatusCode == code
}
