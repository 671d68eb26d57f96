// Package apiclient talks to the shop REST API on behalf of the console.
package apiclient

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

	"github.com/Thutra02/mypham-fe/internal/domain"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// envelope is the response wrapper used by every API endpoint.
type envelope struct {
	Status     string             `json:"status"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *domain.Pagination `json:"pagination"`
}

// Client issues requests to the API, resolving paths against the base URL
// and attaching the operator's bearer token.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger

	token     string
	tokenFunc func(context.Context) string
	requestID func(context.Context) string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sets the bearer token used when no operator token is in context.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithTokenFunc sets how the operator's token is read from a request context.
func WithTokenFunc(fn func(context.Context) string) Option {
	return func(c *Client) { c.tokenFunc = fn }
}

// WithRequestIDFunc forwards the console request id to the API.
func WithRequestIDFunc(fn func(context.Context) string) Option {
	return func(c *Client) { c.requestID = fn }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResolveImage turns a relative stored-image path into an absolute URL.
// Absolute URLs and empty references are returned unchanged.
func (c *Client) ResolveImage(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return c.BaseURL() + "/" + strings.TrimLeft(ref, "/")
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) bearer(ctx context.Context) string {
	if c.tokenFunc != nil {
		if t := c.tokenFunc(ctx); t != "" {
			return t
		}
	}
	return c.token
}

// doJSON sends body as JSON and decodes the envelope data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) (*domain.Pagination, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, domain.NewAppError(domain.CodeInternal, "failed to encode request", err)
		}
		reader = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, query, reader, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) (*domain.Pagination, error) {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if t := c.bearer(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			req.Header.Set(requestIDHeader, id)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewAppError(domain.CodeUpstream, "api request cancelled", err)
		}
		return nil, domain.NewAppError(domain.CodeUpstream, "api unavailable", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUpstream, "failed to read api response", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, domain.NewAppError(domain.CodeUpstream, "malformed api response", err)
	}
	if strings.EqualFold(env.Status, "error") {
		return nil, domain.NewAppError(domain.CodeUpstream, messageOr(env.Message, "api error"), nil)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, domain.NewAppError(domain.CodeUpstream, "malformed api response", err)
		}
	}
	return env.Pagination, nil
}

// decodeError maps a non-2xx response to an AppError carrying the server's
// message so the console can show it to the operator.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := ""
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		msg = env.Message
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return domain.NewAppError(domain.CodeForStatus(resp.StatusCode), msg, nil)
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

// Ping checks that the API answers at all. Any response below 500 counts as
// reachable, since the API root may have no handler of its own.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL(), nil)
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to create request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewAppError(domain.CodeUpstream, "api unavailable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.NewAppError(domain.CodeUpstream, "api unhealthy: "+resp.Status, nil)
	}
	return nil
}
