// Package apiclient talks to the WildGuard REST backend. Every call goes
// through one request primitive that attaches the bearer token, decodes the
// {success, error, ...payload} envelope and clears stored credentials when
// the backend answers 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client is the WildGuard backend client. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         ports.TokenStore
	onUnauthorized func()
	log            zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUnauthorizedHook is called after credentials were cleared on a 401.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "apiclient").Logger() }
}

// New builds a client for the API rooted at baseURL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, tokens ports.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory adapts New to the session registry. The unauthorized hook handed in
// by the registry runs after any hook set through opts.
func Factory(baseURL string, opts ...Option) service.ClientFactory {
	return func(tokens ports.TokenStore, onUnauthorized func()) ports.Backend {
		c := New(baseURL, tokens, opts...)
		prev := c.onUnauthorized
		c.onUnauthorized = func() {
			if prev != nil {
				prev()
			}
			if onUnauthorized != nil {
				onUnauthorized()
			}
		}
		return c
	}
}

// Token returns the stored access token, or "" when logged out.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.AccessToken(ctx)
}

// call describes one backend request. route is the path template used as the
// metrics label so ids do not explode cardinality.
type call struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func get(route, path string, query url.Values) call {
	return call{method: http.MethodGet, route: route, path: path, query: query, auth: true}
}

func send(method, route, path string, body any) call {
	return call{method: method, route: route, path: path, body: body, auth: true}
}

// envelope is the part of every response body the client inspects itself.
type envelope struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error"`
	Message json.RawMessage `json:"message"`
}

// do performs cl and decodes the JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	resp, err := c.roundTrip(ctx, cl, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", cl.method, cl.route, domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, cl, resp.StatusCode, raw)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%s %s: %w: %w", cl.method, cl.route, domain.ErrMalformedResponse, err)
		}
	}
	if env.Success != nil && !*env.Success {
		return c.fail(ctx, cl, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", cl.method, cl.route, domain.ErrMalformedResponse, err)
	}
	return nil
}

// roundTrip sends the request and records metrics. Only transport failures
// are returned as errors; status handling is left to the caller.
func (c *Client) roundTrip(ctx context.Context, cl call, accept string) (*http.Response, error) {
	req, err := c.newRequest(ctx, cl, accept)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(cl.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(cl.route, "network_error").Inc()
		c.log.Warn().Err(err).Str("method", cl.method).Str("endpoint", cl.route).Msg("backend unreachable")
		return nil, fmt.Errorf("%s %s: %w: %w", cl.method, cl.route, domain.ErrBackendUnavailable, err)
	}
	metrics.BackendRequestsTotal.WithLabelValues(cl.route, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, cl call, accept string) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", cl.route, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", cl.route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	if cl.auth {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// fail turns an error answer into *domain.APIError, clearing credentials and
// notifying the hook first when the backend rejected them.
func (c *Client) fail(ctx context.Context, cl call, status int, raw []byte) error {
	apiErr := &domain.APIError{Status: status, Message: errorMessage(status, raw)}

	if status == http.StatusUnauthorized {
		c.clearCredentials(ctx)
	}

	ev := c.log.Warn()
	if status >= 500 {
		ev = c.log.Error()
	}
	ev.Int("status", status).Str("method", cl.method).Str("endpoint", cl.route).Str("message", apiErr.Message).Msg("backend request failed")
	return apiErr
}

func (c *Client) clearCredentials(ctx context.Context) {
	// The caller's context may already be done; clearing must still happen.
	if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error().Err(err).Msg("failed to clear credentials after 401")
	}
	metrics.CredentialsClearedTotal.Inc()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// errorMessage prefers the body's "message", then "error", then a generic
// text. Non-string values (e.g. field error maps) are rendered as compact JSON.
func errorMessage(status int, raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if msg := rawText(env.Message); msg != "" {
			return msg
		}
		if msg := rawText(env.Error); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

// IsUnauthorized reports whether err came from a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
