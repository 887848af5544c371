package api

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
)

const maxErrorBody = 4 << 10

type ctxKey int

const tokenKey ctxKey = iota

// WithToken attaches the bearer token used for calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}

// Client talks to the storefront REST backend. Every call carries the bearer
// token found in its context; a 401 answer triggers the unauthorized hook
// before the error is returned.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	timeout        time.Duration
	onUnauthorized func(ctx context.Context)
	breaker        *circuitbreaker.Breaker[struct{}]
	log            *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUnauthorizedHandler registers the global 401 hook.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithBreaker(s circuitbreaker.Settings) Option {
	return func(c *Client) {
		s.IsSuccessful = isHealthyOutcome
		c.breaker = circuitbreaker.New[struct{}](s, c.log)
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    10 * time.Second,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		s := circuitbreaker.DefaultSettings("storefront-backend")
		s.IsSuccessful = isHealthyOutcome
		c.breaker = circuitbreaker.New[struct{}](s, c.log)
	}
	return c
}

func isHealthyOutcome(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsBusiness()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body any, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, query: query, body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body any, out any) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, query: query, body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, r, out)
	})
	if circuitbreaker.IsOpen(err) {
		err = &Error{Method: r.method, Path: r.path, Err: err}
	}
	if err != nil {
		c.log.WarnContext(ctx, "backend call failed",
			slog.String("method", r.method),
			slog.String("path", r.path),
			slog.String("error", err.Error()))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, r request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Method: r.method, Path: r.path, Err: err}
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Debug("failed to close response body", slog.String("error", closeErr.Error()))
		}
	}()

	if res.StatusCode >= 300 {
		apiErr := &Error{
			Method:  r.method,
			Path:    r.path,
			Status:  res.StatusCode,
			Message: readErrorMessage(res.Body),
		}
		if res.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

// readErrorMessage understands {"error": ...}, {"message": ...} and plain text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}
