// Package postcode resolves Japanese postal codes to prefecture, city and
// town through the zipaddress API.
package postcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/pkg/textnorm"
)

const DefaultBaseURL = "https://api.zipaddress.net/"

var (
	ErrInvalidFormat = errors.New("postal code must be 7 digits")
	ErrNotFound      = errors.New("postal code not found")
	ErrLookupFailed  = errors.New("postal code lookup failed")
)

// Messages shown to the shopper.
const (
	MsgInvalidFormat = "有効な7桁の郵便番号を入力してください。"
	MsgNotFound      = "無効な郵便番号です。"
	MsgLookupFailed  = "住所の検索に失敗しました。もう一度お試しください。"
)

func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return MsgInvalidFormat
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	default:
		return MsgLookupFailed
	}
}

type Address struct {
	PostalCode string `json:"postalCode" msgpack:"postal_code"`
	Prefecture string `json:"prefecture" msgpack:"prefecture"`
	City       string `json:"city" msgpack:"city"`
	Town       string `json:"town" msgpack:"town"`
}

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Pref string `json:"pref"`
		City string `json:"city"`
		Town string `json:"town"`
	} `json:"data"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	cache      cache.Cache[Address]
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCache remembers successful lookups.
func WithCache(cc cache.Cache[Address]) Option {
	return func(c *Client) { c.cache = cc }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    baseURL,
		timeout:    5 * time.Second,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize folds full-width digits and drops hyphens and spaces. It
// returns ErrInvalidFormat unless exactly 7 digits remain.
func Normalize(code string) (string, error) {
	s := textnorm.Strip(strings.TrimPrefix(strings.TrimSpace(code), "〒"), "- ")
	if len(s) != 7 || !textnorm.IsDigits(s) {
		return "", ErrInvalidFormat
	}
	return s, nil
}

func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	zip, err := Normalize(code)
	if err != nil {
		return Address{}, err
	}

	if c.cache != nil {
		if addr, err := c.cache.Get(ctx, zip); err == nil {
			return addr, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.WarnContext(ctx, "postcode cache read failed", slog.String("error", err.Error()))
		}
	}

	addr, err := c.fetch(ctx, zip)
	if err != nil {
		return Address{}, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, zip, addr); err != nil {
			c.log.WarnContext(ctx, "postcode cache write failed", slog.String("error", err.Error()))
		}
	}
	return addr, nil
}

func (c *Client) fetch(ctx context.Context, zip string) (Address, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	u.RawQuery = url.Values{"zipcode": {zip}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("%w: status %d: %w", ErrLookupFailed, resp.StatusCode, err)
	}

	// The API reports its own code in the body, independent of the HTTP status.
	switch body.Code {
	case http.StatusOK:
		return Address{
			PostalCode: zip,
			Prefecture: body.Data.Pref,
			City:       body.Data.City,
			Town:       body.Data.Town,
		}, nil
	case http.StatusBadRequest, http.StatusNotFound:
		return Address{}, ErrNotFound
	default:
		return Address{}, fmt.Errorf("%w: code %d: %s", ErrLookupFailed, body.Code, body.Message)
	}
}
