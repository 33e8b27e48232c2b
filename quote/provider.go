package quote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/goalfolio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 10 * time.Second
	// DefaultCacheTTL is how long a provider answer is reused.
	DefaultCacheTTL = 5 * time.Minute
)

// Provider is a market data API.
type Provider interface {
	Name() string
	// Spot returns the latest price of 'symbol', in USD.
	Spot(ctx context.Context, symbol string) (decimal.Decimal, error)
	// History returns daily prices of the last 'days' days, oldest first.
	History(ctx context.Context, symbol string, days int) (goalfolio.TimeSeries, error)
}

// client holds what every provider needs to call its API.
type client struct {
	baseURL  string
	http     *http.Client
	log      zerolog.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a provider.
type Option func(*client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient sets a custom HTTP client, it replaces the cache and the rate limit.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) { c.http = httpClient }
}

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *client) { c.log = log }
}

// WithRateLimit sets the minimum interval between two requests.
func WithRateLimit(interval time.Duration) Option {
	return func(c *client) { c.interval = interval }
}

// WithCacheTTL sets how long answers are cached, 0 disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *client) { c.ttl = ttl }
}

func newClient(baseURL string, interval time.Duration, opts []Option) client {
	c := client{
		baseURL:  baseURL,
		log:      zerolog.Nop(),
		interval: interval,
		ttl:      DefaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.http == nil {
		c.http = newHTTPClient(c.interval, c.ttl, c.log)
	}
	return c
}

// get returns the JSON answer of the API at 'path'.
func (c *client) get(ctx context.Context, path string) (any, error) {
	return jget(ctx, c.http, c.baseURL+path)
}
