package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// contains http utils to deal with remote services

// cacheTransport keeps successful GET responses in memory for ttl.
type cacheTransport struct {
	base    http.RoundTripper
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	status  int
	header  http.Header
	body    []byte
	expires time.Time
}

func newCacheTransport(base http.RoundTripper, ttl time.Duration, log zerolog.Logger) *cacheTransport {
	return &cacheTransport{
		base:    base,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *cacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || c.ttl <= 0 {
		return c.base.RoundTrip(req)
	}
	key := req.URL.String()
	if e, ok := c.get(key); ok {
		c.log.Debug().Str("url", key).Msg("cache hit")
		return &http.Response{
			Status:        http.StatusText(e.status),
			StatusCode:    e.status,
			Header:        e.header.Clone(),
			Body:          io.NopCloser(bytes.NewReader(e.body)),
			ContentLength: int64(len(e.body)),
			Request:       req,
		}, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("GET")
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	// otherwise read it to store it in cache
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	c.put(key, cacheEntry{status: resp.StatusCode, header: resp.Header.Clone(), body: body, expires: c.now().Add(c.ttl)})
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (c *cacheTransport) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return cacheEntry{}, false
	}
	return e, true
}

func (c *cacheTransport) put(key string, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// throttleTransport spaces outgoing requests, callers wait for their turn.
type throttleTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newThrottleTransport(base http.RoundTripper, interval time.Duration) *throttleTransport {
	return &throttleTransport{
		base:    base,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (t *throttleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient returns a client that caches responses for ttl and sends at
// most one request per interval. Cache hits are not throttled.
func newHTTPClient(interval, ttl time.Duration, log zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: newCacheTransport(newThrottleTransport(http.DefaultTransport, interval), ttl, log),
	}
}

// jget performs an HTTP GET request and unmarshals the JSON response as a generic value.
func jget(ctx context.Context, client *http.Client, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// some providers reject the default go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; goalfolio)")
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: req.URL.Host + req.URL.Path}
	}
	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return jobj, nil
}

// APIError is a non 200 answer of a provider.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cannot http GET %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// jpath evaluates a jsonpath on jobj.
func jpath(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	return jval, nil
}

// jdecimal evaluates a jsonpath expected to designate a single number.
func jdecimal(path string, jobj any) (decimal.Decimal, error) {
	jval, err := jpath(path, jobj)
	if err != nil {
		return decimal.Zero, err
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return toDecimal(jval)
}

// toDecimal converts a json number, or a string holding one.
func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	case json.Number:
		return decimal.NewFromString(x.String())
	}
	return decimal.Zero, fmt.Errorf("not a number: %v", v)
}

// toTime converts a json number of milliseconds since epoch.
func toTime(v any) (time.Time, error) {
	ms, ok := v.(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("not a timestamp: %v", v)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
