package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts a server answering 'routes' by path, and counting calls.
func serve(t *testing.T, routes map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestYahoo(t *testing.T) {
	srv, _ := serve(t, map[string]string{
		"/v8/finance/chart/AAPL": `{"chart":{"result":[{
			"meta":{"currency":"USD","symbol":"AAPL","regularMarketPrice":227.52},
			"timestamp":[1735741800,1735828200,1735914600],
			"indicators":{"quote":[{"close":[243.85,null,245.5]}]}
		}],"error":null}}`,
	})
	y := NewYahoo(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond))
	ctx := context.Background()

	spot, err := y.Spot(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, spot.Equal(decimal.RequireFromString("227.52")), "spot = %v", spot)

	ts, err := y.History(ctx, "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, ts, 2, "null closes are skipped")
	assert.True(t, ts[0].Price.Equal(decimal.RequireFromString("243.85")))
	assert.Equal(t, time.Unix(1735741800, 0).UTC(), ts[0].Time)
	last, ok := ts.Last()
	require.True(t, ok)
	assert.True(t, last.Price.Equal(decimal.RequireFromString("245.5")))
}

func TestCoinGecko(t *testing.T) {
	srv, _ := serve(t, map[string]string{
		"/api/v3/simple/price":                   `{"avalanche-2":{"usd":35.12}}`,
		"/api/v3/coins/avalanche-2/market_chart": `{"prices":[[1711843200000,30.5],[1711929600000,31]],"market_caps":[]}`,
	})
	c := NewCoinGecko(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond))
	ctx := context.Background()

	spot, err := c.Spot(ctx, "avalanche-2")
	require.NoError(t, err)
	assert.True(t, spot.Equal(decimal.RequireFromString("35.12")), "spot = %v", spot)

	ts, err := c.History(ctx, "avalanche-2", 2)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, time.UnixMilli(1711843200000).UTC(), ts[0].Time)
	assert.True(t, ts[1].Price.Equal(decimal.NewFromInt(31)))
}

func TestBinance(t *testing.T) {
	var gotSymbol, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		switch r.URL.Path {
		case "/api/v3/ticker/24hr":
			fmt.Fprint(w, `{"symbol":"BTCUSDT","lastPrice":"67187.33000000"}`)
		case "/api/v3/klines":
			gotLimit = r.URL.Query().Get("limit")
			fmt.Fprint(w, `[[1711843200000,"69000","70000","68000","69702.30","12.5",1711929599999],
				[1711929600000,"69702.30","71000","69500","70100.00","10.1",1712015999999]]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	b := NewBinance(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond))
	ctx := context.Background()

	spot, err := b.Spot(ctx, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", gotSymbol)
	assert.True(t, spot.Equal(decimal.RequireFromString("67187.33")), "spot = %v", spot)

	ts, err := b.History(ctx, "bitcoin", 5000)
	require.NoError(t, err)
	assert.Equal(t, "1000", gotLimit, "limit is capped")
	require.Len(t, ts, 2)
	assert.True(t, ts[1].Price.Equal(decimal.RequireFromString("70100")))
}

func TestAPIError(t *testing.T) {
	srv, _ := serve(t, nil)
	y := NewYahoo(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond))
	_, err := y.Spot(context.Background(), "NOPE")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "/v8/finance/chart/NOPE")
}

func TestCache_Hit(t *testing.T) {
	srv, calls := serve(t, map[string]string{
		"/api/v3/ticker/24hr": `{"lastPrice":"1.5"}`,
	})
	b := NewBinance(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond), WithCacheTTL(time.Minute))
	for range 3 {
		_, err := b.Spot(context.Background(), "cardano")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load(), "server calls")
}

func TestCache_Disabled(t *testing.T) {
	srv, calls := serve(t, map[string]string{
		"/api/v3/ticker/24hr": `{"lastPrice":"1.5"}`,
	})
	b := NewBinance(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond), WithCacheTTL(0))
	for range 2 {
		_, err := b.Spot(context.Background(), "cardano")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, calls.Load(), "server calls")
}

func TestCache_Expires(t *testing.T) {
	srv, calls := serve(t, map[string]string{"/x": `{}`})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := newCacheTransport(http.DefaultTransport, time.Minute, zerolog.Nop())
	tr.now = func() time.Time { return now }
	client := &http.Client{Transport: tr}

	get := func() {
		_, err := jget(context.Background(), client, srv.URL+"/x")
		require.NoError(t, err)
	}
	get()
	get()
	assert.EqualValues(t, 1, calls.Load())
	now = now.Add(2 * time.Minute)
	get()
	assert.EqualValues(t, 2, calls.Load())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	srv, calls := serve(t, nil)
	c := NewCoinGecko(WithBaseURL(srv.URL), WithRateLimit(time.Millisecond))
	for range 2 {
		_, err := c.Spot(context.Background(), "bitcoin")
		require.Error(t, err)
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestRateLimit(t *testing.T) {
	srv, calls := serve(t, map[string]string{
		"/api/v3/ticker/24hr": `{"lastPrice":"1"}`,
	})
	b := NewBinance(WithBaseURL(srv.URL), WithRateLimit(50*time.Millisecond))
	start := time.Now()
	for _, id := range []string{"bitcoin", "ethereum", "solana"} {
		_, err := b.Spot(context.Background(), id)
		require.NoError(t, err)
	}
	elapsed := time.Since(start)
	assert.EqualValues(t, 3, calls.Load())
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond, "3 requests at 50ms interval")
}

func TestRateLimit_ContextCanceled(t *testing.T) {
	srv, _ := serve(t, map[string]string{
		"/api/v3/ticker/24hr": `{"lastPrice":"1"}`,
	})
	b := NewBinance(WithBaseURL(srv.URL), WithRateLimit(time.Hour))
	_, err := b.Spot(context.Background(), "bitcoin")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = b.Spot(ctx, "ethereum")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "rate limit"), "got %v", err)
}
