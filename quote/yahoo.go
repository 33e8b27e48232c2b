package quote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/etnz/goalfolio"
	"github.com/shopspring/decimal"
)

const (
	// YahooBaseURL is the base URL of the Yahoo Finance chart API.
	YahooBaseURL = "https://query1.finance.yahoo.com"
	// YahooInterval is the minimum interval between two Yahoo requests.
	YahooInterval = time.Second
)

// Yahoo gets stock and ETF prices from the Yahoo Finance chart API.
type Yahoo struct {
	client
}

// NewYahoo creates a Yahoo Finance provider.
func NewYahoo(opts ...Option) *Yahoo {
	return &Yahoo{newClient(YahooBaseURL, YahooInterval, opts)}
}

func (y *Yahoo) Name() string { return "yahoo" }

/*
	{
	    "chart": {
	        "result": [{
	            "meta": {"currency": "USD", "symbol": "AAPL", "regularMarketPrice": 227.52, ...},
	            "timestamp": [1735741800, 1735828200],
	            "indicators": {"quote": [{"close": [243.85, null]}]}
	        }],
	        "error": null
	    }
	}
*/
func (y *Yahoo) Spot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	jobj, err := y.get(ctx, fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=1d", url.PathEscape(symbol)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", symbol, err)
	}
	return jdecimal("$.chart.result[0].meta.regularMarketPrice", jobj)
}

// History returns daily closes, days without a close are skipped.
func (y *Yahoo) History(ctx context.Context, symbol string, days int) (goalfolio.TimeSeries, error) {
	// day aligned bounds keep the url stable, and cacheable, during a day.
	end := y.now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	start := end.Add(-time.Duration(days+1) * 24 * time.Hour)
	path := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d", url.PathEscape(symbol), start.Unix(), end.Unix())
	jobj, err := y.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", symbol, err)
	}
	jtimes, err := jpath("$.chart.result[0].timestamp", jobj)
	if err != nil {
		return nil, err
	}
	jcloses, err := jpath("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return nil, err
	}
	times, ok1 := jtimes.([]any)
	closes, ok2 := jcloses.([]any)
	if !ok1 || !ok2 || len(times) != len(closes) {
		return nil, fmt.Errorf("unexpected chart payload for %q", symbol)
	}
	var ts goalfolio.TimeSeries
	for i := range times {
		sec, ok := times[i].(float64)
		if !ok || closes[i] == nil {
			continue
		}
		price, err := toDecimal(closes[i])
		if err != nil {
			continue
		}
		ts = append(ts, goalfolio.PricePoint{Time: time.Unix(int64(sec), 0).UTC(), Price: price})
	}
	return ts, nil
}
