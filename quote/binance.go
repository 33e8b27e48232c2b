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
	// BinanceBaseURL is the base URL of the Binance spot API.
	BinanceBaseURL = "https://api.binance.com"
	// BinanceInterval is the minimum interval between two Binance requests (1200 per minute).
	BinanceInterval = 50 * time.Millisecond
	// binanceMaxLimit is the largest number of klines per request.
	binanceMaxLimit = 1000
)

// Binance gets cryptocurrency prices from Binance USDT pairs.
//
// Symbols are CoinGecko ids, translated to trading pairs with [BinancePair].
type Binance struct {
	client
}

// NewBinance creates a Binance provider.
func NewBinance(opts ...Option) *Binance {
	return &Binance{newClient(BinanceBaseURL, BinanceInterval, opts)}
}

func (b *Binance) Name() string { return "binance" }

// Spot reads {"symbol":"BTCUSDT","lastPrice":"67187.33000000",...}.
func (b *Binance) Spot(ctx context.Context, id string) (decimal.Decimal, error) {
	pair := BinancePair(id)
	jobj, err := b.get(ctx, "/api/v3/ticker/24hr?symbol="+url.QueryEscape(pair))
	if err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", pair, err)
	}
	return jdecimal("$.lastPrice", jobj)
}

// History reads daily klines: [[openTime, "open", "high", "low", "close", ...], ...].
func (b *Binance) History(ctx context.Context, id string, days int) (goalfolio.TimeSeries, error) {
	pair := BinancePair(id)
	limit := min(max(days, 1), binanceMaxLimit)
	jobj, err := b.get(ctx, fmt.Sprintf("/api/v3/klines?symbol=%s&interval=1d&limit=%d", url.QueryEscape(pair), limit))
	if err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", pair, err)
	}
	rows, ok := jobj.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected klines payload for %q", pair)
	}
	var ts goalfolio.TimeSeries
	for _, r := range rows {
		kline, ok := r.([]any)
		if !ok || len(kline) < 5 {
			continue
		}
		t, err := toTime(kline[0])
		if err != nil {
			continue
		}
		price, err := toDecimal(kline[4])
		if err != nil {
			continue
		}
		ts = append(ts, goalfolio.PricePoint{Time: t, Price: price})
	}
	return ts, nil
}
