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
	// CoinGeckoBaseURL is the base URL of the public CoinGecko API.
	CoinGeckoBaseURL = "https://api.coingecko.com"
	// CoinGeckoInterval is the minimum interval between two CoinGecko requests.
	CoinGeckoInterval = 1100 * time.Millisecond
)

// CoinGecko gets cryptocurrency prices by CoinGecko id ("bitcoin", "avalanche-2").
type CoinGecko struct {
	client
}

// NewCoinGecko creates a CoinGecko provider.
func NewCoinGecko(opts ...Option) *CoinGecko {
	return &CoinGecko{newClient(CoinGeckoBaseURL, CoinGeckoInterval, opts)}
}

func (c *CoinGecko) Name() string { return "coingecko" }

// Spot reads {"bitcoin":{"usd":67187.33}}.
func (c *CoinGecko) Spot(ctx context.Context, id string) (decimal.Decimal, error) {
	jobj, err := c.get(ctx, "/api/v3/simple/price?ids="+url.QueryEscape(id)+"&vs_currencies=usd")
	if err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", id, err)
	}
	return jdecimal(fmt.Sprintf(`$["%s"].usd`, id), jobj)
}

// History reads {"prices":[[1711843200000,69702.3],...]}.
func (c *CoinGecko) History(ctx context.Context, id string, days int) (goalfolio.TimeSeries, error) {
	path := fmt.Sprintf("/api/v3/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily", url.PathEscape(id), days)
	jobj, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", id, err)
	}
	jprices, err := jpath("$.prices", jobj)
	if err != nil {
		return nil, err
	}
	rows, ok := jprices.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected market chart payload for %q", id)
	}
	var ts goalfolio.TimeSeries
	for _, r := range rows {
		pair, ok := r.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		t, err := toTime(pair[0])
		if err != nil {
			continue
		}
		price, err := toDecimal(pair[1])
		if err != nil {
			continue
		}
		ts = append(ts, goalfolio.PricePoint{Time: t, Price: price})
	}
	return ts, nil
}
