// Package quote implements goalfolio.PriceSource on top of public market data
// APIs: Yahoo Finance for stocks, CoinGecko or Binance for cryptocurrencies.
//
// Every provider call goes through an in memory cache and a per provider rate
// limiter. Failures are logged and reported as unavailable prices.
package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/goalfolio"
	"github.com/rs/zerolog"
)

// Source is a goalfolio.PriceSource backed by providers.
type Source struct {
	stocks   Provider
	crypto   Provider
	currency string
	log      zerolog.Logger
}

var _ goalfolio.PriceSource = (*Source)(nil)

// Currency is the currency of every provider price.
const Currency = "USD"

// NewSource returns a Source using 'stocks' for stocks and 'crypto' for
// cryptocurrencies, either may be nil.
//
// Prices are not converted: 'currency', the currency of the holdings, must be [Currency].
func NewSource(stocks, crypto Provider, currency string, log zerolog.Logger) (*Source, error) {
	if !strings.EqualFold(currency, Currency) {
		return nil, fmt.Errorf("market prices are in %s, cannot value holdings in %s", Currency, currency)
	}
	return &Source{stocks: stocks, crypto: crypto, currency: Currency, log: log}, nil
}

// CryptoProviders are the names accepted by [NewCryptoProvider].
var CryptoProviders = []string{"coingecko", "binance"}

// NewCryptoProvider returns the cryptocurrency provider called 'name'.
func NewCryptoProvider(name string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "coingecko", "":
		return NewCoinGecko(opts...), nil
	case "binance":
		return NewBinance(opts...), nil
	}
	return nil, fmt.Errorf("unknown crypto provider %q, want one of %v", name, CryptoProviders)
}

// route returns the provider and symbol for a holding, ok is false for asset
// classes without market data.
func (s *Source) route(name string, class goalfolio.AssetClass) (Provider, string, bool) {
	switch class {
	case goalfolio.Stocks:
		return s.stocks, StockSymbol(name), s.stocks != nil
	case goalfolio.Cryptocurrency:
		return s.crypto, CryptoID(name), s.crypto != nil
	}
	return nil, "", false
}

// Spot implements goalfolio.PriceSource.
func (s *Source) Spot(ctx context.Context, name string, class goalfolio.AssetClass) (goalfolio.Money, bool) {
	p, symbol, ok := s.route(name, class)
	if !ok {
		s.log.Debug().Str("name", name).Str("class", string(class)).Msg("no price provider")
		return goalfolio.Money{}, false
	}
	price, err := p.Spot(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("provider", p.Name()).Str("symbol", symbol).Msg("price unavailable")
		return goalfolio.Money{}, false
	}
	if !price.IsPositive() {
		s.log.Warn().Str("provider", p.Name()).Str("symbol", symbol).Str("price", price.String()).Msg("ignoring non positive price")
		return goalfolio.Money{}, false
	}
	return goalfolio.M(price, s.currency), true
}

// History implements goalfolio.PriceSource.
func (s *Source) History(ctx context.Context, name string, class goalfolio.AssetClass, days int) (goalfolio.TimeSeries, bool) {
	p, symbol, ok := s.route(name, class)
	if !ok {
		s.log.Debug().Str("name", name).Str("class", string(class)).Msg("no price provider")
		return nil, false
	}
	ts, err := p.History(ctx, symbol, max(days, 1))
	if err != nil {
		s.log.Warn().Err(err).Str("provider", p.Name()).Str("symbol", symbol).Msg("history unavailable")
		return nil, false
	}
	if len(ts) == 0 {
		s.log.Warn().Str("provider", p.Name()).Str("symbol", symbol).Msg("empty history")
		return nil, false
	}
	return ts, true
}
