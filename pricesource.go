package goalfolio

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource gives market prices for holdings.
//
// Implementations never fail: a price that cannot be obtained, for whatever
// reason, is reported as unavailable (ok == false).
type PriceSource interface {
	// Spot returns the latest price of one unit of the investment named 'name'.
	Spot(ctx context.Context, name string, class AssetClass) (price Money, ok bool)
	// History returns the daily prices of the last 'days' days, oldest first.
	History(ctx context.Context, name string, class AssetClass, days int) (series TimeSeries, ok bool)
}

// PricePoint is a price at a point in time.
type PricePoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// TimeSeries is a list of prices in chronological order.
type TimeSeries []PricePoint

// Last returns the most recent point.
func (ts TimeSeries) Last() (PricePoint, bool) {
	if len(ts) == 0 {
		return PricePoint{}, false
	}
	return ts[len(ts)-1], true
}

// NoPrices is a PriceSource where nothing is ever available.
type NoPrices struct{}

func (NoPrices) Spot(context.Context, string, AssetClass) (Money, bool) { return Money{}, false }
func (NoPrices) History(context.Context, string, AssetClass, int) (TimeSeries, bool) {
	return nil, false
}
