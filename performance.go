package goalfolio

import (
	"context"
	"math"

	"github.com/etnz/goalfolio/date"
)

// DaysPerYear is the year length used to annualize returns.
const DaysPerYear = 365

// HoldingPerformance is the performance of a holding since it was added.
type HoldingPerformance struct {
	Holding      Holding
	CurrentPrice Money
	Performance  Performance // from the invested amount to the current value
	DaysHeld     int
	Annualized   Percent
	// Stale is set when no history was available, the entry price is used instead.
	Stale bool
}

// CurrentValue is the value of the holding at the current price.
func (p HoldingPerformance) CurrentValue() Money { return p.Performance.End }

// ComputePerformance computes the performance of h from its price history, as of 'on'.
//
// The current price is the last point of history. Annualized return is
// ((value/amount)^(365/days) - 1) × 100, and 0 when the holding was added
// today (or later) or has no amount.
func ComputePerformance(h Holding, history TimeSeries, on date.Date) HoldingPerformance {
	p := HoldingPerformance{
		Holding:      h,
		CurrentPrice: h.EntryPrice,
		DaysHeld:     max(on.Sub(h.DateAdded), 0),
	}
	if last, ok := history.Last(); ok {
		p.CurrentPrice = M(last.Price, h.EntryPrice.Currency())
	} else {
		p.Stale = true
	}
	p.Performance = NewPerformance(h.Amount, p.CurrentPrice.Mul(h.Shares))
	p.Annualized = annualize(p.Performance, p.DaysHeld)
	return p
}

// annualize returns the compound yearly return of perf over 'days'.
func annualize(perf Performance, days int) Percent {
	if days <= 0 || !perf.Start.IsPositive() {
		return 0
	}
	ratio := perf.End.Decimal().Div(perf.Start.Decimal()).InexactFloat64()
	r := (math.Pow(ratio, float64(DaysPerYear)/float64(days)) - 1) * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return Percent(r)
}

// PortfolioPerformance is the performance of every holding and of their total.
type PortfolioPerformance struct {
	Holdings   []HoldingPerformance
	Total      Performance
	StaleCount int
}

// ComputePortfolioPerformance fetches the history of every holding since it
// was added and computes its performance as of 'on'.
func ComputePortfolioPerformance(ctx context.Context, src PriceSource, holdings []Holding, on date.Date) PortfolioPerformance {
	if src == nil {
		src = NoPrices{}
	}
	var pp PortfolioPerformance
	for _, h := range holdings {
		days := max(on.Sub(h.DateAdded), 1)
		history, ok := src.History(ctx, h.Name, h.Class, days)
		if !ok {
			history = nil
		}
		p := ComputePerformance(h, history, on)
		if p.Stale {
			pp.StaleCount++
		}
		pp.Holdings = append(pp.Holdings, p)
		pp.Total.Start = pp.Total.Start.Add(p.Performance.Start)
		pp.Total.End = pp.Total.End.Add(p.Performance.End)
	}
	return pp
}
