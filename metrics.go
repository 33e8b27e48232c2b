package goalfolio

import (
	"context"
)

// HoldingMetrics is the market valuation of a single holding.
type HoldingMetrics struct {
	Holding      Holding
	Price        Money // zero when Stale
	CurrentValue Money
	PnL          Money
	PnLPercent   Percent
	// Stale is set when no price was available. CurrentValue then falls back to
	// the invested amount and PnL to zero: they must be displayed as unknown.
	Stale bool
}

// PortfolioMetrics is the market valuation of a list of holdings.
type PortfolioMetrics struct {
	Holdings        []HoldingMetrics
	TotalInvested   Money
	TotalCurrent    Money
	TotalPnL        Money
	TotalPnLPercent Percent
	StaleCount      int
}

// ComputeMetrics values every holding at its spot price.
//
// A price missing for one holding never aborts the computation: that row is
// flagged Stale and valued at its invested amount.
func ComputeMetrics(ctx context.Context, src PriceSource, holdings []Holding) PortfolioMetrics {
	if src == nil {
		src = NoPrices{}
	}
	var m PortfolioMetrics
	for _, h := range holdings {
		price, ok := src.Spot(ctx, h.Name, h.Class)
		row := valueHolding(h, price, ok)
		if row.Stale {
			m.StaleCount++
		}
		m.Holdings = append(m.Holdings, row)
		m.TotalInvested = m.TotalInvested.Add(h.Amount)
		m.TotalCurrent = m.TotalCurrent.Add(row.CurrentValue)
	}
	m.TotalPnL = m.TotalCurrent.Sub(m.TotalInvested)
	m.TotalPnLPercent = m.TotalPnL.Percent(m.TotalInvested)
	return m
}

// valueHolding computes the row of h for a spot price.
func valueHolding(h Holding, spot Money, ok bool) HoldingMetrics {
	if !ok {
		return HoldingMetrics{
			Holding:      h,
			CurrentValue: h.Amount,
			PnL:          M(0, h.Amount.Currency()),
			Stale:        true,
		}
	}
	// prices are taken as quoted in the holding's currency.
	price := M(spot.Decimal(), h.EntryPrice.Currency())
	current := price.Mul(h.Shares)
	pnl := current.Sub(h.Amount)
	return HoldingMetrics{
		Holding:      h,
		Price:        price,
		CurrentValue: current,
		PnL:          pnl,
		PnLPercent:   pnl.Percent(h.Amount),
	}
}
