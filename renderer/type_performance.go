package renderer

import (
	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
)

// Performance is the performance of the holdings since they were added.
type Performance struct {
	Date       date.Date
	Rows       []PerformanceRow
	Total      goalfolio.Performance
	StaleCount int
}

// PerformanceRow is the performance of a single holding.
type PerformanceRow struct {
	ID           string
	Name         string
	DateAdded    date.Date
	DaysHeld     int
	EntryPrice   goalfolio.Money
	CurrentPrice goalfolio.Money
	Performance  goalfolio.Performance
	Annualized   goalfolio.Percent
	Stale        bool
}

// NewPerformance creates the performance report of 'pp' on 'on'.
func NewPerformance(pp goalfolio.PortfolioPerformance, on date.Date) *Performance {
	p := &Performance{
		Date:       on,
		Rows:       make([]PerformanceRow, 0, len(pp.Holdings)),
		Total:      pp.Total,
		StaleCount: pp.StaleCount,
	}
	for _, h := range pp.Holdings {
		p.Rows = append(p.Rows, PerformanceRow{
			ID:           ShortID(h.Holding.ID),
			Name:         h.Holding.Name,
			DateAdded:    h.Holding.DateAdded,
			DaysHeld:     h.DaysHeld,
			EntryPrice:   h.Holding.EntryPrice,
			CurrentPrice: h.CurrentPrice,
			Performance:  h.Performance,
			Annualized:   h.Annualized,
			Stale:        h.Stale,
		})
	}
	return p
}
