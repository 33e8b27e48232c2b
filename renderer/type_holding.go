package renderer

import (
	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
)

// HoldingList is the list of holdings as entered.
type HoldingList struct {
	Rows  []HoldingRow
	Total goalfolio.Money // total invested
}

// HoldingRow is a single holding of a list.
type HoldingRow struct {
	ID         string
	Name       string
	Class      goalfolio.AssetClass
	Risk       goalfolio.RiskLevel
	EntryPrice goalfolio.Money
	Shares     goalfolio.Quantity
	Amount     goalfolio.Money
	DateAdded  date.Date
}

// NewHoldingList creates the list of 'holdings'.
func NewHoldingList(holdings []goalfolio.Holding) *HoldingList {
	l := &HoldingList{Rows: make([]HoldingRow, 0, len(holdings))}
	for _, h := range holdings {
		l.Rows = append(l.Rows, HoldingRow{
			ID:         ShortID(h.ID),
			Name:       h.Name,
			Class:      h.Class,
			Risk:       h.Risk,
			EntryPrice: h.EntryPrice,
			Shares:     h.Shares,
			Amount:     h.Amount,
			DateAdded:  h.DateAdded,
		})
		l.Total = l.Total.Add(h.Amount)
	}
	return l
}

// Portfolio is the market valuation of the holdings on a date.
type Portfolio struct {
	Date            date.Date
	Rows            []PortfolioRow
	TotalInvested   goalfolio.Money
	TotalCurrent    goalfolio.Money
	TotalPnL        goalfolio.Money
	TotalPnLPercent goalfolio.Percent
	StaleCount      int
	// Analytics is nil when not requested, or without holdings.
	Analytics *goalfolio.Analytics
}

// PortfolioRow is the valuation of a single holding.
type PortfolioRow struct {
	ID           string
	Name         string
	Class        goalfolio.AssetClass
	Risk         goalfolio.RiskLevel
	Shares       goalfolio.Quantity
	Amount       goalfolio.Money
	Price        goalfolio.Money
	CurrentValue goalfolio.Money
	PnL          goalfolio.Money
	PnLPercent   goalfolio.Percent
	// Stale rows have no price, they are displayed as N/A.
	Stale bool
}

// NewPortfolio creates the valuation report of 'm' on 'on'.
func NewPortfolio(m goalfolio.PortfolioMetrics, on date.Date) *Portfolio {
	p := &Portfolio{
		Date:            on,
		Rows:            make([]PortfolioRow, 0, len(m.Holdings)),
		TotalInvested:   m.TotalInvested,
		TotalCurrent:    m.TotalCurrent,
		TotalPnL:        m.TotalPnL,
		TotalPnLPercent: m.TotalPnLPercent,
		StaleCount:      m.StaleCount,
	}
	for _, row := range m.Holdings {
		p.Rows = append(p.Rows, PortfolioRow{
			ID:           ShortID(row.Holding.ID),
			Name:         row.Holding.Name,
			Class:        row.Holding.Class,
			Risk:         row.Holding.Risk,
			Shares:       row.Holding.Shares,
			Amount:       row.Holding.Amount,
			Price:        row.Price,
			CurrentValue: row.CurrentValue,
			PnL:          row.PnL,
			PnLPercent:   row.PnLPercent,
			Stale:        row.Stale,
		})
	}
	return p
}

// WithAnalytics adds the analytics of m to the report, unless it has no holdings.
func (p *Portfolio) WithAnalytics(m goalfolio.PortfolioMetrics) *Portfolio {
	if len(m.Holdings) == 0 {
		return p
	}
	a := goalfolio.ComputeAnalytics(m, p.Date)
	p.Analytics = &a
	return p
}

// TemplateList is the list of predefined goals.
type TemplateList struct {
	Date date.Date // used to compute the default target dates
	Rows []TemplateRow
}

// TemplateRow is a single predefined goal.
type TemplateRow struct {
	Name        string
	Target      goalfolio.Money
	TargetDate  date.Date
	Months      int
	Description string
	Filter      string
}

// NewTemplateList creates the list of templates with target dates computed from 'on'.
func NewTemplateList(templates []goalfolio.Template, on date.Date) *TemplateList {
	l := &TemplateList{Date: on, Rows: make([]TemplateRow, 0, len(templates))}
	for _, t := range templates {
		l.Rows = append(l.Rows, TemplateRow{
			Name:        t.Name,
			Target:      t.Target,
			TargetDate:  on.AddMonths(t.Months),
			Months:      t.Months,
			Description: t.Description,
			Filter:      t.Filter.String(),
		})
	}
	return l
}
