package goalfolio

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/goalfolio/date"
	"github.com/google/uuid"
)

// InvestmentFilter selects the holdings that count toward a goal.
//
// Dimensions that are set must all match (AND), any value within a
// dimension matches (OR). An empty filter matches every holding.
type InvestmentFilter struct {
	Classes []AssetClass `json:"investment_types,omitempty"`
	Names   []string     `json:"specific_investments,omitempty"`
	Risks   []RiskLevel  `json:"risk_levels,omitempty"`
}

// IsEmpty reports whether f matches everything.
func (f InvestmentFilter) IsEmpty() bool {
	return len(f.Classes) == 0 && len(f.Names) == 0 && len(f.Risks) == 0
}

// Match reports whether h passes the filter.
func (f InvestmentFilter) Match(h Holding) bool {
	if len(f.Classes) > 0 && !slices.Contains(f.Classes, h.Class) {
		return false
	}
	if len(f.Names) > 0 && !slices.Contains(f.Names, h.Name) {
		return false
	}
	if len(f.Risks) > 0 && !slices.Contains(f.Risks, h.Risk) {
		return false
	}
	return true
}

// Select returns the holdings matching f, in their original order.
func (f InvestmentFilter) Select(holdings []Holding) []Holding {
	var selected []Holding
	for _, h := range holdings {
		if f.Match(h) {
			selected = append(selected, h)
		}
	}
	return selected
}

// normalized drops empty dimensions so that equal filters compare equal.
func (f InvestmentFilter) normalized() InvestmentFilter {
	if len(f.Classes) == 0 {
		f.Classes = nil
	}
	if len(f.Names) == 0 {
		f.Names = nil
	}
	if len(f.Risks) == 0 {
		f.Risks = nil
	}
	return f
}

func (f InvestmentFilter) validate() error {
	for _, c := range f.Classes {
		if !c.Valid() {
			return fmt.Errorf("unknown investment type %q in filter", c)
		}
	}
	for _, r := range f.Risks {
		if !r.Valid() {
			return fmt.Errorf("unknown risk level %q in filter", r)
		}
	}
	return nil
}

// Equal reports whether f and g select the same dimensions and values.
func (f InvestmentFilter) Equal(g InvestmentFilter) bool {
	return slices.Equal(f.Classes, g.Classes) && slices.Equal(f.Names, g.Names) && slices.Equal(f.Risks, g.Risks)
}

// String describes the filter, "all investments" when empty.
func (f InvestmentFilter) String() string {
	if f.IsEmpty() {
		return "all investments"
	}
	var parts []string
	if len(f.Classes) > 0 {
		parts = append(parts, fmt.Sprintf("types: %s", join(f.Classes)))
	}
	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("investments: %s", strings.Join(f.Names, ", ")))
	}
	if len(f.Risks) > 0 {
		parts = append(parts, fmt.Sprintf("risk: %s", join(f.Risks)))
	}
	return strings.Join(parts, "; ")
}

func join[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

// Goal is a savings target to reach by a date, counting the holdings that match its filter.
type Goal struct {
	ID           uuid.UUID `validate:"required"`
	Name         string    `validate:"required"`
	TargetAmount Money     `validate:"gt=0"`
	TargetDate   date.Date
	Filter       InvestmentFilter
	Description  string
	Created      date.Date
	Active       bool
}

// NewGoal creates an active, validated goal with a fresh id, created on 'on'.
func NewGoal(name string, target Money, targetDate date.Date, filter InvestmentFilter, description string, on date.Date) (Goal, error) {
	g := Goal{
		ID:           uuid.New(),
		Name:         name,
		TargetAmount: target,
		TargetDate:   targetDate,
		Filter:       filter,
		Description:  description,
		Created:      on,
		Active:       true,
	}
	return g.checked()
}

// checked normalizes and validates g.
func (g Goal) checked() (Goal, error) {
	g.Name = strings.TrimSpace(g.Name)
	g.Description = strings.TrimSpace(g.Description)
	g.Filter = g.Filter.normalized()
	if err := validate.Struct(g); err != nil {
		return Goal{}, fmt.Errorf("invalid goal %q: %w", g.Name, validationError(err))
	}
	if g.TargetDate.IsZero() {
		return Goal{}, fmt.Errorf("invalid goal %q: %w", g.Name, &FieldError{Field: "TargetDate", Tag: "required"})
	}
	if g.Created.IsZero() {
		return Goal{}, fmt.Errorf("invalid goal %q: %w", g.Name, &FieldError{Field: "Created", Tag: "required"})
	}
	if err := g.Filter.validate(); err != nil {
		return Goal{}, fmt.Errorf("invalid goal %q: %w", g.Name, err)
	}
	return g, nil
}

// GoalEdit lists the fields to change on a goal, nil fields are left untouched.
type GoalEdit struct {
	Name         *string
	TargetAmount *Money
	TargetDate   *date.Date
	Filter       *InvestmentFilter
	Description  *string
	Active       *bool
}

// Apply returns a copy of g with the edit applied. g is unchanged if the result is invalid.
func (g Goal) Apply(e GoalEdit) (Goal, error) {
	n := g
	if e.Name != nil {
		n.Name = *e.Name
	}
	if e.TargetAmount != nil {
		n.TargetAmount = *e.TargetAmount
	}
	if e.TargetDate != nil {
		n.TargetDate = *e.TargetDate
	}
	if e.Filter != nil {
		n.Filter = *e.Filter
	}
	if e.Description != nil {
		n.Description = *e.Description
	}
	if e.Active != nil {
		n.Active = *e.Active
	}
	return n.checked()
}

// Equal reports whether g and o hold the same values.
func (g Goal) Equal(o Goal) bool {
	return g.ID == o.ID &&
		g.Name == o.Name &&
		g.TargetAmount.Equal(o.TargetAmount) &&
		g.TargetDate == o.TargetDate &&
		g.Filter.Equal(o.Filter) &&
		g.Description == o.Description &&
		g.Created == o.Created &&
		g.Active == o.Active
}

// Template is a predefined goal.
type Template struct {
	Name        string
	Target      Money
	Description string
	Filter      InvestmentFilter
	Months      int // default timeline
}

// NewGoal creates a goal from the template, due Months after 'on'.
func (t Template) NewGoal(on date.Date) (Goal, error) {
	return NewGoal(t.Name, t.Target, on.AddMonths(t.Months), t.Filter, t.Description, on)
}

// Templates returns the predefined goals with targets in 'currency'.
func Templates(currency string) []Template {
	return []Template{
		{
			Name:        "Emergency Fund",
			Target:      M(25000, currency),
			Description: "Build a 6-month emergency fund",
			Filter:      InvestmentFilter{Classes: []AssetClass{Bonds}, Risks: []RiskLevel{Low}},
			Months:      24,
		},
		{
			Name:        "House Down Payment",
			Target:      M(100000, currency),
			Description: "Save for a house down payment",
			Filter:      InvestmentFilter{Classes: []AssetClass{Stocks, Bonds}, Risks: []RiskLevel{Low, Medium}},
			Months:      60,
		},
		{
			Name:        "Retirement Fund",
			Target:      M(500000, currency),
			Description: "Build retirement savings",
			Months:      240,
		},
		{
			Name:        "Bitcoin Holdings",
			Target:      M(100000, currency),
			Description: "Accumulate Bitcoin for long-term growth",
			Filter:      InvestmentFilter{Names: []string{"Bitcoin (BTC)"}},
			Months:      36,
		},
		{
			Name:        "Index Fund Portfolio",
			Target:      M(50000, currency),
			Description: "Build a diversified index fund portfolio",
			Filter:      InvestmentFilter{Names: []string{"S&P 500 ETF (SPY)", "QQQ Nasdaq ETF (QQQ)", "SPDR S&P 500 ETF Trust (SPUS)"}},
			Months:      60,
		},
		{
			Name:        "Education Fund",
			Target:      M(75000, currency),
			Description: "Save for education expenses",
			Filter:      InvestmentFilter{Classes: []AssetClass{Stocks, Bonds}, Risks: []RiskLevel{Low, Medium}},
			Months:      120,
		},
	}
}

// FindTemplate returns the template named 'name', case insensitive.
func FindTemplate(currency, name string) (Template, bool) {
	for _, t := range Templates(currency) {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Template{}, false
}
