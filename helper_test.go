package goalfolio

import (
	"context"
	"testing"

	"github.com/etnz/goalfolio/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// mustHolding creates a holding or fails the test.
func mustHolding(t *testing.T, name string, class AssetClass, price, shares float64, risk RiskLevel, on date.Date) Holding {
	t.Helper()
	h, err := NewHolding(name, class, USD(price), Q(shares), risk, on)
	if err != nil {
		t.Fatalf("NewHolding(%q) error = %v", name, err)
	}
	return h
}

// mustGoal creates a goal or fails the test.
func mustGoal(t *testing.T, name string, target float64, due date.Date, filter InvestmentFilter, on date.Date) Goal {
	t.Helper()
	g, err := NewGoal(name, USD(target), due, filter, "", on)
	if err != nil {
		t.Fatalf("NewGoal(%q) error = %v", name, err)
	}
	return g
}

// fakePrices is a PriceSource answering from maps, names absent are unavailable.
type fakePrices struct {
	spot    map[string]float64
	history map[string]TimeSeries
	days    map[string]int // last 'days' requested per name
}

func (f *fakePrices) Spot(_ context.Context, name string, _ AssetClass) (Money, bool) {
	v, ok := f.spot[name]
	if !ok {
		return Money{}, false
	}
	return USD(v), true
}

func (f *fakePrices) History(_ context.Context, name string, _ AssetClass, days int) (TimeSeries, bool) {
	if f.days == nil {
		f.days = make(map[string]int)
	}
	f.days[name] = days
	ts, ok := f.history[name]
	return ts, ok
}

func sameHoldings(a, b []Holding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func sameGoals(a, b []Goal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
