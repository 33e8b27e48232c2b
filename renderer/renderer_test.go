package renderer

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var on = date.New(2024, 7, 15)

// outline is what a rendered markdown document is made of.
type outline struct {
	headings []string
	tables   []int // number of body rows of each table
}

// parseOutline parses markdown and returns its headings and tables.
func parseOutline(t *testing.T, md string) outline {
	t.Helper()
	source := []byte(md)
	p := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := p.Parse(text.NewReader(source))

	var o outline
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			o.headings = append(o.headings, b.String())
		case *east.Table:
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableRow); ok {
					rows++
				}
			}
			o.tables = append(o.tables, rows)
		}
		return ast.WalkContinue, nil
	})
	return o
}

func holding(t *testing.T, name string, class goalfolio.AssetClass, price, shares float64, risk goalfolio.RiskLevel, added date.Date) goalfolio.Holding {
	t.Helper()
	h, err := goalfolio.NewHolding(name, class, goalfolio.M(price, "USD"), goalfolio.Q(shares), risk, added)
	if err != nil {
		t.Fatalf("NewHolding(%q) failed: %v", name, err)
	}
	return h
}

// prices is a price source with fixed spot prices.
type prices map[string]float64

func (p prices) Spot(_ context.Context, name string, _ goalfolio.AssetClass) (goalfolio.Money, bool) {
	v, ok := p[name]
	return goalfolio.M(v, "USD"), ok
}

func (p prices) History(_ context.Context, name string, _ goalfolio.AssetClass, _ int) (goalfolio.TimeSeries, bool) {
	v, ok := p[name]
	if !ok {
		return nil, false
	}
	return goalfolio.TimeSeries{{Time: on.Time(), Price: decimal.NewFromFloat(v)}}, true
}

func sampleHoldings(t *testing.T) []goalfolio.Holding {
	return []goalfolio.Holding{
		holding(t, "Apple Inc. (AAPL)", goalfolio.Stocks, 150, 10, goalfolio.Medium, date.New(2024, 1, 15)),
		holding(t, "Bitcoin (BTC)", goalfolio.Cryptocurrency, 45000, 0.1, goalfolio.High, date.New(2024, 7, 1)),
		holding(t, "Pipe | Bond", goalfolio.Bonds, 100, 20, goalfolio.Low, date.New(2023, 1, 1)),
	}
}

var samplePrices = prices{"Apple Inc. (AAPL)": 180, "Bitcoin (BTC)": 60000}

func TestRenderPortfolio(t *testing.T) {
	hs := sampleHoldings(t)
	m := goalfolio.ComputeMetrics(context.Background(), samplePrices, hs)
	got := RenderPortfolio(NewPortfolio(m, on).WithAnalytics(m))

	o := parseOutline(t, got)
	wantHeadings := []string{"Portfolio on 2024-07-15", "Holdings", "Analytics", "By Holding Period", "By Asset Type"}
	if strings.Join(o.headings, ",") != strings.Join(wantHeadings, ",") {
		t.Errorf("headings = %q, want %q", o.headings, wantHeadings)
	}
	// totals, holdings, statistics, periods, classes
	wantTables := []int{1, 3, 1, 5, 3}
	if len(o.tables) != len(wantTables) {
		t.Fatalf("got %d tables, want %d:\n%s", len(o.tables), len(wantTables), got)
	}
	for i, rows := range wantTables {
		if o.tables[i] != rows {
			t.Errorf("table #%d has %d rows, want %d", i, o.tables[i], rows)
		}
	}
	for _, want := range []string{
		"$1,800.00",    // AAPL value
		"+$300.00",     // AAPL P&L
		"+20.00%",      // AAPL return
		"N/A",          // bond has no price
		`Pipe \| Bond`, // escaped cell
		"1 holding(s) without a current price",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderPortfolio() does not contain %q:\n%s", want, got)
		}
	}
}

func TestRenderPortfolio_Empty(t *testing.T) {
	m := goalfolio.ComputeMetrics(context.Background(), nil, nil)
	got := RenderPortfolio(NewPortfolio(m, on).WithAnalytics(m))
	o := parseOutline(t, got)
	if len(o.headings) != 2 {
		t.Errorf("headings = %q, want the title and Holdings only", o.headings)
	}
	if !strings.Contains(got, "No investments yet") {
		t.Errorf("RenderPortfolio() does not say the portfolio is empty:\n%s", got)
	}
	if strings.Contains(got, "error") {
		t.Errorf("RenderPortfolio() failed:\n%s", got)
	}
}

func TestRenderPerformance(t *testing.T) {
	hs := sampleHoldings(t)
	pp := goalfolio.ComputePortfolioPerformance(context.Background(), samplePrices, hs, on)
	got := RenderPerformance(NewPerformance(pp, on))

	o := parseOutline(t, got)
	if len(o.tables) != 2 || o.tables[0] != 1 || o.tables[1] != 3 {
		t.Errorf("tables = %v, want [1 3]:\n%s", o.tables, got)
	}
	for _, want := range []string{"2024-01-15", "182", "+20.00%", "without price history"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderPerformance() does not contain %q:\n%s", want, got)
		}
	}
}

func TestRenderGoals(t *testing.T) {
	hs := sampleHoldings(t)
	crypto, err := goalfolio.NewGoal("Crypto", goalfolio.M(10000, "USD"), date.New(2024, 8, 1),
		goalfolio.InvestmentFilter{Classes: []goalfolio.AssetClass{goalfolio.Cryptocurrency}}, "Moon", date.New(2024, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	all, err := goalfolio.NewGoal("Everything", goalfolio.M(5000, "USD"), date.New(2030, 1, 1), goalfolio.InvestmentFilter{}, "", date.New(2024, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	off, err := goalfolio.NewGoal("Paused", goalfolio.M(100, "USD"), date.New(2030, 1, 1), goalfolio.InvestmentFilter{}, "", date.New(2024, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	off.Active = false

	got := RenderGoals(NewGoals([]goalfolio.Goal{crypto, all, off}, hs, on))
	o := parseOutline(t, got)
	wantHeadings := []string{"Goals on 2024-07-15", "Crypto (" + ShortID(crypto.ID) + ")", "Everything (" + ShortID(all.ID) + ")"}
	if strings.Join(o.headings, ",") != strings.Join(wantHeadings, ",") {
		t.Errorf("headings = %q, want %q", o.headings, wantHeadings)
	}
	for _, want := range []string{
		"Inactive: Paused.",
		"45.00%",  // 4500 of 10000
		"100.00%", // 8000 of 5000
		"Bitcoin (BTC)",
		"Deadline approaching",
		"Congratulations",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderGoals() does not contain %q:\n%s", want, got)
		}
	}
}

func TestRenderGoals_None(t *testing.T) {
	got := RenderGoals(NewGoals(nil, nil, on))
	if !strings.Contains(got, "No active goal") {
		t.Errorf("RenderGoals() does not say there is no goal:\n%s", got)
	}
}

func TestRenderHoldings(t *testing.T) {
	got := RenderHoldings(NewHoldingList(sampleHoldings(t)))
	o := parseOutline(t, got)
	if len(o.tables) != 1 || o.tables[0] != 4 {
		t.Errorf("tables = %v, want one table of 3 holdings and a total:\n%s", o.tables, got)
	}
	if !strings.Contains(got, "**$8,000.00**") {
		t.Errorf("RenderHoldings() does not contain the total:\n%s", got)
	}
}

func TestRenderTemplates(t *testing.T) {
	got := RenderTemplates(NewTemplateList(goalfolio.Templates("USD"), on))
	o := parseOutline(t, got)
	if len(o.headings) != 7 {
		t.Errorf("headings = %q, want a title and 6 templates", o.headings)
	}
	if !strings.Contains(got, "by 2026-07-15") {
		t.Errorf("Emergency Fund is not due in 24 months:\n%s", got)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		p    goalfolio.Percent
		full int
	}{
		{0, 0}, {50, 10}, {100, 20}, {150, 20}, {-5, 0},
	}
	for _, tt := range tests {
		got := bar(tt.p)
		if n := strings.Count(got, "█"); n != tt.full {
			t.Errorf("bar(%v) has %d full blocks, want %d", tt.p, n, tt.full)
		}
		if n := len([]rune(got)); n != barWidth {
			t.Errorf("bar(%v) has %d runes, want %d", tt.p, n, barWidth)
		}
	}
}

// TestTemplatesAreUsed checks that every embedded template is referenced by a Render function.
func TestTemplatesAreUsed(t *testing.T) {
	entries, err := templates.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	rendered := []string{"portfolio", "performance", "goals", "holdings", "templates"}
	for _, e := range entries {
		base := strings.TrimSuffix(e.Name(), ".md")
		found := false
		for _, r := range rendered {
			if base == r || strings.HasPrefix(base, r+"_") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("template %s is not rendered by any function", e.Name())
		}
	}
}
