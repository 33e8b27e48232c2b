package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type records struct {
	holdings []goalfolio.Holding
	goals    []goalfolio.Goal
}

func (r records) Holdings() []goalfolio.Holding { return r.holdings }
func (r records) Goals() []goalfolio.Goal       { return r.goals }

func sample(t *testing.T) records {
	t.Helper()
	h, err := goalfolio.NewHolding("Apple Inc. (AAPL)", goalfolio.Stocks, goalfolio.M(150, "USD"), goalfolio.Q(10), goalfolio.Medium, date.New(2024, 1, 15))
	require.NoError(t, err)
	g, err := goalfolio.NewGoal("Stocks", goalfolio.M(3000, "USD"), date.New(2030, 1, 1),
		goalfolio.InvestmentFilter{Classes: []goalfolio.AssetClass{goalfolio.Stocks}}, "", date.New(2024, 1, 1))
	require.NoError(t, err)
	return records{holdings: []goalfolio.Holding{h}, goals: []goalfolio.Goal{g}}
}

func call(lib Library, name string, args map[string]any) *genai.FunctionResponse {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
}

func TestTools_Declarations(t *testing.T) {
	decls := NewDeclaration(Tools(records{}, goalfolio.NoPrices{}))
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{PortfolioMetrics, GoalProgress}, names)
}

func TestTools_PortfolioMetrics(t *testing.T) {
	lib := NewLibrary(Tools(sample(t), goalfolio.NoPrices{}))

	resp := call(lib, PortfolioMetrics, map[string]any{"analytics": true})
	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, PortfolioMetrics, resp.Name)
	out, ok := resp.Response["output"].(string)
	require.True(t, ok, "response = %v", resp.Response)
	assert.Contains(t, out, "Apple Inc. (AAPL)")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Analytics")
}

func TestTools_GoalProgress(t *testing.T) {
	lib := NewLibrary(Tools(sample(t), goalfolio.NoPrices{}))

	resp := call(lib, GoalProgress, map[string]any{"date": "2024-07-15"})
	out, ok := resp.Response["output"].(string)
	require.True(t, ok, "response = %v", resp.Response)
	assert.Contains(t, out, "Goals on 2024-07-15")
	assert.Contains(t, out, "50.00%")

	resp = call(lib, GoalProgress, map[string]any{"date": "next week"})
	assert.Contains(t, resp.Response["error"], "YYYY-MM-DD")

	resp = call(lib, GoalProgress, map[string]any{"date": 12})
	assert.Contains(t, resp.Response["error"], "not a string")
}

func TestLibrary_UnknownFunction(t *testing.T) {
	lib := NewLibrary(Tools(records{}, goalfolio.NoPrices{}))
	resp := call(lib, "transfer_funds", nil)
	assert.Equal(t, "transfer_funds", resp.Name)
	assert.Equal(t, "unknown function transfer_funds", resp.Response["error"])
}

func TestExpert_Declaration(t *testing.T) {
	p := NewPlanner(DefaultModel, records{}, goalfolio.NoPrices{})
	d := p.Declaration()
	assert.Equal(t, "Planner", d.Name)
	assert.Equal(t, []string{"question"}, d.Parameters.Required)

	f := newFacilitator(DefaultModel, p, NewTrader(DefaultModel))
	names := []string{}
	for _, d := range f.Config.Tools[0].FunctionDeclarations {
		names = append(names, d.Name)
	}
	assert.Equal(t, "Planner,Trader", strings.Join(names, ","))
}

func TestExpert_CallRejectsBadQuestion(t *testing.T) {
	resp := NewTrader(DefaultModel).Call(context.Background(), "7", map[string]any{"question": 42})
	assert.Equal(t, "7", resp.ID)
	assert.Contains(t, resp.Response["error"], "expected string")
}
