package advisor

import (
	"context"
	"fmt"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/etnz/goalfolio/docs"
	"github.com/etnz/goalfolio/renderer"
	"google.golang.org/genai"
)

// Records gives access to the user's holdings and goals.
type Records interface {
	Holdings() []goalfolio.Holding
	Goals() []goalfolio.Goal
}

// Func implements a simple Function.
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Tool names.
const (
	PortfolioMetrics = "portfolio_metrics"
	GoalProgress     = "goal_progress"
)

// Tools returns the functions answering from 'records', valued with 'src'.
func Tools(records Records, src goalfolio.PriceSource) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: PortfolioMetrics,
				Description: `Values every investment of the portfolio at its current market price.

				It details, for each investment, the type, risk level, shares, invested amount, current price,
				current value and profit or loss. Investments without a current price are marked N/A and valued
				at their invested amount.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"analytics": {
							Type:        genai.TypeBoolean,
							Description: "Add concentration, holding periods and the breakdown by asset type.",
						},
					},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the portfolio valuation.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				analytics, _ := args["analytics"].(bool)
				m := goalfolio.ComputeMetrics(ctx, src, records.Holdings())
				report := renderer.NewPortfolio(m, date.Today())
				if analytics {
					report = report.WithAnalytics(m)
				}
				return output(id, PortfolioMetrics, renderer.RenderPortfolio(report))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: GoalProgress,
				Description: `Measures the progress of every active savings goal on a given day.

				` + must(docs.GetTopic("goals")),
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {
							Type:        genai.TypeString,
							Description: "The day to measure the progress on, YYYY-MM-DD. Today is the default.",
						},
					},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the progress, status and recommendations of each goal.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				on, err := parseDate(args)
				if err != nil {
					return errorResponse(id, GoalProgress, err)
				}
				report := renderer.NewGoals(records.Goals(), records.Holdings(), on)
				return output(id, GoalProgress, renderer.RenderGoals(report))
			},
		},
	}
}

func output(id, name, md string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": md}}
}

func parseDate(args map[string]any) (date.Date, error) {
	v, ok := args["date"]
	if !ok {
		return date.Today(), nil
	}
	s, ok := v.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("argument 'date' is not a string as expected but %T", v)
	}
	if s == "" {
		return date.Today(), nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("argument 'date' must be a YYYY-MM-DD date, got %q", s)
	}
	return d, nil
}
