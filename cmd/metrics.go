package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/etnz/goalfolio/renderer"
	"github.com/google/subcommands"
)

type metricsCmd struct {
	analytics bool
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "value the portfolio at market prices" }
func (*metricsCmd) Usage() string {
	return `metrics [-analytics]

  Values every investment at its current market price, with profit and loss.
  Investments without a price are valued at their invested amount and shown as N/A.

  -analytics adds concentration, holding periods and asset types.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.analytics, "analytics", false, "Add portfolio analytics")
}

func (c *metricsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		src, err := a.prices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring prices: %v\n", err)
			return subcommands.ExitFailure
		}
		m := goalfolio.ComputeMetrics(ctx, src, a.store.Holdings())
		report := renderer.NewPortfolio(m, date.Today())
		if c.analytics {
			report = report.WithAnalytics(m)
		}
		printMarkdown(renderer.RenderPortfolio(report))
		return subcommands.ExitSuccess
	})
}

type performanceCmd struct{}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "show the return of each investment since it was added" }
func (*performanceCmd) Usage() string {
	return `performance

  Shows the return and annualized return of each investment over its holding
  period, from the market price history.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		src, err := a.prices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring prices: %v\n", err)
			return subcommands.ExitFailure
		}
		on := date.Today()
		pp := goalfolio.ComputePortfolioPerformance(ctx, src, a.store.Holdings(), on)
		printMarkdown(renderer.RenderPerformance(renderer.NewPerformance(pp, on)))
		return subcommands.ExitSuccess
	})
}
