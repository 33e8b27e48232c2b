package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/etnz/goalfolio/renderer"
	"github.com/google/subcommands"
)

// goalFlags are the fields of a goal, shared by goal-add and goal-edit.
type goalFlags struct {
	name        string
	target      string
	date        string
	description string
	types       string
	investments string
	risks       string
}

func (g *goalFlags) set(f *flag.FlagSet) {
	f.StringVar(&g.name, "name", "", "Goal name")
	f.StringVar(&g.target, "target", "", "Target amount")
	f.StringVar(&g.date, "date", "", "Target date, YYYY-MM-DD")
	f.StringVar(&g.description, "description", "", "Goal description")
	f.StringVar(&g.types, "types", "", "Comma separated investment types counting toward the goal ("+join(goalfolio.AssetClasses)+")")
	f.StringVar(&g.investments, "investments", "", "Comma separated investment names counting toward the goal")
	f.StringVar(&g.risks, "risks", "", "Comma separated risk levels counting toward the goal ("+join(goalfolio.RiskLevels)+")")
}

// edit parses the flags that were set on the command line into an edit.
//
// The filter flags each replace one dimension of 'filter', an empty value clears it.
func (g *goalFlags) edit(f *flag.FlagSet, currency string, filter goalfolio.InvestmentFilter) (goalfolio.GoalEdit, error) {
	var e goalfolio.GoalEdit
	var err error
	filtered := false
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "name":
			e.Name = &g.name
		case "description":
			e.Description = &g.description
		case "target":
			var m goalfolio.Money
			if m, err = goalfolio.ParseMoney(g.target, currency); err == nil {
				e.TargetAmount = &m
			}
		case "date":
			var d date.Date
			if d, err = date.Parse(g.date); err == nil {
				e.TargetDate = &d
			}
		case "types":
			filtered = true
			filter.Classes, err = parseList(g.types, goalfolio.ParseAssetClass)
		case "risks":
			filtered = true
			filter.Risks, err = parseList(g.risks, goalfolio.ParseRiskLevel)
		case "investments":
			filtered = true
			filter.Names, _ = parseList(g.investments, func(s string) (string, error) { return s, nil })
		}
	})
	if filtered {
		e.Filter = &filter
	}
	return e, err
}

// parseList parses a comma separated list, blank items are ignored.
func parseList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	var list []T
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		v, err := parse(item)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

type goalAddCmd struct {
	goalFlags
	template string
}

func (*goalAddCmd) Name() string     { return "goal-add" }
func (*goalAddCmd) Synopsis() string { return "create an investment goal" }
func (*goalAddCmd) Usage() string {
	return `goal-add -name <name> -target <amount> -date <date> [-description <text>] [-types <types>] [-investments <names>] [-risks <risks>]
goal-add -template <template> [flags to override]

  Creates a goal. Investments count toward the goal when they match every
  filter that is set: -types, -investments and -risks. Without filter every
  investment counts.

  -template starts from a predefined goal, see 'gf templates'.
`
}

func (c *goalAddCmd) SetFlags(f *flag.FlagSet) {
	c.goalFlags.set(f)
	f.StringVar(&c.template, "template", "", "Start from a predefined goal")
}

func (c *goalAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.template == "" && (c.name == "" || c.target == "" || c.date == "") {
		fmt.Fprintln(os.Stderr, "Error: -name, -target and -date are required without -template.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		on := date.Today()
		var g goalfolio.Goal
		if c.template != "" {
			t, ok := goalfolio.FindTemplate(a.store.Currency(), c.template)
			if !ok {
				fmt.Fprintf(os.Stderr, "Error: unknown template %q, see 'gf templates'.\n", c.template)
				return subcommands.ExitUsageError
			}
			var err error
			if g, err = t.NewGoal(on); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating goal: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		e, err := c.edit(f, a.store.Currency(), g.Filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing goal: %v\n", err)
			return subcommands.ExitUsageError
		}
		if c.template == "" {
			var filter goalfolio.InvestmentFilter
			if e.Filter != nil {
				filter = *e.Filter
			}
			g, err = goalfolio.NewGoal(*e.Name, *e.TargetAmount, *e.TargetDate, filter, c.description, on)
		} else {
			g, err = g.Apply(e)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating goal: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := a.store.AddGoal(g); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating goal: %v\n", err)
			return subcommands.ExitFailure
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Printf("Successfully created goal %s (%s): %s by %s\n", g.Name, renderer.ShortID(g.ID), g.TargetAmount, g.TargetDate)
		return subcommands.ExitSuccess
	})
}

type goalEditCmd struct {
	goalFlags
	active string
}

func (*goalEditCmd) Name() string     { return "goal-edit" }
func (*goalEditCmd) Synopsis() string { return "edit an investment goal" }
func (*goalEditCmd) Usage() string {
	return `goal-edit [-name <name>] [-target <amount>] [-date <date>] [-description <text>] [-types <types>] [-investments <names>] [-risks <risks>] [-active true|false] <goal>

  Changes the given fields of a goal. An empty filter flag, like -types "",
  clears that filter. An inactive goal is kept but not tracked.
  <goal> is a name, an id or an id prefix as printed by 'gf goals'.
`
}

func (c *goalEditCmd) SetFlags(f *flag.FlagSet) {
	c.goalFlags.set(f)
	f.StringVar(&c.active, "active", "", "Track the goal (true) or pause it (false)")
}

func (c *goalEditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || f.NFlag() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		g, err := a.store.ResolveGoal(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding goal: %v\n", err)
			return subcommands.ExitFailure
		}
		e, err := c.edit(f, a.store.Currency(), g.Filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing goal: %v\n", err)
			return subcommands.ExitUsageError
		}
		if c.active != "" {
			active, err := strconv.ParseBool(c.active)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing -active: %v\n", err)
				return subcommands.ExitUsageError
			}
			e.Active = &active
		}
		g, err = a.store.UpdateGoal(g.ID, e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error editing goal: %v\n", err)
			return subcommands.ExitFailure
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Printf("Successfully updated goal %s (%s)\n", g.Name, renderer.ShortID(g.ID))
		return subcommands.ExitSuccess
	})
}

type goalRemoveCmd struct{}

func (*goalRemoveCmd) Name() string     { return "goal-remove" }
func (*goalRemoveCmd) Synopsis() string { return "remove investment goals" }
func (*goalRemoveCmd) Usage() string {
	return `goal-remove <goal>...

  Removes goals, given by name, id or id prefix. Investments are not changed.
`
}

func (c *goalRemoveCmd) SetFlags(f *flag.FlagSet) {}

func (c *goalRemoveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		var removed []goalfolio.Goal
		for _, ref := range f.Args() {
			g, err := a.store.ResolveGoal(ref)
			if err == nil {
				g, err = a.store.RemoveGoal(g.ID)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error removing goal: %v\n", err)
				return subcommands.ExitFailure
			}
			removed = append(removed, g)
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		for _, g := range removed {
			fmt.Printf("Successfully removed goal %s (%s)\n", g.Name, renderer.ShortID(g.ID))
		}
		return subcommands.ExitSuccess
	})
}

type goalsCmd struct{}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "show the progress of the goals" }
func (*goalsCmd) Usage() string {
	return `goals

  Shows the progress of every active goal, with the investments counting
  toward it, the monthly investment needed and recommendations.
  Progress is measured on invested amounts, not on market value.
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {}

func (c *goalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		report := renderer.NewGoals(a.store.Goals(), a.store.Holdings(), date.Today())
		printMarkdown(renderer.RenderGoals(report))
		return subcommands.ExitSuccess
	})
}

type templatesCmd struct{}

func (*templatesCmd) Name() string     { return "templates" }
func (*templatesCmd) Synopsis() string { return "list the predefined goals" }
func (*templatesCmd) Usage() string {
	return `templates

  Lists the predefined goals usable with 'gf goal-add -template <name>'.
`
}

func (c *templatesCmd) SetFlags(f *flag.FlagSet) {}

func (c *templatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		list := renderer.NewTemplateList(goalfolio.Templates(a.store.Currency()), date.Today())
		printMarkdown(renderer.RenderTemplates(list))
		return subcommands.ExitSuccess
	})
}
