package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/etnz/goalfolio/renderer"
	"github.com/google/subcommands"
)

// holdingFlags are the fields of a holding, shared by add and edit.
type holdingFlags struct {
	name   string
	class  string
	price  string
	shares string
	risk   string
	date   string
}

func (h *holdingFlags) set(f *flag.FlagSet) {
	f.StringVar(&h.name, "name", "", "Investment name, like \"Apple Inc. (AAPL)\"")
	f.StringVar(&h.class, "type", "", "Investment type: "+join(goalfolio.AssetClasses))
	f.StringVar(&h.price, "price", "", "Entry price per share")
	f.StringVar(&h.shares, "shares", "", "Number of shares or units")
	f.StringVar(&h.risk, "risk", "", "Risk level: "+join(goalfolio.RiskLevels))
	f.StringVar(&h.date, "date", "", "Date added, YYYY-MM-DD (default today)")
}

// edit parses the flags that were set on the command line into an edit.
func (h *holdingFlags) edit(f *flag.FlagSet, currency string) (goalfolio.HoldingEdit, error) {
	var e goalfolio.HoldingEdit
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "name":
			e.Name = &h.name
		case "type":
			var c goalfolio.AssetClass
			if c, err = goalfolio.ParseAssetClass(h.class); err == nil {
				e.Class = &c
			}
		case "price":
			var m goalfolio.Money
			if m, err = goalfolio.ParseMoney(h.price, currency); err == nil {
				e.EntryPrice = &m
			}
		case "shares":
			var q goalfolio.Quantity
			if q, err = goalfolio.ParseQuantity(h.shares); err == nil {
				e.Shares = &q
			}
		case "risk":
			var r goalfolio.RiskLevel
			if r, err = goalfolio.ParseRiskLevel(h.risk); err == nil {
				e.Risk = &r
			}
		case "date":
			var d date.Date
			if d, err = date.Parse(h.date); err == nil {
				e.DateAdded = &d
			}
		}
	})
	return e, err
}

// join lists values for usage messages.
func join[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

type addCmd struct {
	holdingFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an investment to the portfolio" }
func (*addCmd) Usage() string {
	return `add -name <name> -type <type> -price <price> -shares <shares> [-risk <risk>] [-date <date>]

  Adds a new investment, its total amount is price × shares.
  - risk defaults to Medium.
  - date defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) { c.holdingFlags.set(f) }

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.class == "" || c.price == "" || c.shares == "" {
		fmt.Fprintln(os.Stderr, "Error: -name, -type, -price and -shares are required.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		e, err := c.edit(f, a.store.Currency())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing investment: %v\n", err)
			return subcommands.ExitUsageError
		}
		risk, on := goalfolio.DefaultRisk, date.Today()
		if e.Risk != nil {
			risk = *e.Risk
		}
		if e.DateAdded != nil {
			on = *e.DateAdded
		}
		h, err := goalfolio.NewHolding(*e.Name, *e.Class, *e.EntryPrice, *e.Shares, risk, on)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error adding investment: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := a.store.AddHolding(h); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding investment: %v\n", err)
			return subcommands.ExitFailure
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Printf("Successfully added %s (%s): %s\n", h.Name, renderer.ShortID(h.ID), h.Amount)
		return subcommands.ExitSuccess
	})
}

type editCmd struct {
	holdingFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an investment" }
func (*editCmd) Usage() string {
	return `edit [-name <name>] [-type <type>] [-price <price>] [-shares <shares>] [-risk <risk>] [-date <date>] <investment>

  Changes the given fields of an investment, the total amount is recomputed.
  <investment> is a name, an id or an id prefix as printed by 'gf list'.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) { c.holdingFlags.set(f) }

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || f.NFlag() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		e, err := c.edit(f, a.store.Currency())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing investment: %v\n", err)
			return subcommands.ExitUsageError
		}
		h, err := a.store.ResolveHolding(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding investment: %v\n", err)
			return subcommands.ExitFailure
		}
		h, err = a.store.UpdateHolding(h.ID, e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error editing investment: %v\n", err)
			return subcommands.ExitFailure
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Printf("Successfully updated %s (%s): %s\n", h.Name, renderer.ShortID(h.ID), h.Amount)
		return subcommands.ExitSuccess
	})
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove investments" }
func (*removeCmd) Usage() string {
	return `remove <investment>...

  Removes investments, given by name, id or id prefix.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		var removed []goalfolio.Holding
		for _, ref := range f.Args() {
			h, err := a.store.ResolveHolding(ref)
			if err == nil {
				h, err = a.store.RemoveHolding(h.ID)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error removing investment: %v\n", err)
				return subcommands.ExitFailure
			}
			removed = append(removed, h)
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		for _, h := range removed {
			fmt.Printf("Successfully removed %s (%s)\n", h.Name, renderer.ShortID(h.ID))
		}
		return subcommands.ExitSuccess
	})
}

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list investments as entered" }
func (*listCmd) Usage() string {
	return `list

  Lists the investments with their entry price and total amount, without market prices.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		printMarkdown(renderer.RenderHoldings(renderer.NewHoldingList(a.store.Holdings())))
		return subcommands.ExitSuccess
	})
}
