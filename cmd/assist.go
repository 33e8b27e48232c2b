package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/goalfolio/advisor"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with the AI assistant about your investments and goals" }
func (*assistCmd) Usage() string {
	return `assist [<question>]

  Starts an interactive session with the AI assistant, type 'bye' to exit.
  The assistant reads the portfolio and the goals, it never changes them.

  Requires a Gemini API key in GOOGLE_API_KEY or GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	return withApp(func(a *app) subcommands.ExitStatus {
		src, err := a.prices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring prices: %v\n", err)
			return subcommands.ExitFailure
		}

		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
			return subcommands.ExitFailure
		}

		model := a.cfg.Advisor.Model
		agent := advisor.New(os.Stdout, os.Stdin, model,
			advisor.NewPlanner(model, a.store, src),
			advisor.NewTrader(model),
		)
		agent.Print = func(_ io.Writer, answer string) { printMarkdown(answer) }

		if err := agent.Run(ctx, client, prompts...); err != nil {
			fmt.Fprintln(os.Stderr, "Error: assistant failed:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Successfully closed the session")
		return subcommands.ExitSuccess
	})
}
