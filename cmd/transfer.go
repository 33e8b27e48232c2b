package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/google/subcommands"
)

// File formats, chosen by extension.
const (
	formatCSV      = ".csv"  // holdings, or goals with -goals
	formatText     = ".txt"  // sectioned holdings and goals
	formatWorkbook = ".xlsx" // one sheet each
)

func fileFormat(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case formatCSV, formatText, formatWorkbook:
		return ext, nil
	}
	return "", fmt.Errorf("unsupported file %q, want a %s, %s or %s file", name, formatCSV, formatText, formatWorkbook)
}

type exportCmd struct {
	goals bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export investments and goals to a file" }
func (*exportCmd) Usage() string {
	return `export [-goals] <file>

  Writes a file that 'gf import' reads back. The format depends on the extension:
  - .csv:  investments, or goals with -goals.
  - .txt:  investments and goals, each in a section.
  - .xlsx: investments and goals, each in a sheet.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.goals, "goals", false, "Export goals instead of investments (.csv only)")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	format, err := fileFormat(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		holdings, goals := a.store.Holdings(), a.store.Goals()
		what := count(orEmpty(holdings), orEmpty(goals))
		var buf bytes.Buffer
		var err error
		switch {
		case format == formatCSV && c.goals:
			err, what = goalfolio.ExportGoals(&buf, goals), count(nil, orEmpty(goals))
		case format == formatCSV:
			err, what = goalfolio.ExportHoldings(&buf, holdings), count(orEmpty(holdings), nil)
		case format == formatText:
			err = goalfolio.ExportAll(&buf, holdings, goals)
		default:
			err = goalfolio.ExportWorkbook(&buf, holdings, goals)
		}
		if err == nil {
			err = os.WriteFile(name, buf.Bytes(), 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting to %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Successfully exported %s to %s\n", what, name)
		return subcommands.ExitSuccess
	})
}

type importCmd struct {
	goals    bool
	mode     string
	validate bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import investments and goals from a file" }
func (*importCmd) Usage() string {
	return `import [-goals] [-mode merge|replace] [-validate] <file>

  Reads a file in any format written by 'gf export'. Nothing is imported if
  any row is invalid, the error names the row and the column.

  -mode merge keeps the existing records and skips incoming ones with a known name.
  -mode replace discards the existing records of the imported kind.
  -validate checks the file without importing it.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.goals, "goals", false, "The .csv file contains goals")
	f.StringVar(&c.mode, "mode", "merge", "How to combine with existing records: merge or replace")
	f.BoolVar(&c.validate, "validate", false, "Only check the file")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	format, err := fileFormat(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	mode, err := goalfolio.ParseImportMode(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	file, err := os.Open(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", name, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	return withApp(func(a *app) subcommands.ExitStatus {
		holdings, goals, err := c.read(file, format, a.store.Currency())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		if c.validate {
			fmt.Printf("Successfully validated %s: %s\n", name, count(holdings, goals))
			return subcommands.ExitSuccess
		}

		var skipped int
		if holdings != nil {
			skipped += a.store.ImportHoldings(holdings, mode)
		}
		if goals != nil {
			skipped += a.store.ImportGoals(goals, mode)
		}
		if status := a.save(); status != subcommands.ExitSuccess {
			return status
		}
		a.log.Info().Str("file", name).Stringer("mode", mode).Int("skipped", skipped).Msg("imported")
		fmt.Printf("Successfully imported %s from %s (%s)", count(holdings, goals), name, mode)
		if skipped > 0 {
			fmt.Printf(", skipped %d duplicate(s)", skipped)
		}
		fmt.Println()
		return subcommands.ExitSuccess
	})
}

// read parses r, a nil list means the file does not carry that kind.
func (c *importCmd) read(r io.Reader, format, currency string) ([]goalfolio.Holding, []goalfolio.Goal, error) {
	on := date.Today()
	switch {
	case format == formatCSV && c.goals:
		goals, err := goalfolio.ImportGoals(r, currency, on)
		return nil, goals, err
	case format == formatCSV:
		holdings, err := goalfolio.ImportHoldings(r, currency, on)
		return holdings, nil, err
	case format == formatText:
		return goalfolio.ImportAll(r, currency, on)
	}
	return goalfolio.ImportWorkbook(r, currency, on)
}

// orEmpty lists the records to export, a kind is always exported even without records.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func count(holdings []goalfolio.Holding, goals []goalfolio.Goal) string {
	var parts []string
	if holdings != nil {
		parts = append(parts, fmt.Sprintf("%d investment(s)", len(holdings)))
	}
	if goals != nil {
		parts = append(parts, fmt.Sprintf("%d goal(s)", len(goals)))
	}
	return strings.Join(parts, " and ")
}

type sampleCmd struct{}

func (*sampleCmd) Name() string     { return "sample" }
func (*sampleCmd) Synopsis() string { return "write a sample investments file" }
func (*sampleCmd) Usage() string {
	return `sample [<file>]

  Writes a sample investments CSV file to start from, on the standard output
  when no file is given.
`
}

func (c *sampleCmd) SetFlags(f *flag.FlagSet) {}

func (c *sampleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch f.NArg() {
	case 0:
		fmt.Print(goalfolio.SampleHoldingsCSV)
		return subcommands.ExitSuccess
	case 1:
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	if err := os.WriteFile(name, []byte(goalfolio.SampleHoldingsCSV), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing sample: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully wrote sample investments to %s\n", name)
	return subcommands.ExitSuccess
}
