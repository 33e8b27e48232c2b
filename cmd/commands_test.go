package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the global flags to a new store in an empty directory.
func setup(t *testing.T, kind string) string {
	t.Helper()
	dir := chdir(t)
	t.Setenv(date.EnvTestingNow, "2024-07-15")
	old := [...]string{*storePath, *storeKind}
	oldOffline := *offline
	*storePath, *storeKind, *offline = filepath.Join(dir, "store"), kind, true
	t.Cleanup(func() {
		*storePath, *storeKind, *offline = old[0], old[1], oldOffline
	})
	return dir
}

// run executes c as if called with 'args'.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c.Execute(context.Background(), fs)
}

// stored returns the holdings and goals in the store.
func stored(t *testing.T) ([]goalfolio.Holding, []goalfolio.Goal) {
	t.Helper()
	a, err := openApp()
	require.NoError(t, err)
	defer a.Close()
	return a.store.Holdings(), a.store.Goals()
}

func names[T any](records []T, name func(T) string) []string {
	list := []string{}
	for _, r := range records {
		list = append(list, name(r))
	}
	return list
}

func holdingName(h goalfolio.Holding) string { return h.Name }
func goalName(g goalfolio.Goal) string       { return g.Name }

func addSample(t *testing.T) {
	t.Helper()
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-name", "Apple Inc. (AAPL)", "-type", "stocks", "-price", "150", "-shares", "10", "-date", "2024-01-15"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-name", "Bitcoin (BTC)", "-type", "Cryptocurrency", "-price", "45000", "-shares", "0.1", "-risk", "high"))
}

func TestHoldingCommands(t *testing.T) {
	for _, kind := range []string{StoreDir, StoreBolt} {
		t.Run(kind, func(t *testing.T) {
			setup(t, kind)
			addSample(t)

			holdings, _ := stored(t)
			require.Equal(t, []string{"Apple Inc. (AAPL)", "Bitcoin (BTC)"}, names(holdings, holdingName))
			assert.Equal(t, goalfolio.Medium, holdings[0].Risk)
			assert.Equal(t, date.New(2024, 7, 15), holdings[1].DateAdded)
			assert.True(t, holdings[1].Amount.Equal(goalfolio.M(4500, "USD")), "amount = %v", holdings[1].Amount)

			assert.Equal(t, subcommands.ExitSuccess, run(t, &editCmd{}, "-shares", "20", "Apple Inc. (AAPL)"))
			assert.Equal(t, subcommands.ExitSuccess, run(t, &listCmd{}))
			assert.Equal(t, subcommands.ExitSuccess, run(t, &removeCmd{}, holdings[1].ID.String()[:8]))

			holdings, _ = stored(t)
			require.Len(t, holdings, 1)
			assert.True(t, holdings[0].Amount.Equal(goalfolio.M(3000, "USD")), "amount = %v", holdings[0].Amount)
		})
	}
}

func TestHoldingCommands_Errors(t *testing.T) {
	setup(t, StoreDir)
	addSample(t)

	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"add missing shares", &addCmd{}, []string{"-name", "X", "-type", "Stocks", "-price", "1"}, subcommands.ExitUsageError},
		{"add bad type", &addCmd{}, []string{"-name", "X", "-type", "Gold", "-price", "1", "-shares", "1"}, subcommands.ExitUsageError},
		{"add bad date", &addCmd{}, []string{"-name", "X", "-type", "Stocks", "-price", "1", "-shares", "1", "-date", "yesterday"}, subcommands.ExitUsageError},
		{"add negative price", &addCmd{}, []string{"-name", "X", "-type", "Stocks", "-price", "-1", "-shares", "1"}, subcommands.ExitFailure},
		{"edit nothing", &editCmd{}, []string{"Bitcoin (BTC)"}, subcommands.ExitUsageError},
		{"edit unknown", &editCmd{}, []string{"-shares", "1", "Tesla"}, subcommands.ExitFailure},
		{"remove unknown", &removeCmd{}, []string{"Bitcoin (BTC)", "Tesla"}, subcommands.ExitFailure},
		{"remove nothing", &removeCmd{}, nil, subcommands.ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.cmd, tt.args...))
		})
	}

	// failed commands leave the store untouched
	holdings, _ := stored(t)
	assert.Equal(t, []string{"Apple Inc. (AAPL)", "Bitcoin (BTC)"}, names(holdings, holdingName))
}

func TestGoalCommands(t *testing.T) {
	setup(t, StoreDir)
	addSample(t)

	require.Equal(t, subcommands.ExitSuccess, run(t, &goalAddCmd{}, "-template", "emergency fund", "-target", "10000"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &goalAddCmd{},
		"-name", "Tech", "-target", "5000", "-date", "2026-01-01", "-types", "Stocks, Cryptocurrency", "-risks", "Medium", "-description", "Growth"))

	_, goals := stored(t)
	require.Equal(t, []string{"Emergency Fund", "Tech"}, names(goals, goalName))
	assert.True(t, goals[0].TargetAmount.Equal(goalfolio.M(10000, "USD")))
	assert.Equal(t, date.New(2026, 7, 15), goals[0].TargetDate)
	assert.Equal(t, []goalfolio.AssetClass{goalfolio.Bonds}, goals[0].Filter.Classes)
	assert.Equal(t, []goalfolio.RiskLevel{goalfolio.Medium}, goals[1].Filter.Risks)
	assert.Equal(t, "Growth", goals[1].Description)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &goalEditCmd{}, "-risks", "", "-active", "false", "Tech"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &goalsCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &templatesCmd{}))

	_, goals = stored(t)
	assert.False(t, goals[1].Active)
	assert.Empty(t, goals[1].Filter.Risks)
	assert.Len(t, goals[1].Filter.Classes, 2)

	assert.Equal(t, subcommands.ExitUsageError, run(t, &goalAddCmd{}, "-name", "Incomplete"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &goalAddCmd{}, "-template", "Yacht"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &goalEditCmd{}, "-active", "maybe", "Tech"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &goalEditCmd{}, "-target", "0", "Tech"))

	assert.Equal(t, subcommands.ExitSuccess, run(t, &goalRemoveCmd{}, "Emergency Fund", "Tech"))
	_, goals = stored(t)
	assert.Empty(t, goals)
}

func TestReportCommands(t *testing.T) {
	setup(t, StoreDir)
	addSample(t)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &metricsCmd{}, "-analytics"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &performanceCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}))
	assert.Equal(t, subcommands.ExitFailure, run(t, &topicCmd{}, "no-such-topic"))
}

func TestReportCommands_ForeignCurrency(t *testing.T) {
	setup(t, StoreDir)
	t.Setenv("GOALFOLIO_CURRENCY", "EUR")
	addSample(t)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &metricsCmd{}), "offline valuation needs no conversion")

	*offline = false
	assert.Equal(t, subcommands.ExitFailure, run(t, &metricsCmd{}), "USD market prices for EUR holdings")
	assert.Equal(t, subcommands.ExitFailure, run(t, &performanceCmd{}))
}

func TestExportImport(t *testing.T) {
	dir := setup(t, StoreDir)
	addSample(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &goalAddCmd{}, "-template", "Retirement Fund"))

	for _, name := range []string{"holdings.csv", "all.txt", "all.xlsx"} {
		require.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, name), name)
	}
	require.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, "-goals", "goals.csv"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &exportCmd{}, "all.json"))

	// merging what is already there skips every record
	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "all.txt"))
	holdings, goals := stored(t)
	assert.Len(t, holdings, 2)
	assert.Len(t, goals, 1)

	for _, name := range []string{"all.txt", "all.xlsx"} {
		t.Run(name, func(t *testing.T) {
			*storePath = filepath.Join(dir, "store-"+name)
			require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "-mode", "replace", name))
			got, gotGoals := stored(t)
			require.Len(t, got, 2)
			require.Len(t, gotGoals, 1)
			for i := range holdings {
				assert.True(t, holdings[i].Equal(got[i]), "got %v, want %v", got[i], holdings[i])
			}
			assert.True(t, goals[0].Equal(gotGoals[0]), "got %v, want %v", gotGoals[0], goals[0])
		})
	}

	*storePath = filepath.Join(dir, "store-csv")
	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "holdings.csv"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "-goals", "goals.csv"))
	got, gotGoals := stored(t)
	assert.Equal(t, names(holdings, holdingName), names(got, holdingName))
	assert.Equal(t, names(goals, goalName), names(gotGoals, goalName))
}

func TestImport_ReplaceKeepsMissingKind(t *testing.T) {
	dir := setup(t, StoreDir)
	addSample(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &goalAddCmd{}, "-template", "Retirement Fund"))

	txt := "=== INVESTMENTS ===\n" +
		"Investment Name,Investment Type,Entry Price,Shares/Units,Total Amount,Risk Level,Date Added\n" +
		"Vanguard Total Bond (BND),Bonds,72.50,40,2900.00,Low,2024-03-01\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "investments.txt"), []byte(txt), 0o644))

	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "-mode", "replace", "investments.txt"))
	holdings, goals := stored(t)
	assert.Equal(t, []string{"Vanguard Total Bond (BND)"}, names(holdings, holdingName))
	assert.Equal(t, []string{"Retirement Fund"}, names(goals, goalName))
}

func TestImport_Validate(t *testing.T) {
	dir := setup(t, StoreDir)
	require.Equal(t, subcommands.ExitSuccess, run(t, &sampleCmd{}, "sample.csv"))
	bad := "Investment Name,Investment Type,Entry Price,Shares/Units,Total Amount\nGold,Metals,1,1,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(bad), 0o644))

	assert.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "-validate", "sample.csv"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &importCmd{}, "bad.csv"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &importCmd{}, "missing.csv"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &importCmd{}, "-mode", "append", "sample.csv"))
	holdings, _ := stored(t)
	assert.Empty(t, holdings, "validation and failed imports must not change the store")

	assert.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "sample.csv"))
	holdings, _ = stored(t)
	assert.Len(t, holdings, 2)
}

func TestCompletion(t *testing.T) {
	global := flag.NewFlagSet("gf", flag.ContinueOnError)
	global.String("store-kind", "", "")
	global.Bool("v", false, "")

	c := Completion(global)
	assert.Len(t, c.Sub, len(Commands())+3)
	assert.Contains(t, c.Flags, "store-kind")
	assert.Contains(t, c.Sub["add"].Flags, "type")
	assert.Contains(t, c.Sub["import"].Flags, "mode")
	assert.NotNil(t, c.Sub["export"].Args)
}
