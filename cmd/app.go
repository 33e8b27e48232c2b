// Package cmd implements the gf command line application to manage holdings and goals.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/kv"
	"github.com/etnz/goalfolio/logger"
	"github.com/etnz/goalfolio/quote"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type group struct {
	name     string
	commands []subcommands.Command
}

// groups lists the subcommands in help order.
var groups = []group{
	{"investments", []subcommands.Command{&addCmd{}, &editCmd{}, &removeCmd{}, &listCmd{}}},
	{"analysis", []subcommands.Command{&metricsCmd{}, &performanceCmd{}}},
	{"goals", []subcommands.Command{&goalAddCmd{}, &goalEditCmd{}, &goalRemoveCmd{}, &goalsCmd{}, &templatesCmd{}}},
	{"files", []subcommands.Command{&exportCmd{}, &importCmd{}, &sampleCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}, &assistCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// Commands returns every subcommand.
func Commands() []subcommands.Command {
	var all []subcommands.Command
	for _, g := range groups {
		all = append(all, g.commands...)
	}
	return all
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the TOML configuration file (default "+DefaultConfigFile+" when present)")
	storePath  = flag.String("store", "", "Path to the store, overrides the configuration")
	storeKind  = flag.String("store-kind", "", "Store kind: dir, bolt or memory, overrides the configuration")
	verbose    = flag.Bool("v", false, "Log debug messages")
	offline    = flag.Bool("offline", false, "Do not fetch market prices")
	crypto     = flag.String("crypto", "", "Cryptocurrency price provider: "+strings.Join(quote.CryptoProviders, " or "))
)

// app is what commands share: configuration, logger and the open store.
type app struct {
	cfg   *Config
	log   zerolog.Logger
	store *goalfolio.Store
	close func() error
}

// openApp loads the configuration and the store.
func openApp() (*app, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *storePath != "" {
		cfg.Store = *storePath
	}
	if *storeKind != "" {
		cfg.StoreKind = *storeKind
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *offline {
		cfg.Prices.Offline = true
	}
	if *crypto != "" {
		cfg.Prices.Crypto = *crypto
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	blobs, closer, err := openBlobs(cfg)
	if err != nil {
		return nil, err
	}
	store := goalfolio.NewStore(blobs, goalfolio.WithCurrency(cfg.Currency), goalfolio.WithLogger(log))
	if err := store.Load(); err != nil {
		closer()
		return nil, fmt.Errorf("cannot load store %q: %w", cfg.Store, err)
	}
	log.Debug().Str("store", cfg.Store).Str("kind", cfg.StoreKind).
		Int("holdings", len(store.Holdings())).Int("goals", len(store.Goals())).Msg("store loaded")
	return &app{cfg: cfg, log: log, store: store, close: closer}, nil
}

func openBlobs(cfg *Config) (goalfolio.BlobStore, func() error, error) {
	nop := func() error { return nil }
	switch cfg.StoreKind {
	case StoreMemory:
		return kv.NewMemory(), nop, nil
	case StoreBolt:
		if dir := filepath.Dir(cfg.Store); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("cannot create store directory: %w", err)
			}
		}
		db, err := kv.OpenBolt(cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
	d, err := kv.OpenDir(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return d, nop, nil
}

// Close releases the store.
func (a *app) Close() {
	if err := a.close(); err != nil {
		a.log.Warn().Err(err).Msg("cannot close store")
	}
}

// save persists the store, it must be called after a successful mutation.
func (a *app) save() subcommands.ExitStatus {
	if err := a.store.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving store %q: %v\n", a.cfg.Store, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// prices returns the price source configured for this app.
func (a *app) prices() (goalfolio.PriceSource, error) {
	if a.cfg.Prices.Offline {
		return goalfolio.NoPrices{}, nil
	}
	ttl, err := a.cfg.cacheTTL()
	if err != nil {
		return nil, err
	}
	common := []quote.Option{quote.WithLogger(a.log), quote.WithCacheTTL(ttl)}

	stockOpts := common
	if a.cfg.Prices.StocksURL != "" {
		stockOpts = append(stockOpts[:len(common):len(common)], quote.WithBaseURL(a.cfg.Prices.StocksURL))
	}
	cryptoOpts := common
	if a.cfg.Prices.CryptoURL != "" {
		cryptoOpts = append(cryptoOpts[:len(common):len(common)], quote.WithBaseURL(a.cfg.Prices.CryptoURL))
	}
	coins, err := quote.NewCryptoProvider(a.cfg.Prices.Crypto, cryptoOpts...)
	if err != nil {
		return nil, err
	}
	src, err := quote.NewSource(quote.NewYahoo(stockOpts...), coins, a.cfg.Currency, a.log)
	if err != nil {
		return nil, fmt.Errorf("%w, use offline prices", err)
	}
	return src, nil
}

// withApp opens the app, runs f and closes the app.
func withApp(f func(a *app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return f(a)
}

// printMarkdown renders markdown for the terminal, raw markdown is printed
// when it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
