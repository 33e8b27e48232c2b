package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/advisor"
	"github.com/etnz/goalfolio/quote"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is read when present, a missing default file is not an error.
const DefaultConfigFile = "goalfolio.toml"

// Store kinds.
const (
	StoreDir    = "dir"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config is the configuration of gf.
//
// Priority: flags > GOALFOLIO_* environment variables (.env included) > config file > defaults.
type Config struct {
	Store     string        `toml:"store"`      // path of the store
	StoreKind string        `toml:"store_kind"` // dir, bolt or memory
	Currency  string        `toml:"currency"`
	Log       LogConfig     `toml:"log"`
	Prices    PricesConfig  `toml:"prices"`
	Advisor   AdvisorConfig `toml:"advisor"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// PricesConfig configures the market data providers.
type PricesConfig struct {
	Offline  bool   `toml:"offline"`   // no provider, every price is unavailable
	Crypto   string `toml:"crypto"`    // coingecko or binance
	CacheTTL string `toml:"cache_ttl"` // like "5m", "0" disables the cache
	// Base URLs, empty for the public APIs.
	StocksURL string `toml:"stocks_url"`
	CryptoURL string `toml:"crypto_url"`
}

// AdvisorConfig configures the assistant.
type AdvisorConfig struct {
	Model string `toml:"model"`
}

// NewDefaultConfig returns the configuration used without file nor environment.
func NewDefaultConfig() *Config {
	return &Config{
		Store:     ".goalfolio",
		StoreKind: StoreDir,
		Currency:  goalfolio.DefaultCurrency,
		Log:       LogConfig{Level: "warn"},
		Prices: PricesConfig{
			Crypto:   "coingecko",
			CacheTTL: quote.DefaultCacheTTL.String(),
		},
		Advisor: AdvisorConfig{Model: advisor.DefaultModel},
	}
}

// LoadConfig loads the configuration from defaults, the file at 'path' and
// the environment.
//
// An empty path reads [DefaultConfigFile] if it exists.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	optional := path == ""
	if optional {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Load .env file if it exists, it never overrides the actual environment.
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies GOALFOLIO_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) {
	cfg.Store = getEnv("GOALFOLIO_STORE", cfg.Store)
	cfg.StoreKind = getEnv("GOALFOLIO_STORE_KIND", cfg.StoreKind)
	cfg.Currency = getEnv("GOALFOLIO_CURRENCY", cfg.Currency)
	cfg.Log.Level = getEnv("GOALFOLIO_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvAsBool("GOALFOLIO_LOG_PRETTY", cfg.Log.Pretty)
	cfg.Prices.Offline = getEnvAsBool("GOALFOLIO_OFFLINE", cfg.Prices.Offline)
	cfg.Prices.Crypto = getEnv("GOALFOLIO_CRYPTO_PROVIDER", cfg.Prices.Crypto)
	cfg.Prices.CacheTTL = getEnv("GOALFOLIO_CACHE_TTL", cfg.Prices.CacheTTL)
	cfg.Prices.StocksURL = getEnv("GOALFOLIO_STOCKS_URL", cfg.Prices.StocksURL)
	cfg.Prices.CryptoURL = getEnv("GOALFOLIO_CRYPTO_URL", cfg.Prices.CryptoURL)
	cfg.Advisor.Model = getEnv("GOALFOLIO_MODEL", cfg.Advisor.Model)
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.StoreKind {
	case StoreDir, StoreBolt, StoreMemory:
	default:
		return fmt.Errorf("invalid store kind %q, want %s, %s or %s", c.StoreKind, StoreDir, StoreBolt, StoreMemory)
	}
	if c.StoreKind != StoreMemory && strings.TrimSpace(c.Store) == "" {
		return errors.New("store path is required")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("invalid currency %q, want an ISO 4217 code like USD", c.Currency)
	}
	c.Currency = strings.ToUpper(c.Currency)
	if c.Prices.Crypto != "" && !slices.Contains(quote.CryptoProviders, c.Prices.Crypto) {
		return fmt.Errorf("invalid crypto provider %q, want %s", c.Prices.Crypto, strings.Join(quote.CryptoProviders, " or "))
	}
	if _, err := c.cacheTTL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) cacheTTL() (time.Duration, error) {
	if c.Prices.CacheTTL == "" || c.Prices.CacheTTL == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Prices.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.Prices.CacheTTL, err)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
