package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"QuantResearch/internal/services/strategy"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with explicit env files. Missing files are skipped.
func LoadFrom(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	cfg.Backtest.Symbols = normalizeSymbols(cfg.Backtest.Symbols)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Backtest.Symbols) == 0 {
		return errors.New("TRADING_SYMBOLS must name at least one symbol")
	}
	if c.Backtest.Days < 2 {
		return fmt.Errorf("BACKTEST_DAYS must be at least 2, got %d", c.Backtest.Days)
	}
	if c.Backtest.MaxWorkers < 1 {
		return fmt.Errorf("BACKTEST_MAX_WORKERS must be positive, got %d", c.Backtest.MaxWorkers)
	}

	switch c.Backtest.PriceSource {
	case SourceBinance, SourceArchive, SourceDatabase:
	default:
		return fmt.Errorf("unknown PRICE_SOURCE %q", c.Backtest.PriceSource)
	}

	switch c.Backtest.Strategies {
	case strategy.SetDefault, strategy.SetExtended:
	default:
		return fmt.Errorf("BACKTEST_STRATEGIES must be %s or %s, got %q",
			strategy.SetDefault, strategy.SetExtended, c.Backtest.Strategies)
	}
	if c.Backtest.ArchiveRecord && c.Backtest.PriceSource == SourceArchive {
		return errors.New("ARCHIVE_RECORD needs a PRICE_SOURCE other than archive")
	}

	if c.Backtest.NeedsDatabase() && (c.Database.Host == "" || c.Database.DBName == "") {
		return errors.New("DB_HOST and DB_NAME are required when results are persisted or prices come from the database")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// helper to clean symbols
func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
