package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"BINANCE_API_KEY", "BINANCE_SECRET_KEY",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"TRADING_SYMBOLS", "BACKTEST_DAYS", "BACKTEST_MAX_WORKERS", "PERSIST_RESULTS",
	"PRICE_SOURCE", "ARCHIVE_DIR", "ARCHIVE_RECORD", "BACKTEST_STRATEGIES", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_NAME", "quant")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Backtest.Symbols)
	assert.Equal(t, 365, cfg.Backtest.Days)
	assert.Equal(t, 4, cfg.Backtest.MaxWorkers)
	assert.True(t, cfg.Backtest.PersistResults)
	assert.Equal(t, SourceBinance, cfg.Backtest.PriceSource)
	assert.Equal(t, "data", cfg.Backtest.ArchiveDir)
	assert.False(t, cfg.Backtest.ArchiveRecord)
	assert.Equal(t, "default", cfg.Backtest.Strategies)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "host=localhost port=5432 user= password= dbname=quant sslmode=disable", cfg.Database.DSN())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "TRADING_SYMBOLS= btcusdt, solusdt ,,\n" +
		"BACKTEST_DAYS=90\n" +
		"PERSIST_RESULTS=false\n" +
		"PRICE_SOURCE=archive\n" +
		"ARCHIVE_DIR=/tmp/prices\n" +
		"LOG_FORMAT=console\n" +
		"LOG_LEVEL=debug\n" +
		"BACKTEST_STRATEGIES=extended\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "SOLUSDT"}, cfg.Backtest.Symbols)
	assert.Equal(t, 90, cfg.Backtest.Days)
	assert.False(t, cfg.Backtest.PersistResults)
	assert.False(t, cfg.Backtest.NeedsDatabase())
	assert.Equal(t, SourceArchive, cfg.Backtest.PriceSource)
	assert.Equal(t, "/tmp/prices", cfg.Backtest.ArchiveDir)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "extended", cfg.Backtest.Strategies)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Host: "localhost", DBName: "quant"},
			Backtest: BacktestConfig{
				Symbols:        []string{"BTCUSDT"},
				Days:           365,
				MaxWorkers:     2,
				PersistResults: true,
				PriceSource:    SourceBinance,
				Strategies:     "default",
			},
			Log: LogConfig{Level: "info", Format: "json"},
		}
	}
	require.NoError(t, func() error { c := valid(); return c.Validate() }())

	cases := map[string]func(*Config){
		"no symbols":     func(c *Config) { c.Backtest.Symbols = nil },
		"too few days":   func(c *Config) { c.Backtest.Days = 1 },
		"no workers":     func(c *Config) { c.Backtest.MaxWorkers = 0 },
		"unknown source": func(c *Config) { c.Backtest.PriceSource = "yahoo" },
		"missing db":     func(c *Config) { c.Database.DBName = "" },
		"bad level":      func(c *Config) { c.Log.Level = "loud" },
		"bad format":     func(c *Config) { c.Log.Format = "xml" },
		"unknown set":    func(c *Config) { c.Backtest.Strategies = "all" },
		"record archive": func(c *Config) {
			c.Backtest.PriceSource = SourceArchive
			c.Backtest.ArchiveRecord = true
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
