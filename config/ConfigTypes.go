package config

import "fmt"

const (
	SourceBinance  = "binance"
	SourceArchive  = "archive"
	SourceDatabase = "database"
)

type Config struct {
	Exchange ExchangeConfig
	Database DatabaseConfig
	Backtest BacktestConfig
	Log      LogConfig
}

type ExchangeConfig struct {
	APIKey    string `envconfig:"BINANCE_API_KEY"`
	SecretKey string `envconfig:"BINANCE_SECRET_KEY"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// DSN builds the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type BacktestConfig struct {
	Symbols        []string `envconfig:"TRADING_SYMBOLS" default:"BTCUSDT,ETHUSDT"`
	Days           int      `envconfig:"BACKTEST_DAYS" default:"365"`
	MaxWorkers     int      `envconfig:"BACKTEST_MAX_WORKERS" default:"4"`
	PersistResults bool     `envconfig:"PERSIST_RESULTS" default:"true"`
	PriceSource    string   `envconfig:"PRICE_SOURCE" default:"binance"`
	ArchiveDir     string   `envconfig:"ARCHIVE_DIR" default:"data"`
	ArchiveRecord  bool     `envconfig:"ARCHIVE_RECORD" default:"false"`
	Strategies     string   `envconfig:"BACKTEST_STRATEGIES" default:"default"`
}

// NeedsDatabase reports whether the run opens a postgres connection
func (b BacktestConfig) NeedsDatabase() bool {
	return b.PersistResults || b.PriceSource == SourceDatabase
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}
