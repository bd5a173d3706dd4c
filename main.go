package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"QuantResearch/config"
	"QuantResearch/internal/handlers"
	"QuantResearch/internal/models"
	"QuantResearch/internal/operations/binance"
	"QuantResearch/internal/operations/price"
	"QuantResearch/internal/repositories"
	"QuantResearch/internal/services/strategy"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred cleanup runs before os.Exit
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		return 1
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to build logger:", err)
		return 1
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("backtest run failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	var db *gorm.DB
	if cfg.Backtest.NeedsDatabase() {
		var err error
		db, err = setupDatabase(cfg.Database)
		if err != nil {
			return err
		}
	}

	provider, err := newProvider(cfg, db, log)
	if err != nil {
		return err
	}

	manager, err := strategy.NewManagerForSet(cfg.Backtest.Strategies)
	if err != nil {
		return err
	}

	var store handlers.ResultStore
	if cfg.Backtest.PersistResults {
		store = repositories.NewBacktestResultRepository(db)
	}

	handler := handlers.NewBacktestHandler(
		provider,
		manager,
		store,
		log,
		cfg.Backtest.MaxWorkers,
	)

	start, end := price.DateRange(time.Now(), cfg.Backtest.Days)
	log.Info("running backtest",
		zap.Strings("symbols", cfg.Backtest.Symbols),
		zap.String("source", cfg.Backtest.PriceSource),
		zap.Strings("strategies", manager.List()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	report, err := handler.RunBatch(ctx, cfg.Backtest.Symbols, start, end)
	if report != nil {
		fmt.Println("\n=== Backtest Results ===")
		if werr := handlers.WriteTable(os.Stdout, report); werr != nil {
			log.Warn("failed to print results", zap.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	log.Info("backtest finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("tickers", len(report.Tickers)),
		zap.Int("failures", len(report.Failures)),
		zap.Int("persisted", report.Persisted),
	)
	return nil
}

func newProvider(cfg *config.Config, db *gorm.DB, log *zap.Logger) (price.Provider, error) {
	archive := price.NewArchive(cfg.Backtest.ArchiveDir)

	// upstream fetches are mirrored into the archive when recording is on
	var upstream price.Source = price.NewBinanceProvider(
		binance.NewBinanceClient(cfg.Exchange.APIKey, cfg.Exchange.SecretKey),
		log,
	)
	if cfg.Backtest.ArchiveRecord {
		upstream = price.NewArchiveRecorder(upstream, archive, log)
	}

	switch cfg.Backtest.PriceSource {
	case config.SourceBinance:
		return upstream, nil
	case config.SourceArchive:
		return archive, nil
	case config.SourceDatabase:
		return price.NewCachedProvider(repositories.NewPriceRepository(db), upstream, log), nil
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.Backtest.PriceSource)
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func setupDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate database schemas
	if err := db.AutoMigrate(&models.Price{}, &models.BacktestResult{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
