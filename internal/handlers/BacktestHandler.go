package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"QuantResearch/internal/models"
	"QuantResearch/internal/operations/backtest"
	"QuantResearch/internal/operations/price"
	"QuantResearch/internal/services/risk"
	"QuantResearch/internal/services/strategy"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxWorkers = 4

// ResultStore persists the records of a batch. BacktestResultRepository
// satisfies it.
type ResultStore interface {
	CreateBatch(ctx context.Context, results []models.BacktestResult) error
}

type BacktestHandler struct {
	provider   price.Provider
	manager    *strategy.StrategyManager
	store      ResultStore
	logger     *zap.Logger
	maxWorkers int
	alpha      float64
}

// NewBacktestHandler wires the handler. A nil store makes every batch a dry
// run and a nil manager falls back to the default strategies.
func NewBacktestHandler(
	provider price.Provider,
	manager *strategy.StrategyManager,
	store ResultStore,
	logger *zap.Logger,
	maxWorkers int,
) *BacktestHandler {
	if manager == nil {
		manager = strategy.NewDefaultManager()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	return &BacktestHandler{
		provider:   provider,
		manager:    manager,
		store:      store,
		logger:     logger,
		maxWorkers: maxWorkers,
		alpha:      risk.DefaultAlpha,
	}
}

// StrategyReport is one strategy's line in a ticker report
type StrategyReport struct {
	Strategy string
	Metrics  risk.MetricsBundle
	Err      error
}

type TickerReport struct {
	RunID      uuid.UUID
	Ticker     string
	Start      time.Time
	End        time.Time
	Periods    int
	AvgVolume  float64 // mean traded volume per period
	Outcomes   map[string]backtest.Outcome
	Strategies []StrategyReport // in runner order
	Records    []models.BacktestResult
}

type TickerFailure struct {
	Ticker string
	Err    error
}

type BatchReport struct {
	RunID     uuid.UUID
	Tickers   []*TickerReport
	Failures  []TickerFailure
	Persisted int
}

// Records flattens the records of every ticker in input order
func (r *BatchReport) Records() []models.BacktestResult {
	return lo.FlatMap(r.Tickers, func(t *TickerReport, _ int) []models.BacktestResult {
		return t.Records
	})
}

// RunTicker evaluates every registered strategy on one ticker. Nothing is
// persisted.
func (h *BacktestHandler) RunTicker(ctx context.Context, ticker string, start, end time.Time) (*TickerReport, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	return h.runTicker(ctx, uuid.New(), ticker, start, end)
}

// RunBatch evaluates tickers concurrently. A ticker that fails is listed in
// Failures and does not stop the others. Records of the successful tickers
// are stored in one call when a store is configured.
func (h *BacktestHandler) RunBatch(ctx context.Context, tickers []string, start, end time.Time) (*BatchReport, error) {
	tickers = lo.Uniq(lo.Compact(tickers))
	if len(tickers) == 0 {
		return nil, errors.New("no tickers to backtest")
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	runID := uuid.New()
	reports := make([]*TickerReport, len(tickers))
	failures := make([]error, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.maxWorkers)

	for i, ticker := range tickers {
		g.Go(func() error {
			report, err := h.runTicker(gctx, runID, ticker, start, end)
			if err != nil {
				h.logger.Warn("ticker backtest failed", zap.String("ticker", ticker), zap.Error(err))
				failures[i] = err
				return nil
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &BatchReport{RunID: runID}
	for i, ticker := range tickers {
		if failures[i] != nil {
			batch.Failures = append(batch.Failures, TickerFailure{Ticker: ticker, Err: failures[i]})
			continue
		}
		batch.Tickers = append(batch.Tickers, reports[i])
	}

	records := batch.Records()
	if h.store == nil || len(records) == 0 {
		return batch, nil
	}
	if err := h.store.CreateBatch(ctx, records); err != nil {
		return batch, fmt.Errorf("persisting run %s: %w", runID, err)
	}
	batch.Persisted = len(records)

	h.logger.Info("backtest results stored",
		zap.String("run_id", runID.String()),
		zap.Int("records", len(records)),
	)
	return batch, nil
}

func (h *BacktestHandler) runTicker(ctx context.Context, runID uuid.UUID, ticker string, start, end time.Time) (*TickerReport, error) {
	ps, err := h.provider.FetchSeries(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ticker, err)
	}

	runner := backtest.NewRunnerFromManager(h.logger, h.manager)
	outcomes := runner.RunAll(ps)

	report := &TickerReport{
		RunID:     runID,
		Ticker:    ticker,
		Start:     start,
		End:       end,
		Periods:   ps.Len(),
		AvgVolume: lo.Sum(ps.Volumes()) / float64(ps.Len()),
		Outcomes:  outcomes,
	}

	for _, name := range runner.Strategies() {
		outcome := outcomes[name]
		if !outcome.Succeeded() {
			report.Strategies = append(report.Strategies, StrategyReport{Strategy: name, Err: outcome.Err})
			continue
		}

		bundle, err := risk.Bundle(outcome.Result.EquityCurve, outcome.Result.StrategyReturns, h.alpha)
		if err != nil {
			report.Strategies = append(report.Strategies, StrategyReport{Strategy: name, Err: err})
			continue
		}

		report.Strategies = append(report.Strategies, StrategyReport{Strategy: name, Metrics: bundle})
		report.Records = append(report.Records, BuildRecord(runID, ticker, start, end, name, bundle))
	}

	h.logger.Debug("ticker evaluated",
		zap.String("ticker", ticker),
		zap.Int("periods", ps.Len()),
		zap.Float64("avg_volume", report.AvgVolume),
		zap.Int("strategies", len(report.Strategies)),
		zap.Int("failed", len(backtest.Failed(outcomes))),
	)
	return report, nil
}

func validateRange(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("start %s must be before end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return nil
}
