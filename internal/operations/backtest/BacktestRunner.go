package backtest

import (
	"fmt"

	"QuantResearch/internal/services/risk"
	"QuantResearch/internal/services/series"
	"QuantResearch/internal/services/strategy"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Runner evaluates a fixed list of generators against one series. A failing
// strategy occupies its own slot in the result map and never stops the others.
type Runner struct {
	engine     *Engine
	generators []strategy.Generator
	logger     *zap.Logger
}

// NewRunner uses the default strategies when no generators are given
func NewRunner(logger *zap.Logger, generators ...strategy.Generator) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(generators) == 0 {
		generators = strategy.NewDefaultManager().Generators()
	}

	return &Runner{
		engine:     NewEngine(),
		generators: generators,
		logger:     logger,
	}
}

func NewRunnerFromManager(logger *zap.Logger, m *strategy.StrategyManager) *Runner {
	return NewRunner(logger, m.Generators()...)
}

// Strategies returns the generator names in evaluation order
func (r *Runner) Strategies() []string {
	return lo.Map(r.generators, func(g strategy.Generator, _ int) string {
		return g.Name()
	})
}

func (r *Runner) RunAll(ps *series.PriceSeries) map[string]Outcome {
	outcomes := make(map[string]Outcome, len(r.generators))
	for _, g := range r.generators {
		outcome := r.runOne(ps, g)
		if !outcome.Succeeded() {
			r.logger.Warn("strategy evaluation failed",
				zap.String("symbol", ps.Symbol()),
				zap.String("strategy", g.Name()),
				zap.Error(outcome.Err),
			)
		}
		outcomes[g.Name()] = outcome
	}
	return outcomes
}

func (r *Runner) runOne(ps *series.PriceSeries, g strategy.Generator) (outcome Outcome) {
	name := g.Name()
	outcome.Strategy = name

	defer func() {
		if rec := recover(); rec != nil {
			outcome = Outcome{
				Strategy: name,
				Err:      &StrategyEvaluationError{Strategy: name, Err: fmt.Errorf("panic: %v", rec)},
			}
		}
	}()

	result, err := r.engine.Run(ps, g)
	if err != nil {
		outcome.Err = &StrategyEvaluationError{Strategy: name, Err: err}
		return outcome
	}

	sharpe, _ := risk.SharpeRatio(result.StrategyReturns, 0)
	outcome.Result = &StrategyResult{
		Result:      *result,
		Sharpe:      sharpe,
		MaxDrawdown: risk.MaxDrawdown(result.EquityCurve),
	}
	return outcome
}

// RunAllStrategies runs the four default strategies on ps
func RunAllStrategies(ps *series.PriceSeries) map[string]Outcome {
	return NewRunner(nil).RunAll(ps)
}

// Succeeded keeps the outcomes that produced a result
func Succeeded(outcomes map[string]Outcome) map[string]Outcome {
	return lo.PickBy(outcomes, func(_ string, o Outcome) bool {
		return o.Succeeded()
	})
}

// Failed keeps the outcomes that ended in an error
func Failed(outcomes map[string]Outcome) map[string]Outcome {
	return lo.OmitBy(outcomes, func(_ string, o Outcome) bool {
		return o.Succeeded()
	})
}
