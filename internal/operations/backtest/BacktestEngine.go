package backtest

import (
	"fmt"

	"QuantResearch/internal/services/series"
	"QuantResearch/internal/services/strategy"
)

// Engine turns a signal sequence into strategy returns and an equity curve.
// It holds no state and is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate applies each signal to the next period's return. The position
// decided at i-1 earns returns[i]; period 0 earns nothing.
func (e *Engine) Evaluate(returns []float64, signals strategy.Signals) (*Result, error) {
	if len(returns) == 0 {
		return nil, &InputError{Reason: "empty return series"}
	}
	if len(signals) != len(returns) {
		return nil, &InputError{
			Reason: fmt.Sprintf("%d signals for %d periods", len(signals), len(returns)),
		}
	}

	strategyReturns := make([]float64, len(returns))
	equityCurve := make([]float64, len(returns))

	equity := InitialEquity
	for i := range returns {
		if i > 0 {
			strategyReturns[i] = signals.Float(i-1) * returns[i]
		}
		equity *= 1 + strategyReturns[i]
		equityCurve[i] = equity
	}

	return &Result{
		EquityCurve:     equityCurve,
		StrategyReturns: strategyReturns,
	}, nil
}

// Run generates signals for ps with g and evaluates them. The series must
// cover the warm-up plus one period, otherwise the first defined signal would
// never earn a return. Shorter series are rejected before any signal is
// produced.
func (e *Engine) Run(ps *series.PriceSeries, g strategy.Generator) (*Result, error) {
	if required := MinPeriods(g); ps.Len() < required {
		return nil, &InsufficientDataError{
			Strategy:  g.Name(),
			Required:  required,
			Available: ps.Len(),
		}
	}

	result, err := e.Evaluate(ps.Returns(), g.Generate(ps))
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", g.Name(), err)
	}
	result.Timestamps = ps.Timestamps()
	return result, nil
}

// MinPeriods is the shortest series Run accepts for g
func MinPeriods(g strategy.Generator) int {
	return g.WarmUp() + 1
}

// EvaluateSingle evaluates an externally produced signal sequence on ps
func EvaluateSingle(ps *series.PriceSeries, signals strategy.Signals) (*Result, error) {
	result, err := NewEngine().Evaluate(ps.Returns(), signals)
	if err != nil {
		return nil, err
	}
	result.Timestamps = ps.Timestamps()
	return result, nil
}
