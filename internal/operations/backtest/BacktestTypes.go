package backtest

import (
	"errors"
	"fmt"
	"time"
)

// InitialEquity seeds every equity curve before its first period
const InitialEquity = 1.0

// ErrInsufficientData is returned when a series is shorter than a
// strategy's warm-up window
var ErrInsufficientData = errors.New("insufficient data")

// For tracking equity changes
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// Result is the per-period output of one evaluation. Both slices have the
// length of the evaluated series.
type Result struct {
	EquityCurve     []float64
	StrategyReturns []float64
	Timestamps      []time.Time // empty when evaluated from raw returns
}

func (r *Result) Len() int {
	return len(r.EquityCurve)
}

func (r *Result) FinalEquity() float64 {
	if len(r.EquityCurve) == 0 {
		return InitialEquity
	}
	return r.EquityCurve[len(r.EquityCurve)-1]
}

// Points pairs the equity curve with its timestamps
func (r *Result) Points() []EquityPoint {
	if len(r.Timestamps) != len(r.EquityCurve) {
		return nil
	}

	points := make([]EquityPoint, len(r.EquityCurve))
	for i, e := range r.EquityCurve {
		points[i] = EquityPoint{Timestamp: r.Timestamps[i], Equity: e}
	}
	return points
}

// StrategyResult is a successful runner slot
type StrategyResult struct {
	Result
	Sharpe      float64 // NaN when undefined
	MaxDrawdown float64
}

// Outcome is either a StrategyResult or the error that stopped the strategy
type Outcome struct {
	Strategy string
	Result   *StrategyResult
	Err      error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Result != nil
}

type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid backtest input: " + e.Reason
}

type InsufficientDataError struct {
	Strategy  string
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs %d periods, series has %d", e.Strategy, e.Required, e.Available)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// StrategyEvaluationError isolates one strategy's failure inside a batch
type StrategyEvaluationError struct {
	Strategy string
	Err      error
}

func (e *StrategyEvaluationError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Err)
}

func (e *StrategyEvaluationError) Unwrap() error {
	return e.Err
}
