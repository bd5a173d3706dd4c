package risk

import (
	"errors"
	"fmt"
)

const (
	TradingPeriods = 252  // periods per year used to annualize
	DefaultAlpha   = 0.05 // tail probability for VaR and expected shortfall
)

// ErrDegenerateMetric marks a metric whose denominator is structurally zero.
// Functions returning it also return math.NaN() as the value.
var ErrDegenerateMetric = errors.New("metric is undefined for this input")

type DegenerateMetricError struct {
	Metric string
	Reason string
}

func (e *DegenerateMetricError) Error() string {
	return fmt.Sprintf("%s undefined: %s", e.Metric, e.Reason)
}

func (e *DegenerateMetricError) Unwrap() error {
	return ErrDegenerateMetric
}

// ParameterError rejects an out-of-range argument
type ParameterError struct {
	Param string
	Value float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Param, e.Value)
}

// Metrics is the reporting subset derived from a curve and its returns
type Metrics struct {
	FinalEquity    float64
	TotalReturnPct float64
	WinRatePct     float64
	NumTrades      int
}

// MetricsBundle holds every scalar metric of one backtest. Undefined values
// are NaN.
type MetricsBundle struct {
	SharpeRatio       float64
	MaxDrawdown       float64 // positive fraction of the peak
	FinalEquity       float64
	TotalReturnPct    float64
	WinRatePct        float64
	NumTrades         int
	ValueAtRisk       float64
	ExpectedShortfall float64
}
