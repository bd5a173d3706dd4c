package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// SharpeRatio annualizes (mean - riskFree) / sample std by sqrt(252)
func SharpeRatio(returns []float64, riskFree float64) (float64, error) {
	if len(returns) < 2 {
		return math.NaN(), &DegenerateMetricError{Metric: "sharpe ratio", Reason: "fewer than two returns"}
	}

	avg := average(returns)
	stdDev := standardDeviation(returns, avg)
	if stdDev == 0 {
		return math.NaN(), &DegenerateMetricError{Metric: "sharpe ratio", Reason: "zero volatility"}
	}

	return (avg - riskFree) / stdDev * math.Sqrt(TradingPeriods), nil
}

// MaxDrawdown is the largest (peak - equity) / peak over the curve, as a
// positive fraction. A non-decreasing or empty curve gives 0.
func MaxDrawdown(equity []float64) float64 {
	maxDrawdown := 0.0
	peak := math.Inf(-1)
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - e) / peak
		maxDrawdown = math.Max(maxDrawdown, drawdown)
	}
	return maxDrawdown
}

// ValueAtRisk is the alpha-quantile of returns, interpolating linearly
// between order statistics
func ValueAtRisk(returns []float64, alpha float64) (float64, error) {
	if alpha <= 0 || alpha >= 1 || math.IsNaN(alpha) {
		return math.NaN(), &ParameterError{Param: "alpha", Value: alpha}
	}
	if len(returns) == 0 {
		return math.NaN(), &DegenerateMetricError{Metric: "value at risk", Reason: "no returns"}
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	rank := alpha * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}

// ExpectedShortfall averages the returns at or below the VaR threshold
func ExpectedShortfall(returns []float64, alpha float64) (float64, error) {
	threshold, err := ValueAtRisk(returns, alpha)
	if err != nil {
		return math.NaN(), err
	}

	sum := 0.0
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}
	if count == 0 {
		return math.NaN(), &DegenerateMetricError{Metric: "expected shortfall", Reason: "empty tail"}
	}
	return sum / float64(count), nil
}

// NumTrades counts periods with a nonzero strategy return
func NumTrades(returns []float64) int {
	trades := 0
	for _, r := range returns {
		if r != 0 {
			trades++
		}
	}
	return trades
}

// WinRate is the percentage of trades with a positive return, 0 without trades
func WinRate(returns []float64) float64 {
	trades := NumTrades(returns)
	if trades == 0 {
		return 0
	}

	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(trades) * 100
}

func TotalReturnPct(finalEquity float64) float64 {
	return (finalEquity - 1) * 100
}

// ComputeMetrics derives the reporting metrics of one backtest
func ComputeMetrics(equityCurve, strategyReturns []float64) (Metrics, error) {
	if len(equityCurve) == 0 {
		return Metrics{}, errors.New("equity curve is empty")
	}
	if len(equityCurve) != len(strategyReturns) {
		return Metrics{}, fmt.Errorf("equity curve has %d periods, returns have %d",
			len(equityCurve), len(strategyReturns))
	}

	finalEquity := equityCurve[len(equityCurve)-1]
	return Metrics{
		FinalEquity:    finalEquity,
		TotalReturnPct: TotalReturnPct(finalEquity),
		WinRatePct:     WinRate(strategyReturns),
		NumTrades:      NumTrades(strategyReturns),
	}, nil
}

// Bundle computes every metric, leaving NaN where a metric is degenerate.
// Only empty or misaligned input is an error.
func Bundle(equityCurve, strategyReturns []float64, alpha float64) (MetricsBundle, error) {
	m, err := ComputeMetrics(equityCurve, strategyReturns)
	if err != nil {
		return MetricsBundle{}, err
	}

	sharpe, _ := SharpeRatio(strategyReturns, 0)
	valueAtRisk, err := ValueAtRisk(strategyReturns, alpha)
	var perr *ParameterError
	if errors.As(err, &perr) {
		return MetricsBundle{}, err
	}
	shortfall, _ := ExpectedShortfall(strategyReturns, alpha)

	return MetricsBundle{
		SharpeRatio:       sharpe,
		MaxDrawdown:       MaxDrawdown(equityCurve),
		FinalEquity:       m.FinalEquity,
		TotalReturnPct:    m.TotalReturnPct,
		WinRatePct:        m.WinRatePct,
		NumTrades:         m.NumTrades,
		ValueAtRisk:       valueAtRisk,
		ExpectedShortfall: shortfall,
	}, nil
}

// IsDefined reports whether a metric value is usable
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func standardDeviation(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var variance float64
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}

	variance = variance / float64(len(values)-1)
	return math.Sqrt(variance)
}
