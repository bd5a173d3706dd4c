package strategy

import (
	"fmt"
	"math"

	"QuantResearch/internal/services/series"
)

// Signal is the position held over the next period
type Signal int

const (
	Short Signal = -1
	Flat  Signal = 0
	Long  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "flat"
	}
}

// Signals is aligned 1:1 with the periods of the series it was generated from
type Signals []Signal

// Float returns the signal as a return multiplier
func (s Signals) Float(i int) float64 {
	return float64(s[i])
}

// Generator maps a price series to a position per period. Positions where the
// underlying indicator is undefined (warm-up, zero denominators) are Flat.
type Generator interface {
	Name() string
	// WarmUp is the minimum number of periods the generator needs
	WarmUp() int
	Generate(ps *series.PriceSeries) Signals
}

// Strategy names used as keys in batch results and persisted records
const (
	NameMovingAverage  = "Moving Average"
	NameRSI            = "RSI"
	NameMACD           = "MACD"
	NameBollingerBands = "Bollinger Bands"
	NameZScore         = "Z-Score"
	NameReturnReversal = "Return Reversal"
)

// ParamError rejects a strategy configuration
type ParamError struct {
	Strategy string
	Param    string
	Reason   string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Strategy, e.Param, e.Reason)
}

// crossSignal compares two indicator lines; a NaN on either side is Flat
func crossSignal(a, b float64) Signal {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return Flat
	case a > b:
		return Long
	case a < b:
		return Short
	}
	return Flat
}
