package strategy

import (
	"math"

	"QuantResearch/internal/services/indicators"
	"QuantResearch/internal/services/series"
)

type RSIParams struct {
	Window     int
	Overbought float64
	Oversold   float64
}

func DefaultRSIParams() RSIParams {
	return RSIParams{Window: 14, Overbought: 70, Oversold: 30}
}

// RSIStrategy fades extremes: short above overbought, long below oversold.
// A window with no losses reads 100 and a window with no movement reads 50.
type RSIStrategy struct {
	params RSIParams
	rsi    *indicators.RSIService
}

func NewRSIStrategy(params RSIParams) (*RSIStrategy, error) {
	if params.Window <= 0 {
		return nil, &ParamError{Strategy: NameRSI, Param: "window", Reason: "must be > 0"}
	}
	if params.Oversold >= params.Overbought {
		return nil, &ParamError{Strategy: NameRSI, Param: "oversold", Reason: "must be below overbought"}
	}
	return &RSIStrategy{
		params: params,
		rsi:    indicators.NewRSIService(),
	}, nil
}

func (s *RSIStrategy) Name() string { return NameRSI }

// WarmUp counts the extra period consumed by the first price delta
func (s *RSIStrategy) WarmUp() int { return s.params.Window + 1 }

func (s *RSIStrategy) Generate(ps *series.PriceSeries) Signals {
	values := s.Values(ps)

	signals := make(Signals, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			signals[i] = Flat
		case v > s.params.Overbought:
			signals[i] = Short
		case v < s.params.Oversold:
			signals[i] = Long
		default:
			signals[i] = Flat
		}
	}
	return signals
}

// Values exposes the RSI line behind the signals
func (s *RSIStrategy) Values(ps *series.PriceSeries) []float64 {
	return s.rsi.Calculate(ps.Prices(), s.params.Window).RSI
}
