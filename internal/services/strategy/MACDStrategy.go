package strategy

import (
	"QuantResearch/internal/services/indicators"
	"QuantResearch/internal/services/series"
)

type MACDParams struct {
	Fast   int
	Slow   int
	Signal int
}

func DefaultMACDParams() MACDParams {
	return MACDParams{Fast: 12, Slow: 26, Signal: 9}
}

// MACDStrategy follows the MACD line relative to its signal line. The EMAs are
// seeded from the first price, so every period carries a position.
type MACDStrategy struct {
	params MACDParams
	macd   *indicators.MACDService
}

func NewMACDStrategy(params MACDParams) (*MACDStrategy, error) {
	m := indicators.NewMACDService()
	if !m.ValidatePeriods(params.Fast, params.Slow, params.Signal) {
		return nil, &ParamError{Strategy: NameMACD, Param: "periods", Reason: "need 0 < fast < slow and signal > 0"}
	}
	return &MACDStrategy{params: params, macd: m}, nil
}

func (s *MACDStrategy) Name() string { return NameMACD }

func (s *MACDStrategy) WarmUp() int {
	return s.macd.MinLength(s.params.Slow, s.params.Signal)
}

func (s *MACDStrategy) Generate(ps *series.PriceSeries) Signals {
	res := s.macd.Calculate(ps.Prices(), s.params.Fast, s.params.Slow, s.params.Signal)

	signals := make(Signals, len(res.MACD))
	for i := range res.MACD {
		signals[i] = crossSignal(res.MACD[i], res.Signal[i])
	}
	return signals
}
