package strategy

import (
	"QuantResearch/internal/services/indicators"
	"QuantResearch/internal/services/series"
)

type MovingAverageParams struct {
	Short int
	Long  int
}

func DefaultMovingAverageParams() MovingAverageParams {
	return MovingAverageParams{Short: 20, Long: 50}
}

// MovingAverageStrategy goes long while the short mean is above the long mean
// and short while it is below
type MovingAverageStrategy struct {
	params MovingAverageParams
	ma     *indicators.MAService
}

func NewMovingAverageStrategy(params MovingAverageParams) (*MovingAverageStrategy, error) {
	if params.Short <= 0 {
		return nil, &ParamError{Strategy: NameMovingAverage, Param: "short", Reason: "must be > 0"}
	}
	if params.Long <= params.Short {
		return nil, &ParamError{Strategy: NameMovingAverage, Param: "long", Reason: "must be greater than short"}
	}
	return &MovingAverageStrategy{
		params: params,
		ma:     indicators.NewMAService(),
	}, nil
}

func (s *MovingAverageStrategy) Name() string { return NameMovingAverage }

func (s *MovingAverageStrategy) WarmUp() int { return s.params.Long }

func (s *MovingAverageStrategy) Generate(ps *series.PriceSeries) Signals {
	prices := ps.Prices()
	shortMA := s.ma.SMA(prices, s.params.Short)
	longMA := s.ma.SMA(prices, s.params.Long)

	signals := make(Signals, len(prices))
	for i := range prices {
		signals[i] = crossSignal(shortMA[i], longMA[i])
	}
	return signals
}
