package strategy

import (
	"math"

	"QuantResearch/internal/services/indicators"
	"QuantResearch/internal/services/series"
)

type BollingerParams struct {
	Window int
	NumStd float64
}

func DefaultBollingerParams() BollingerParams {
	return BollingerParams{Window: 20, NumStd: 2}
}

// BollingerStrategy mean-reverts: short above the upper band, long below the
// lower band, flat in between
type BollingerStrategy struct {
	params BollingerParams
	bb     *indicators.BBandsService
}

func NewBollingerStrategy(params BollingerParams) (*BollingerStrategy, error) {
	if params.Window < 2 {
		return nil, &ParamError{Strategy: NameBollingerBands, Param: "window", Reason: "must be >= 2"}
	}
	if params.NumStd <= 0 {
		return nil, &ParamError{Strategy: NameBollingerBands, Param: "num_std", Reason: "must be > 0"}
	}
	return &BollingerStrategy{
		params: params,
		bb:     indicators.NewBBandsService(),
	}, nil
}

func (s *BollingerStrategy) Name() string { return NameBollingerBands }

func (s *BollingerStrategy) WarmUp() int { return s.params.Window }

func (s *BollingerStrategy) Generate(ps *series.PriceSeries) Signals {
	prices := ps.Prices()
	bands := s.bb.Calculate(prices, s.params.Window, s.params.NumStd)

	signals := make(Signals, len(prices))
	for i, p := range prices {
		switch {
		case math.IsNaN(bands.Upper[i]) || math.IsNaN(bands.Lower[i]):
			signals[i] = Flat
		case p > bands.Upper[i]:
			signals[i] = Short
		case p < bands.Lower[i]:
			signals[i] = Long
		default:
			signals[i] = Flat
		}
	}
	return signals
}
