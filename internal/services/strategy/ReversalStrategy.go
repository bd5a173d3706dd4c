package strategy

import (
	"math"

	"QuantResearch/internal/services/indicators"
	"QuantResearch/internal/services/series"
)

// DefaultReversalWindow is the averaging window used by the extended set
const DefaultReversalWindow = 20

// ReturnReversalStrategy bets against the recent drift: short after a window
// of positive average returns, long otherwise
type ReturnReversalStrategy struct {
	window int
	ma     *indicators.MAService
}

func NewReturnReversalStrategy(window int) (*ReturnReversalStrategy, error) {
	if window <= 0 {
		return nil, &ParamError{Strategy: NameReturnReversal, Param: "window", Reason: "must be > 0"}
	}
	return &ReturnReversalStrategy{window: window, ma: indicators.NewMAService()}, nil
}

func (s *ReturnReversalStrategy) Name() string { return NameReturnReversal }

func (s *ReturnReversalStrategy) WarmUp() int { return s.window }

func (s *ReturnReversalStrategy) Generate(ps *series.PriceSeries) Signals {
	drift := s.ma.SMA(ps.Returns(), s.window)

	signals := make(Signals, len(drift))
	for i, d := range drift {
		switch {
		case math.IsNaN(d):
			signals[i] = Flat
		case d > 0:
			signals[i] = Short
		default:
			signals[i] = Long
		}
	}
	return signals
}
