package strategy

import (
	"math"

	"QuantResearch/internal/services/indicators"
	"QuantResearch/internal/services/series"
)

type ZScoreParams struct {
	Window int
	Entry  float64
	Exit   float64
}

func DefaultZScoreParams() ZScoreParams {
	return ZScoreParams{Window: 30, Entry: 2.0, Exit: 0.5}
}

// ZScoreStrategy trades deviations of price from its rolling mean, measured in
// rolling standard deviations. Scores inside the exit band are always flat.
type ZScoreStrategy struct {
	params ZScoreParams
	z      *indicators.ZScoreService
}

func NewZScoreStrategy(params ZScoreParams) (*ZScoreStrategy, error) {
	if params.Window < 2 {
		return nil, &ParamError{Strategy: NameZScore, Param: "window", Reason: "must be >= 2"}
	}
	if params.Exit < 0 || params.Exit >= params.Entry {
		return nil, &ParamError{Strategy: NameZScore, Param: "exit", Reason: "need 0 <= exit < entry"}
	}
	return &ZScoreStrategy{
		params: params,
		z:      indicators.NewZScoreService(),
	}, nil
}

func (s *ZScoreStrategy) Name() string { return NameZScore }

func (s *ZScoreStrategy) WarmUp() int { return s.params.Window }

func (s *ZScoreStrategy) Generate(ps *series.PriceSeries) Signals {
	scores := s.z.Calculate(ps.Prices(), s.params.Window)

	signals := make(Signals, len(scores))
	for i, z := range scores {
		switch {
		case math.IsNaN(z) || math.Abs(z) < s.params.Exit:
			signals[i] = Flat
		case z > s.params.Entry:
			signals[i] = Short
		case z < -s.params.Entry:
			signals[i] = Long
		default:
			signals[i] = Flat
		}
	}
	return signals
}
