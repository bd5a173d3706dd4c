package indicators

import "math"

type RSIService struct {
	ma *MAService
}

// RSIResult keeps the averaged legs next to the index so callers can tell a
// saturated reading (no losses) from a flat one (no movement at all)
type RSIResult struct {
	RSI     []float64
	AvgGain []float64
	AvgLoss []float64
}

func NewRSIService() *RSIService {
	return &RSIService{
		ma: NewMAService(),
	}
}

// Calculate averages gains and losses with a simple rolling mean over period
// price deltas. The first delta needs a previous price, so RSI is defined from
// index period onwards.
//
// Zero denominators resolve as follows: no losses with some gains gives 100,
// no movement at all (0/0) gives the neutral 50. This narrows the usual rule
// that zero average loss means 100: a window with no price change reads as
// neutral, not overbought.
func (s *RSIService) Calculate(prices []float64, period int) *RSIResult {
	gains := nanSlice(len(prices))
	losses := nanSlice(len(prices))
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if math.IsNaN(change) {
			continue
		}
		gains[i] = math.Max(change, 0)
		losses[i] = math.Max(-change, 0)
	}

	avgGain := s.ma.SMA(gains, period)
	avgLoss := s.ma.SMA(losses, period)

	rsi := nanSlice(len(prices))
	for i := range prices {
		rsi[i] = toRSI(avgGain[i], avgLoss[i])
	}

	return &RSIResult{
		RSI:     rsi,
		AvgGain: avgGain,
		AvgLoss: avgLoss,
	}
}

func toRSI(avgGain, avgLoss float64) float64 {
	switch {
	case math.IsNaN(avgGain) || math.IsNaN(avgLoss):
		return math.NaN()
	case avgLoss == 0 && avgGain == 0:
		return 50
	case avgLoss == 0:
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
