package indicators

import "math"

// EMAService provides exponential moving averages
type EMAService struct{}

func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate computes the EMA over a span with alpha = 2/(span+1). The average
// is seeded with the first defined observation and updated recursively
// (no adjustment for the initial weights), so it is defined from that
// observation onwards. Leading NaNs stay NaN.
func (s *EMAService) Calculate(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	if span <= 0 {
		return out
	}

	multiplier := s.getMultiplier(span)
	prev := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			// carry the last value through gaps
			out[i] = prev
		case math.IsNaN(prev):
			prev = v
			out[i] = v
		default:
			prev = s.calculatePoint(v, prev, multiplier)
			out[i] = prev
		}
	}
	return out
}

// CalculateOne advances an EMA by one observation
func (s *EMAService) CalculateOne(value, prevEMA float64, span int) float64 {
	return s.calculatePoint(value, prevEMA, s.getMultiplier(span))
}

func (s *EMAService) getMultiplier(span int) float64 {
	return 2.0 / float64(span+1)
}

func (s *EMAService) calculatePoint(value, prevEMA, multiplier float64) float64 {
	return (value-prevEMA)*multiplier + prevEMA
}
