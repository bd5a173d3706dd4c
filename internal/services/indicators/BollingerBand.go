package indicators

import "math"

type BBandsService struct {
	ma *MAService
}

type BBandsResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

func NewBBandsService() *BBandsService {
	return &BBandsService{
		ma: NewMAService(),
	}
}

// Calculate builds bands from the rolling mean and the rolling sample standard
// deviation. Positions inside the first period-1 values are NaN.
func (s *BBandsService) Calculate(prices []float64, period int, deviations float64) *BBandsResult {
	middle := s.ma.SMA(prices, period)
	stdDev := s.ma.StdDev(prices, period)

	upper := nanSlice(len(prices))
	lower := nanSlice(len(prices))

	for i := range prices {
		if math.IsNaN(middle[i]) || math.IsNaN(stdDev[i]) {
			continue
		}
		upper[i] = middle[i] + (deviations * stdDev[i])
		lower[i] = middle[i] - (deviations * stdDev[i])
	}

	return &BBandsResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
	}
}

// ValidatePeriod checks if we have enough data
func (s *BBandsService) ValidatePeriod(prices []float64, period int) bool {
	return len(prices) >= period && period > 1
}
