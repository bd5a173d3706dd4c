package indicators

import "math"

type ZScoreService struct {
	ma *MAService
}

func NewZScoreService() *ZScoreService {
	return &ZScoreService{
		ma: NewMAService(),
	}
}

// Calculate returns (value - rolling mean) / rolling sample std. A window with
// zero dispersion has no defined score and stays NaN.
func (s *ZScoreService) Calculate(values []float64, period int) []float64 {
	mean := s.ma.SMA(values, period)
	std := s.ma.StdDev(values, period)

	z := nanSlice(len(values))
	for i, v := range values {
		if math.IsNaN(mean[i]) || math.IsNaN(std[i]) || std[i] == 0 {
			continue
		}
		z[i] = (v - mean[i]) / std[i]
	}
	return z
}
