package indicators

import "math"

// MAService computes rolling-window statistics. Positions without a full
// window, or whose window holds a NaN, are NaN in every output.
type MAService struct{}

func NewMAService() *MAService {
	return &MAService{}
}

// SMA returns the rolling arithmetic mean over period values
func (s *MAService) SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		if hasNaN(window) {
			continue
		}
		out[i] = mean(window)
	}
	return out
}

// StdDev returns the rolling sample standard deviation (n-1 denominator)
func (s *MAService) StdDev(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period < 2 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		if hasNaN(window) {
			continue
		}
		out[i] = sampleStd(window)
	}
	return out
}

// mean is shifted by the first element so a constant window yields that
// constant exactly.
func mean(window []float64) float64 {
	base := window[0]
	sum := 0.0
	for _, v := range window {
		sum += v - base
	}
	return base + sum/float64(len(window))
}

func sampleStd(window []float64) float64 {
	m := mean(window)
	squareSum := 0.0
	for _, v := range window {
		diff := v - m
		squareSum += diff * diff
	}
	return math.Sqrt(squareSum / float64(len(window)-1))
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
