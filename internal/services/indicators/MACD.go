package indicators

type MACDService struct {
	ema *EMAService
}

type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

func NewMACDService() *MACDService {
	return &MACDService{
		ema: NewEMAService(),
	}
}

// Calculate returns MACD line, signal line, and histogram
// Default periods: fast=12, slow=26, signal=9
func (s *MACDService) Calculate(prices []float64, fastPeriod, slowPeriod, signalPeriod int) *MACDResult {
	fastEMA := s.ema.Calculate(prices, fastPeriod)
	slowEMA := s.ema.Calculate(prices, slowPeriod)

	macdLine := make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := s.ema.Calculate(macdLine, signalPeriod)

	histogram := make([]float64, len(prices))
	for i := range prices {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return &MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

// MinLength is the number of prices after which both the slow EMA and the
// signal line have seen a full span
func (s *MACDService) MinLength(slowPeriod, signalPeriod int) int {
	return slowPeriod + signalPeriod - 1
}

func (s *MACDService) ValidatePeriods(fastPeriod, slowPeriod, signalPeriod int) bool {
	return fastPeriod > 0 &&
		slowPeriod > fastPeriod &&
		signalPeriod > 0
}
