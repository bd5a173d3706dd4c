package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrices() []float64 {
	return []float64{
		103, 106, 108, 110, 113, 114, 116, 117, 119, 120,
		116, 113, 109, 106, 103, 105, 104, 106, 105, 104,
		101, 99, 97, 95, 93, 91, 95, 97, 99, 101,
		103, 105, 107, 109, 111,
	}
}

func TestSMA(t *testing.T) {
	ma := NewMAService()
	out := ma.SMA([]float64{1, 2, 3, 4, 5}, 3)

	require.Len(t, out, 5)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestSMAConstantWindowIsExact(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 0.1 + 0.2
	}
	ma := NewMAService()
	short := ma.SMA(values, 20)
	long := ma.SMA(values, 50)
	std := ma.StdDev(values, 20)

	for i := 49; i < len(values); i++ {
		assert.Equal(t, short[i], long[i])
		assert.Equal(t, 0.0, std[i])
	}
}

func TestStdDevIsSample(t *testing.T) {
	ma := NewMAService()
	out := ma.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	// population std is 2, sample std is sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), out[7], 1e-12)
	assert.True(t, math.IsNaN(ma.StdDev([]float64{1, 2}, 1)[1]))
}

func TestEMASeededFromFirstObservation(t *testing.T) {
	ema := NewEMAService()
	out := ema.Calculate([]float64{10, 20, 30}, 3)

	alpha := 2.0 / 4.0
	require.Len(t, out, 3)
	assert.Equal(t, 10.0, out[0])
	assert.InDelta(t, 10+alpha*(20-10), out[1], 1e-12)
	assert.InDelta(t, out[1]+alpha*(30-out[1]), out[2], 1e-12)
	assert.InDelta(t, out[2], ema.CalculateOne(30, out[1], 3), 1e-12)
}

func TestRSI(t *testing.T) {
	rsi := NewRSIService()
	prices := testPrices()
	res := rsi.Calculate(prices, 14)

	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(res.RSI[i]), "index %d should be warm-up", i)
	}
	for i := 14; i < len(prices); i++ {
		assert.GreaterOrEqual(t, res.RSI[i], 0.0)
		assert.LessOrEqual(t, res.RSI[i], 100.0)
	}
}

func TestRSIZeroDenominators(t *testing.T) {
	rsi := NewRSIService()

	rising := rsi.Calculate([]float64{1, 2, 3, 4, 5, 6}, 3)
	for i := 3; i < 6; i++ {
		assert.Equal(t, 100.0, rising.RSI[i])
	}

	flat := rsi.Calculate([]float64{5, 5, 5, 5, 5}, 3)
	for i := 3; i < 5; i++ {
		assert.Equal(t, 50.0, flat.RSI[i])
	}

	falling := rsi.Calculate([]float64{6, 5, 4, 3, 2}, 3)
	assert.Equal(t, 0.0, falling.RSI[4])
}

func TestMACD(t *testing.T) {
	m := NewMACDService()
	prices := testPrices()
	res := m.Calculate(prices, 12, 26, 9)

	require.Len(t, res.MACD, len(prices))
	assert.Equal(t, 0.0, res.MACD[0])
	assert.Equal(t, 0.0, res.Signal[0])
	for i := range prices {
		assert.False(t, math.IsNaN(res.MACD[i]))
		assert.InDelta(t, res.MACD[i]-res.Signal[i], res.Histogram[i], 1e-12)
	}
	assert.Equal(t, 34, m.MinLength(26, 9))
	assert.True(t, m.ValidatePeriods(12, 26, 9))
	assert.False(t, m.ValidatePeriods(26, 12, 9))
}

func TestBollingerBands(t *testing.T) {
	bb := NewBBandsService()
	prices := testPrices()
	res := bb.Calculate(prices, 20, 2)

	for i := 0; i < 19; i++ {
		assert.True(t, math.IsNaN(res.Upper[i]))
	}
	for i := 19; i < len(prices); i++ {
		assert.Greater(t, res.Upper[i], res.Middle[i])
		assert.Less(t, res.Lower[i], res.Middle[i])
		assert.InDelta(t, res.Upper[i]-res.Middle[i], res.Middle[i]-res.Lower[i], 1e-9)
	}
	assert.True(t, bb.ValidatePeriod(prices, 20))
	assert.False(t, bb.ValidatePeriod(prices[:5], 20))
}

func TestZScore(t *testing.T) {
	z := NewZScoreService()

	out := z.Calculate([]float64{1, 2, 3, 4, 10}, 5)
	assert.Greater(t, out[4], 1.0)

	flat := z.Calculate([]float64{3, 3, 3}, 3)
	assert.True(t, math.IsNaN(flat[2]))
}
