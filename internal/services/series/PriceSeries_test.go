package series

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewDerivesReturnsAndDropsFirstPeriod(t *testing.T) {
	s, err := New("AAPL", FromPrices(day0, []float64{100, 110, 99}))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", s.Symbol())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{110, 99}, s.Prices())
	assert.InDelta(t, 0.1, s.Returns()[0], 1e-12)
	assert.InDelta(t, -0.1, s.Returns()[1], 1e-12)
	assert.Equal(t, day0.AddDate(0, 0, 1), s.Start())
	assert.Equal(t, day0.AddDate(0, 0, 2), s.End())
}

func TestNewRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		obs   []Observation
		field string
		want  error
	}{
		{"single observation", FromPrices(day0, []float64{100}), "observations", ErrTooShort},
		{"zero price", FromPrices(day0, []float64{100, 0, 101}), "price", ErrNonPositive},
		{"nan price", FromPrices(day0, []float64{100, math.NaN()}), "price", ErrNonPositive},
		{"negative volume", []Observation{
			{Timestamp: day0, Price: 1},
			{Timestamp: day0.AddDate(0, 0, 1), Price: 1, Volume: -5},
		}, "volume", ErrNegativeVolume},
		{"duplicate timestamp", []Observation{
			{Timestamp: day0, Price: 1},
			{Timestamp: day0, Price: 2},
		}, "timestamp", ErrNotIncreasing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("X", tc.obs)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, err := New("X", FromPrices(day0, []float64{1, 2, 3}))
	require.NoError(t, err)

	p := s.Prices()
	p[0] = 42
	r := s.Returns()
	r[0] = 42

	assert.Equal(t, 2.0, s.Prices()[0])
	assert.InDelta(t, 1.0, s.Returns()[0], 1e-12)
}

func TestVolumesAlignWithPeriods(t *testing.T) {
	obs := FromPrices(day0, []float64{10, 11, 12})
	for i := range obs {
		obs[i].Volume = float64(i + 1)
	}
	s, err := New("X", obs)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3}, s.Volumes())
	v := s.Volumes()
	v[0] = 42
	assert.Equal(t, 2.0, s.Volumes()[0])
}

func TestClean(t *testing.T) {
	raw := []Observation{
		{Timestamp: day0.AddDate(0, 0, 2), Price: 102, Volume: 10},
		{Timestamp: day0, Price: 100, Volume: 10},
		{Timestamp: day0.AddDate(0, 0, 1), Price: math.NaN(), Volume: 10},
		{Timestamp: day0.AddDate(0, 0, 3), Price: -1},
		{Timestamp: day0.AddDate(0, 0, 2), Price: 103, Volume: 11},
	}

	cleaned := Clean(raw)
	require.Len(t, cleaned, 2)
	assert.Equal(t, day0, cleaned[0].Timestamp)
	assert.Equal(t, 103.0, cleaned[1].Price)

	_, err := New("X", cleaned)
	assert.NoError(t, err)
}
