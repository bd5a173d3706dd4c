package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"QuantResearch/internal/services/series"
)

// ErrNoData is returned when a source has nothing for the requested range
var ErrNoData = errors.New("no price data")

// Provider delivers a cleaned series for one symbol over [start, end]
type Provider interface {
	FetchSeries(ctx context.Context, symbol string, start, end time.Time) (*series.PriceSeries, error)
}

// ObservationSource delivers raw observations; every source here also
// satisfies Provider through BuildSeries
type ObservationSource interface {
	Name() string
	FetchObservations(ctx context.Context, symbol string, start, end time.Time) ([]series.Observation, error)
}

// Source is a provider that also exposes its raw observations
type Source interface {
	Provider
	ObservationSource
}

// BuildSeries fetches, cleans and validates observations from src
func BuildSeries(ctx context.Context, src ObservationSource, symbol string, start, end time.Time) (*series.PriceSeries, error) {
	obs, err := src.FetchObservations(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: fetching %s: %w", src.Name(), symbol, err)
	}
	return seriesFrom(src.Name(), symbol, obs)
}

func seriesFrom(source, symbol string, obs []series.Observation) (*series.PriceSeries, error) {
	cleaned := series.Clean(obs)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", source, symbol, ErrNoData)
	}

	ps, err := series.New(symbol, cleaned)
	if err != nil {
		return nil, fmt.Errorf("%s: building %s series: %w", source, symbol, err)
	}
	return ps, nil
}

// DateRange returns the last days calendar days ending at the UTC midnight
// of now
func DateRange(now time.Time, days int) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -days), end
}
