package series

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Observation is one raw period as delivered by a price provider
type Observation struct {
	Timestamp time.Time
	Price     float64
	Volume    float64
}

// ValidationError describes an observation that breaks the series invariants
type ValidationError struct {
	Field string
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s at period %d: %v", e.Field, e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	ErrTooShort       = errors.New("at least two observations are needed to derive a return")
	ErrNonPositive    = errors.New("price must be finite and > 0")
	ErrNegativeVolume = errors.New("volume must be finite and >= 0")
	ErrNotIncreasing  = errors.New("timestamps must be strictly increasing")
)

// PriceSeries is an immutable, date-ordered price history with derived simple
// returns. The first raw observation only seeds the first return and is not a
// period of the series.
type PriceSeries struct {
	symbol     string
	timestamps []time.Time
	prices     []float64
	volumes    []float64
	returns    []float64
}

// New validates the observations and derives returns
func New(symbol string, obs []Observation) (*PriceSeries, error) {
	if len(obs) < 2 {
		return nil, &ValidationError{Field: "observations", Index: len(obs), Err: ErrTooShort}
	}

	for i, o := range obs {
		if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) || o.Price <= 0 {
			return nil, &ValidationError{Field: "price", Index: i, Err: ErrNonPositive}
		}
		if math.IsNaN(o.Volume) || math.IsInf(o.Volume, 0) || o.Volume < 0 {
			return nil, &ValidationError{Field: "volume", Index: i, Err: ErrNegativeVolume}
		}
		if i > 0 && !o.Timestamp.After(obs[i-1].Timestamp) {
			return nil, &ValidationError{Field: "timestamp", Index: i, Err: ErrNotIncreasing}
		}
	}

	n := len(obs) - 1
	s := &PriceSeries{
		symbol:     symbol,
		timestamps: make([]time.Time, n),
		prices:     make([]float64, n),
		volumes:    make([]float64, n),
		returns:    make([]float64, n),
	}
	for i := 1; i < len(obs); i++ {
		s.timestamps[i-1] = obs[i].Timestamp
		s.prices[i-1] = obs[i].Price
		s.volumes[i-1] = obs[i].Volume
		s.returns[i-1] = obs[i].Price/obs[i-1].Price - 1
	}

	return s, nil
}

// Clean applies the provider contract to raw observations: ascending order,
// one observation per timestamp (the last one delivered wins) and no missing
// or non-positive prices. Dropped observations are never interpolated.
func Clean(obs []Observation) []Observation {
	byTime := make(map[int64]Observation, len(obs))
	for _, o := range obs {
		if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) || o.Price <= 0 {
			continue
		}
		if math.IsNaN(o.Volume) || math.IsInf(o.Volume, 0) || o.Volume < 0 {
			o.Volume = 0
		}
		byTime[o.Timestamp.UnixNano()] = o
	}

	cleaned := make([]Observation, 0, len(byTime))
	for _, o := range byTime {
		cleaned = append(cleaned, o)
	}
	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].Timestamp.Before(cleaned[j].Timestamp)
	})
	return cleaned
}

func (s *PriceSeries) Symbol() string { return s.symbol }

// Len is the number of periods, i.e. raw observations minus one
func (s *PriceSeries) Len() int { return len(s.prices) }

func (s *PriceSeries) Prices() []float64 { return append([]float64(nil), s.prices...) }

func (s *PriceSeries) Returns() []float64 { return append([]float64(nil), s.returns...) }

func (s *PriceSeries) Volumes() []float64 { return append([]float64(nil), s.volumes...) }

func (s *PriceSeries) Timestamps() []time.Time { return append([]time.Time(nil), s.timestamps...) }

func (s *PriceSeries) Start() time.Time { return s.timestamps[0] }

func (s *PriceSeries) End() time.Time { return s.timestamps[len(s.timestamps)-1] }

// FromPrices builds daily observations starting at start. Used by fixtures and
// by callers that only hold a price vector.
func FromPrices(start time.Time, prices []float64) []Observation {
	obs := make([]Observation, len(prices))
	for i, p := range prices {
		obs[i] = Observation{Timestamp: start.AddDate(0, 0, i), Price: p}
	}
	return obs
}
