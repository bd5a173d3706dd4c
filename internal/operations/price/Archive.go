package price

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"QuantResearch/internal/models"
	"QuantResearch/internal/services/series"

	"github.com/parquet-go/parquet-go"
)

// PriceRecord is the on-disk schema of one archived daily close
type PriceRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// Archive keeps one parquet file per symbol at <Dir>/<SYMBOL>.parquet
type Archive struct {
	Dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

func (a *Archive) Name() string { return models.PriceSourceArchive }

func (a *Archive) path(symbol string) string {
	return filepath.Join(a.Dir, strings.ToUpper(symbol)+".parquet")
}

// Write merges observations into the symbol's file. Incoming observations
// replace archived ones with the same timestamp.
func (a *Archive) Write(symbol string, obs []series.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	path := a.path(symbol)
	existing, err := parquet.ReadFile[PriceRecord](path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading archive %s: %w", path, err)
	}

	incoming := make([]PriceRecord, len(obs))
	for i, o := range obs {
		incoming[i] = PriceRecord{
			Symbol:    symbol,
			Timestamp: o.Timestamp.UnixMilli(),
			Close:     o.Price,
			Volume:    o.Volume,
		}
	}

	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, mergeRecords(existing, incoming)); err != nil {
		return fmt.Errorf("writing archive %s: %w", path, err)
	}
	return nil
}

// FetchObservations reads archived closes within [start, end]
func (a *Archive) FetchObservations(_ context.Context, symbol string, start, end time.Time) ([]series.Observation, error) {
	records, err := parquet.ReadFile[PriceRecord](a.path(symbol))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}

	var obs []series.Observation
	for _, r := range records {
		ts := time.UnixMilli(r.Timestamp).UTC()
		if ts.Before(start) || ts.After(end) {
			continue
		}
		obs = append(obs, series.Observation{Timestamp: ts, Price: r.Close, Volume: r.Volume})
	}
	return obs, nil
}

func (a *Archive) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (*series.PriceSeries, error) {
	return BuildSeries(ctx, a, symbol, start, end)
}

// Symbols lists the archived symbols
func (a *Archive) Symbols() ([]string, error) {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		return nil, err
	}

	var symbols []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".parquet" {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(e.Name(), ".parquet"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// mergeRecords deduplicates by timestamp, preferring incoming records
func mergeRecords(existing, incoming []PriceRecord) []PriceRecord {
	seen := make(map[int64]PriceRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]PriceRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
