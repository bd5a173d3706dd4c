package price

import (
	"context"
	"time"

	"QuantResearch/internal/models"
	"QuantResearch/internal/repositories"
	"QuantResearch/internal/services/series"

	"go.uber.org/zap"
)

// PriceCache is the slice of PriceRepository the cached provider uses
type PriceCache interface {
	GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]models.Price, error)
	SaveObservations(ctx context.Context, symbol, source string, obs []series.Observation) error
}

// CachedProvider serves from the prices table and records whatever it had
// to fetch upstream
type CachedProvider struct {
	cache    PriceCache
	upstream ObservationSource
	logger   *zap.Logger

	// Tolerance is how far the cached range may fall short of [start, end]
	// before the upstream is asked again
	Tolerance time.Duration
}

func NewCachedProvider(cache PriceCache, upstream ObservationSource, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		cache:     cache,
		upstream:  upstream,
		logger:    logger,
		Tolerance: 72 * time.Hour,
	}
}

func (p *CachedProvider) Name() string { return models.PriceSourceDatabase }

func (p *CachedProvider) FetchObservations(ctx context.Context, symbol string, start, end time.Time) ([]series.Observation, error) {
	cached, err := p.cache.GetPriceHistory(ctx, symbol, start, end)
	if err != nil {
		p.logger.Warn("price cache read failed", zap.String("symbol", symbol), zap.Error(err))
	} else if p.covers(cached, start, end) {
		return repositories.ToObservations(cached), nil
	}

	if p.upstream == nil {
		return repositories.ToObservations(cached), nil
	}

	obs, err := p.upstream.FetchObservations(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	if err := p.cache.SaveObservations(ctx, symbol, p.upstream.Name(), series.Clean(obs)); err != nil {
		p.logger.Warn("price cache write failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		p.logger.Info("recorded prices",
			zap.String("symbol", symbol),
			zap.String("source", p.upstream.Name()),
			zap.Int("periods", len(obs)),
		)
	}
	return obs, nil
}

func (p *CachedProvider) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (*series.PriceSeries, error) {
	return BuildSeries(ctx, p, symbol, start, end)
}

func (p *CachedProvider) covers(cached []models.Price, start, end time.Time) bool {
	if len(cached) == 0 {
		return false
	}
	first := cached[0].Date
	last := cached[len(cached)-1].Date
	return first.Sub(start) <= p.Tolerance && end.Sub(last) <= p.Tolerance
}

var (
	_ Source = (*ArchiveRecorder)(nil)
	_ Source = (*CachedProvider)(nil)
)

// ArchiveRecorder serves observations from its upstream and merges every
// fetch into the parquet archive, so later runs can use PRICE_SOURCE=archive
type ArchiveRecorder struct {
	upstream ObservationSource
	archive  *Archive
	logger   *zap.Logger
}

func NewArchiveRecorder(upstream ObservationSource, archive *Archive, logger *zap.Logger) *ArchiveRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveRecorder{
		upstream: upstream,
		archive:  archive,
		logger:   logger,
	}
}

func (r *ArchiveRecorder) Name() string { return r.upstream.Name() }

// FetchObservations returns the upstream observations even when the archive
// write fails
func (r *ArchiveRecorder) FetchObservations(ctx context.Context, symbol string, start, end time.Time) ([]series.Observation, error) {
	obs, err := r.upstream.FetchObservations(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	cleaned := series.Clean(obs)
	if err := r.archive.Write(symbol, cleaned); err != nil {
		r.logger.Warn("archive write failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		r.logger.Info("archived prices",
			zap.String("symbol", symbol),
			zap.String("dir", r.archive.Dir),
			zap.Int("periods", len(cleaned)),
		)
	}
	return obs, nil
}

func (r *ArchiveRecorder) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (*series.PriceSeries, error) {
	return BuildSeries(ctx, r, symbol, start, end)
}
