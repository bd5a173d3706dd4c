package price

import (
	"context"
	"math"
	"strconv"
	"time"

	"QuantResearch/internal/models"
	"QuantResearch/internal/services/series"

	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"
)

// KlineSource is the part of the binance client the fetcher needs
type KlineSource interface {
	GetDailyKlines(ctx context.Context, symbol string, start, end time.Time) ([]*futures.Kline, error)
}

// BinanceProvider turns daily futures klines into close-price observations
type BinanceProvider struct {
	client KlineSource
	logger *zap.Logger
}

func NewBinanceProvider(client KlineSource, logger *zap.Logger) *BinanceProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BinanceProvider{
		client: client,
		logger: logger,
	}
}

func (p *BinanceProvider) Name() string { return models.PriceSourceBinance }

func (p *BinanceProvider) FetchObservations(ctx context.Context, symbol string, start, end time.Time) ([]series.Observation, error) {
	klines, err := p.client.GetDailyKlines(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	obs := make([]series.Observation, 0, len(klines))
	for _, k := range klines {
		obs = append(obs, series.Observation{
			Timestamp: time.UnixMilli(k.OpenTime).UTC(),
			Price:     parseFloat(k.Close),
			Volume:    parseFloat(k.Volume),
		})
	}

	p.logger.Debug("fetched daily klines",
		zap.String("symbol", symbol),
		zap.Int("candles", len(klines)),
		zap.Time("start", start),
		zap.Time("end", end),
	)
	return obs, nil
}

func (p *BinanceProvider) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (*series.PriceSeries, error) {
	return BuildSeries(ctx, p, symbol, start, end)
}

// parseFloat maps unparsable fields to NaN so cleaning drops the period
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
