package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"QuantResearch/internal/models"
	"QuantResearch/internal/services/series"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const priceBatchSize = 500

type PriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new instance of PriceRepository
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// SaveObservations upserts daily closes keyed by symbol and date
func (r *PriceRepository) SaveObservations(ctx context.Context, symbol, source string, obs []series.Observation) error {
	if symbol == "" {
		return errors.New("invalid symbol")
	}
	if len(obs) == 0 {
		return nil
	}

	prices := make([]models.Price, len(obs))
	for i, o := range obs {
		prices[i] = models.Price{
			Symbol: symbol,
			Date:   truncateDay(o.Timestamp),
			Close:  o.Price,
			Volume: o.Volume,
			Source: source,
		}
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"close", "volume", "source", "updated_at"}),
		}).
		CreateInBatches(&prices, priceBatchSize).Error
	if err != nil {
		return fmt.Errorf("saving %d prices for %s: %w", len(prices), symbol, err)
	}
	return nil
}

// GetPriceHistory gets daily closes for a symbol within [start, end]
func (r *PriceRepository) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]models.Price, error) {
	if symbol == "" {
		return nil, errors.New("invalid symbol")
	}

	var prices []models.Price
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND date BETWEEN ? AND ?", symbol, truncateDay(start), truncateDay(end)).
		Order("date ASC").
		Find(&prices).Error
	return prices, err
}

// ClearSymbol removes every cached close of a symbol
func (r *PriceRepository) ClearSymbol(ctx context.Context, symbol string) error {
	if symbol == "" {
		return errors.New("invalid symbol")
	}
	return r.db.WithContext(ctx).Where("symbol = ?", symbol).Delete(&models.Price{}).Error
}

// ToObservations converts cached rows back into provider observations
func ToObservations(prices []models.Price) []series.Observation {
	obs := make([]series.Observation, len(prices))
	for i, p := range prices {
		obs[i] = series.Observation{Timestamp: p.Date, Price: p.Close, Volume: p.Volume}
	}
	return obs
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
