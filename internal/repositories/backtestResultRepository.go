package repositories

import (
	"context"
	"errors"
	"fmt"

	"QuantResearch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BacktestResultRepository struct {
	db *gorm.DB
}

// NewBacktestResultRepository creates a new instance of BacktestResultRepository
func NewBacktestResultRepository(db *gorm.DB) *BacktestResultRepository {
	return &BacktestResultRepository{db: db}
}

// Create adds a single result record
func (r *BacktestResultRepository) Create(ctx context.Context, result *models.BacktestResult) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}
	return r.db.WithContext(ctx).Create(result).Error
}

// CreateBatch stores all records of a run in one transaction
func (r *BacktestResultRepository) CreateBatch(ctx context.Context, results []models.BacktestResult) error {
	if len(results) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&results).Error; err != nil {
			return fmt.Errorf("inserting %d backtest results: %w", len(results), err)
		}
		return nil
	})
}

// FindByTicker returns the stored results of a ticker, newest first
func (r *BacktestResultRepository) FindByTicker(ctx context.Context, ticker string) ([]models.BacktestResult, error) {
	if ticker == "" {
		return nil, errors.New("invalid ticker")
	}

	var results []models.BacktestResult
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("created_at DESC").
		Order("strategy_name ASC").
		Find(&results).Error
	return results, err
}

// FindByRun returns every record written by one batch
func (r *BacktestResultRepository) FindByRun(ctx context.Context, runID uuid.UUID) ([]models.BacktestResult, error) {
	var results []models.BacktestResult
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("ticker ASC").
		Order("strategy_name ASC").
		Find(&results).Error
	return results, err
}

// DeleteAll empties the results table
func (r *BacktestResultRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.BacktestResult{}).Error
}

func (r *BacktestResultRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BacktestResult{}).Count(&count).Error
	return count, err
}
