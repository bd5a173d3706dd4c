package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// BacktestResult is the persisted summary of one strategy on one ticker
type BacktestResult struct {
	ID           uint            `gorm:"primaryKey"`
	RunID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Ticker       string          `gorm:"size:20;index;not null"`
	StartDate    time.Time       `gorm:"type:date;not null"`
	EndDate      time.Time       `gorm:"type:date;not null"`
	StrategyName string          `gorm:"size:50;not null"`
	SharpeRatio  sql.NullFloat64 `gorm:"type:decimal(12,3)"`
	FinalEquity  float64         `gorm:"type:decimal(20,4)"`
	MaxDrawdown  float64         `gorm:"type:decimal(8,2)"` // percent
	TotalReturn  float64         `gorm:"type:decimal(12,2)"` // percent
	WinRate      float64         `gorm:"type:decimal(6,2)"`  // percent
	NumTrades    int
	CreatedAt    time.Time
}

// TableName sets the table name for BacktestResult model
func (BacktestResult) TableName() string {
	return "backtest_results"
}
