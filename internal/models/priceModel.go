package models

import (
	"time"
)

// Price is one cached daily close of a symbol
type Price struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"uniqueIndex:idx_prices_symbol_date;not null"`
	Date      time.Time `gorm:"uniqueIndex:idx_prices_symbol_date;not null"`
	Close     float64   `gorm:"type:decimal(20,8);not null"`
	Volume    float64   `gorm:"type:decimal(28,8)"`
	Source    string    `gorm:"size:16"`
	UpdatedAt time.Time
}

const (
	PriceSourceBinance  = "binance"
	PriceSourceArchive  = "archive"
	PriceSourceDatabase = "database"
)

// TableName sets the table name for Price model
func (Price) TableName() string {
	return "prices"
}
