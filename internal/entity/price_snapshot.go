package entity

import (
	"time"
)

// PriceSnapshot is one observed price for a stock. The composite unique
// index makes writes idempotent per (stock, observation time).
type PriceSnapshot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StockID    uint      `gorm:"not null;uniqueIndex:idx_snapshots_stock_observed,priority:1" json:"stock_id"`
	ObservedAt time.Time `gorm:"not null;uniqueIndex:idx_snapshots_stock_observed,priority:2" json:"observed_at"`
	Price      float64   `gorm:"not null" json:"price"`
	Currency   *string   `gorm:"size:10" json:"currency"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}
