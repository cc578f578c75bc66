package entity

import (
	"time"
)

// Stock is a tracked position. The last_* columns denormalize the most
// recent snapshot so reads never need the full price history.
type Stock struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Ticker           string     `gorm:"size:30;not null;uniqueIndex" json:"ticker"`
	Name             string     `gorm:"size:200;not null" json:"name"`
	Active           bool       `gorm:"not null;default:true" json:"active"`
	IndustryID       *uint      `gorm:"index" json:"industry_id"`
	Industry         *Industry  `gorm:"foreignKey:IndustryID" json:"industry,omitempty"`
	PurchaseDate     time.Time  `gorm:"type:date;not null" json:"purchase_date"`
	PurchasePrice    *float64   `json:"purchase_price"`
	PurchaseCurrency *string    `gorm:"size:10" json:"purchase_currency"`
	LastPrice        *float64   `json:"last_price"`
	LastPriceAt      *time.Time `json:"last_price_at"`
	LastCurrency     *string    `gorm:"size:10" json:"last_currency"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
