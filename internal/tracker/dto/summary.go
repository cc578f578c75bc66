package dto

import (
	"time"
)

// StockRow is one stock in the summary and stock listings. Return fields
// are null until both a purchase price and a last price exist.
type StockRow struct {
	ID            uint       `json:"id"`
	Ticker        string     `json:"ticker"`
	Name          string     `json:"name"`
	Industry      *string    `json:"industry"`
	PurchaseDate  string     `json:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price"`
	LastPrice     *float64   `json:"last_price"`
	LastPriceAt   *time.Time `json:"last_price_at"`
	ReturnAbs     *float64   `json:"return_abs"`
	ReturnPct     *float64   `json:"return_pct"`
}

// IndustryRow is one industry aggregate. AvgReturnPct is the unweighted
// mean over members with a computable return, null when there are none.
type IndustryRow struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	StockCount   int      `json:"stock_count"`
	PricedCount  int      `json:"priced_count"`
	AvgReturnPct *float64 `json:"avg_return_pct"`
}

// SummaryResponse is the full dashboard payload.
type SummaryResponse struct {
	NowUTC     time.Time     `json:"now_utc"`
	Stocks     []StockRow    `json:"stocks"`
	Industries []IndustryRow `json:"industries"`
}

// PricePointRow is one snapshot in a stock's history.
type PricePointRow struct {
	ObservedAt time.Time `json:"observed_at"`
	Price      float64   `json:"price"`
	Currency   *string   `json:"currency"`
}

// StockDetailResponse is a stock row plus its stored price history.
type StockDetailResponse struct {
	StockRow
	History []PricePointRow `json:"history"`
}

// IndustryDetailResponse is an industry aggregate plus its member rows.
type IndustryDetailResponse struct {
	IndustryRow
	Stocks []StockRow `json:"stocks"`
}
