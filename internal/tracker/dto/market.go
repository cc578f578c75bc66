package dto

import (
	"time"
)

// Quote is the latest observed price for a ticker.
type Quote struct {
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	ObservedAt time.Time `json:"observed_at"`
}

// PricePoint is a single close in a daily history series.
type PricePoint struct {
	ObservedAt time.Time `json:"observed_at"`
	Close      float64   `json:"close"`
	Currency   string    `json:"currency"`
}

// FinnhubQuoteResponse is the wire format of Finnhub's /quote endpoint.
type FinnhubQuoteResponse struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// FinnhubCandleResponse is the wire format of Finnhub's /stock/candle
// endpoint. Status is "ok" or "no_data".
type FinnhubCandleResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Closes     []float64 `json:"c"`
}
