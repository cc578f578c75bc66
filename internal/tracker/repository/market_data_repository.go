package repository

import (
	"context"
	"errors"
	"time"

	"stock-tracker/internal/tracker/dto"
)

// ErrTickerNotFound is returned when the provider does not know the ticker.
var ErrTickerNotFound = errors.New("market data: ticker not found")

// ErrNoData is returned when the provider has no data for the requested
// range.
var ErrNoData = errors.New("market data: no data for range")

// MarketDataRepository defines the narrow interface to the external market
// data provider.
type MarketDataRepository interface {
	GetQuote(ctx context.Context, ticker string) (*dto.Quote, error)
	GetDailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]dto.PricePoint, error)
}
