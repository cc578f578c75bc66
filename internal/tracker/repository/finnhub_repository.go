package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"stock-tracker/internal/tracker/config"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type finnhubRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *resty.Client
	requestLimiter *rate.Limiter
	candleCache    *cache.Cache
}

// NewFinnhubRepository creates a MarketDataRepository backed by the Finnhub
// API. Requests are throttled to stay inside the configured per-minute
// budget and daily close responses are cached in-process.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Finnhub.MaxRequestPerMinute)
	client := resty.New()
	client.SetTimeout(15 * time.Second)

	return &finnhubRepository{
		cfg:            cfg,
		log:            log,
		client:         client,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		candleCache:    cache.New(cfg.Finnhub.CandleCacheTTL, 2*cfg.Finnhub.CandleCacheTTL),
	}
}

// GetQuote fetches the latest trade price for a ticker. A ticker Finnhub
// does not know comes back as an all-zero payload, mapped to
// ErrTickerNotFound.
func (r *finnhubRepository) GetQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": ticker,
			"token":  r.cfg.Finnhub.APIKey,
		}).
		Get(r.cfg.Finnhub.BaseURL + "/quote")
	if err != nil {
		return nil, fmt.Errorf("finnhub quote request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("finnhub quote returned status %d", resp.StatusCode())
	}

	var quote dto.FinnhubQuoteResponse
	if err := json.Unmarshal(resp.Body(), &quote); err != nil {
		return nil, fmt.Errorf("failed to decode finnhub quote: %w", err)
	}

	if quote.Current == 0 && quote.Timestamp == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	var observedAt time.Time
	if quote.Timestamp > 0 {
		observedAt = time.Unix(quote.Timestamp, 0).UTC()
	}

	r.log.DebugContext(ctx, "Fetched quote",
		logger.StringField("ticker", ticker),
		logger.Float64Field("price", quote.Current))

	return &dto.Quote{
		Price:      quote.Current,
		Currency:   r.cfg.Finnhub.Currency,
		ObservedAt: observedAt,
	}, nil
}

// GetDailyCloses fetches the daily close series for a ticker between from
// and to. An empty range comes back with status "no_data", mapped to
// ErrNoData.
func (r *finnhubRepository) GetDailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]dto.PricePoint, error) {
	cacheKey := fmt.Sprintf("candles:%s:%d:%d", ticker, from.Unix(), to.Unix())
	if cached, ok := r.candleCache.Get(cacheKey); ok {
		return cached.([]dto.PricePoint), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     ticker,
			"resolution": "D",
			"from":       strconv.FormatInt(from.Unix(), 10),
			"to":         strconv.FormatInt(to.Unix(), 10),
			"token":      r.cfg.Finnhub.APIKey,
		}).
		Get(r.cfg.Finnhub.BaseURL + "/stock/candle")
	if err != nil {
		return nil, fmt.Errorf("finnhub candle request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("finnhub candle returned status %d", resp.StatusCode())
	}

	var candles dto.FinnhubCandleResponse
	if err := json.Unmarshal(resp.Body(), &candles); err != nil {
		return nil, fmt.Errorf("failed to decode finnhub candles: %w", err)
	}

	if candles.Status == "no_data" {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	if candles.Status != "ok" {
		return nil, fmt.Errorf("finnhub candle returned status %q for %s", candles.Status, ticker)
	}
	if len(candles.Timestamps) != len(candles.Closes) {
		return nil, fmt.Errorf("finnhub candle timestamp/close length mismatch for %s", ticker)
	}

	points := make([]dto.PricePoint, 0, len(candles.Closes))
	for i := range candles.Closes {
		points = append(points, dto.PricePoint{
			ObservedAt: time.Unix(candles.Timestamps[i], 0).UTC(),
			Close:      candles.Closes[i],
			Currency:   r.cfg.Finnhub.Currency,
		})
	}

	r.log.DebugContext(ctx, "Fetched daily closes",
		logger.StringField("ticker", ticker),
		logger.IntField("points", len(points)))

	r.candleCache.Set(cacheKey, points, cache.DefaultExpiration)
	return points, nil
}
