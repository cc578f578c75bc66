package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/logger"
	"stock-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSummaryService returns a canned summary or error.
type fakeSummaryService struct {
	summary *dto.SummaryResponse
	err     error
}

func (f *fakeSummaryService) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	return f.summary, f.err
}

func TestSummaryHandler_GetSummary(t *testing.T) {
	t.Parallel()

	fake := &fakeSummaryService{
		summary: &dto.SummaryResponse{
			NowUTC: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
			Stocks: []dto.StockRow{{
				ID:           1,
				Ticker:       "NVDA",
				Name:         "Nvidia",
				PurchaseDate: "2026-01-02",
				ReturnPct:    utils.ToPointer(10.0),
			}},
			Industries: []dto.IndustryRow{{
				ID:           1,
				Name:         "Technology",
				StockCount:   1,
				PricedCount:  1,
				AvgReturnPct: utils.ToPointer(10.0),
			}},
		},
	}

	e := echo.New()
	NewSummaryHandler(fake, logger.NewNop()).RegisterRoutes(e.Group("/api/summary"))

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stocks, 1)
	assert.Equal(t, "NVDA", body.Stocks[0].Ticker)
	require.NotNil(t, body.Stocks[0].ReturnPct)
	assert.Equal(t, 10.0, *body.Stocks[0].ReturnPct)
	require.Len(t, body.Industries, 1)
	assert.Equal(t, "Technology", body.Industries[0].Name)
	assert.False(t, body.NowUTC.IsZero())
}

func TestSummaryHandler_GetSummary_Error(t *testing.T) {
	t.Parallel()

	fake := &fakeSummaryService{err: errors.New("store unavailable")}

	e := echo.New()
	NewSummaryHandler(fake, logger.NewNop()).RegisterRoutes(e.Group("/api/summary"))

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to build summary", body["error"])
}
