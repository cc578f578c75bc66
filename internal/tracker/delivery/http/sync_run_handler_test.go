package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSyncRunService records the limit the handler passes through.
type fakeSyncRunService struct {
	limit int
	calls int
}

func (f *fakeSyncRunService) GetRecentRuns(ctx context.Context, limit int) ([]*dto.SyncRunResponse, error) {
	f.calls++
	f.limit = limit
	return []*dto.SyncRunResponse{{
		ID:          1,
		Kind:        "update",
		TriggeredBy: "scheduled",
		Status:      "completed",
		StartedAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}}, nil
}

func setupRunRoutes(fake *fakeSyncRunService) *echo.Echo {
	e := echo.New()
	NewSyncRunHandler(fake, logger.NewNop()).RegisterRoutes(e.Group("/api/runs"))
	return e
}

func TestSyncRunHandler_GetRecentRuns(t *testing.T) {
	t.Parallel()

	fake := &fakeSyncRunService{}
	e := setupRunRoutes(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultRunLimit, fake.limit, "missing limit falls back to the default")

	var body []dto.SyncRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "update", body[0].Kind)
	assert.Equal(t, "scheduled", body[0].TriggeredBy)
}

func TestSyncRunHandler_GetRecentRuns_CustomLimit(t *testing.T) {
	t.Parallel()

	fake := &fakeSyncRunService{}
	e := setupRunRoutes(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=5", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, fake.limit)
}

func TestSyncRunHandler_GetRecentRuns_LimitClamped(t *testing.T) {
	t.Parallel()

	fake := &fakeSyncRunService{}
	e := setupRunRoutes(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=10000", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxRunLimit, fake.limit)
}

func TestSyncRunHandler_GetRecentRuns_InvalidLimit(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"abc", "0", "-3"} {
		fake := &fakeSyncRunService{}
		e := setupRunRoutes(fake)

		req := httptest.NewRequest(http.MethodGet, "/api/runs?limit="+raw, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "limit %q should be rejected", raw)
		assert.Zero(t, fake.calls)
	}
}
