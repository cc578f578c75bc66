package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpdaterService records the arguments the handler passes through.
type fakeUpdaterService struct {
	updateTrigger   string
	backfillMissing *bool
	backfillCalls   int
	err             error
}

func (f *fakeUpdaterService) RunUpdate(ctx context.Context, triggeredBy string) (*dto.UpdateResult, error) {
	f.updateTrigger = triggeredBy
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UpdateResult{Updated: 2, Skipped: 1}, nil
}

func (f *fakeUpdaterService) RunBackfill(ctx context.Context, onlyMissing bool, triggeredBy string) (*dto.BackfillResult, error) {
	f.backfillCalls++
	f.backfillMissing = &onlyMissing
	if f.err != nil {
		return nil, f.err
	}
	return &dto.BackfillResult{Inserted: 7}, nil
}

func setupActionRoutes(fake *fakeUpdaterService) *echo.Echo {
	e := echo.New()
	NewActionHandler(fake, logger.NewNop()).RegisterRoutes(e.Group("/api/actions"))
	return e
}

func TestActionHandler_TriggerUpdate(t *testing.T) {
	t.Parallel()

	fake := &fakeUpdaterService{}
	e := setupActionRoutes(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/actions/update", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "manual", fake.updateTrigger)

	var body dto.UpdateActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	require.NotNil(t, body.Result)
	assert.Equal(t, 2, body.Result.Updated)
}

func TestActionHandler_TriggerUpdate_Error(t *testing.T) {
	t.Parallel()

	fake := &fakeUpdaterService{err: errors.New("provider down")}
	e := setupActionRoutes(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/actions/update", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "provider down", body["error"])
}

func TestActionHandler_TriggerBackfill_Defaults(t *testing.T) {
	t.Parallel()

	fake := &fakeUpdaterService{}
	e := setupActionRoutes(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/actions/backfill", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.backfillMissing)
	assert.True(t, *fake.backfillMissing, "only_missing defaults to true")

	var body dto.BackfillActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	require.NotNil(t, body.Result)
	assert.Equal(t, 7, body.Result.Inserted)
}

func TestActionHandler_TriggerBackfill_OnlyMissingFalse(t *testing.T) {
	t.Parallel()

	fake := &fakeUpdaterService{}
	e := setupActionRoutes(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/actions/backfill?only_missing=false", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.backfillMissing)
	assert.False(t, *fake.backfillMissing)
}

func TestActionHandler_TriggerBackfill_InvalidFlag(t *testing.T) {
	t.Parallel()

	fake := &fakeUpdaterService{}
	e := setupActionRoutes(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/actions/backfill?only_missing=definitely", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, fake.backfillCalls, "invalid input must not start a pass")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid only_missing value", body["error"])
}
