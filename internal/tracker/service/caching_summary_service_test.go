package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/common"
	"stock-tracker/pkg/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSummaryService counts calls and returns a canned response.
type fakeSummaryService struct {
	getSummary func(ctx context.Context) (*dto.SummaryResponse, error)
	calls      int
}

func (f *fakeSummaryService) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	f.calls++
	if f.getSummary == nil {
		return &dto.SummaryResponse{}, nil
	}
	return f.getSummary(ctx)
}

func fixedSummary() *dto.SummaryResponse {
	return &dto.SummaryResponse{
		NowUTC:     time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		Stocks:     []dto.StockRow{{ID: 1, Ticker: "NVDA", Name: "NVDA Inc", PurchaseDate: "2026-01-02"}},
		Industries: []dto.IndustryRow{{ID: 1, Name: "Technology", StockCount: 1}},
	}
}

func TestCachingSummaryService_DefaultTTL(t *testing.T) {
	t.Parallel()

	svc := NewCachingSummaryService(&fakeSummaryService{}, nil, 0, logger.NewNop())
	assert.Equal(t, time.Minute, svc.ttl)

	svc = NewCachingSummaryService(&fakeSummaryService{}, nil, 5*time.Minute, logger.NewNop())
	assert.Equal(t, 5*time.Minute, svc.ttl)
}

func TestCachingSummaryService_NilRedisPassesThrough(t *testing.T) {
	t.Parallel()

	inner := &fakeSummaryService{
		getSummary: func(ctx context.Context) (*dto.SummaryResponse, error) {
			return fixedSummary(), nil
		},
	}
	svc := NewCachingSummaryService(inner, nil, time.Minute, logger.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixedSummary(), summary)
	assert.Equal(t, 1, inner.calls)

	// Invalidate without a client is a no-op.
	svc.Invalidate(context.Background())
}

func TestCachingSummaryService_CacheHitSkipsInner(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := fixedSummary()
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet(common.RedisKeySummary).SetVal(string(payload))

	inner := &fakeSummaryService{}
	svc := NewCachingSummaryService(inner, rdb, time.Minute, logger.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, summary)
	assert.Equal(t, 0, inner.calls, "inner service must not run on a cache hit")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSummaryService_CacheMissFillsCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := fixedSummary()
	payload, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectGet(common.RedisKeySummary).RedisNil()
	mock.ExpectSet(common.RedisKeySummary, payload, time.Minute).SetVal("OK")

	inner := &fakeSummaryService{
		getSummary: func(ctx context.Context) (*dto.SummaryResponse, error) {
			return fixedSummary(), nil
		},
	}
	svc := NewCachingSummaryService(inner, rdb, time.Minute, logger.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, summary)
	assert.Equal(t, 1, inner.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSummaryService_CorruptedCacheIsDropped(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := fixedSummary()
	payload, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectGet(common.RedisKeySummary).SetVal("not json")
	mock.ExpectDel(common.RedisKeySummary).SetVal(1)
	mock.ExpectSet(common.RedisKeySummary, payload, time.Minute).SetVal("OK")

	inner := &fakeSummaryService{
		getSummary: func(ctx context.Context) (*dto.SummaryResponse, error) {
			return fixedSummary(), nil
		},
	}
	svc := NewCachingSummaryService(inner, rdb, time.Minute, logger.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSummaryService_InnerErrorPropagates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("store unavailable")
	mock.ExpectGet(common.RedisKeySummary).RedisNil()

	inner := &fakeSummaryService{
		getSummary: func(ctx context.Context) (*dto.SummaryResponse, error) {
			return nil, expectedErr
		},
	}
	svc := NewCachingSummaryService(inner, rdb, time.Minute, logger.NewNop())

	_, err := svc.GetSummary(context.Background())
	require.ErrorIs(t, err, expectedErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSummaryService_InvalidateDeletesKey(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel(common.RedisKeySummary).SetVal(1)

	svc := NewCachingSummaryService(&fakeSummaryService{}, rdb, time.Minute, logger.NewNop())
	svc.Invalidate(context.Background())

	require.NoError(t, mock.ExpectationsWereMet())
}
