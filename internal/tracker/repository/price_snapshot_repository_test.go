package repository

import (
	"context"
	"testing"
	"time"

	"stock-tracker/internal/entity"
	"stock-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceSnapshotRepository_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceSnapshotRepository(db)
	ctx := context.Background()

	stock := seedStock(t, db, "NVDA")
	observedAt := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{
		StockID:    stock.ID,
		ObservedAt: observedAt,
		Price:      120.0,
	}))
	require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{
		StockID:    stock.ID,
		ObservedAt: observedAt,
		Price:      121.5,
	}))

	count, err := repo.CountByStockID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "same observation time should not create a second row")

	snapshots, err := repo.FindByStockID(ctx, stock.ID, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 121.5, snapshots[0].Price, "last write should win")
}

func TestPriceSnapshotRepository_UpsertWithStock(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceSnapshotRepository(db)
	ctx := context.Background()

	stock := seedStock(t, db, "MU")
	observedAt := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	stock.LastPrice = utils.ToPointer(95.25)
	stock.LastPriceAt = &observedAt
	err := repo.UpsertWithStock(ctx, &entity.PriceSnapshot{
		StockID:    stock.ID,
		ObservedAt: observedAt,
		Price:      95.25,
	}, stock)
	require.NoError(t, err)

	var persisted entity.Stock
	require.NoError(t, db.First(&persisted, stock.ID).Error)
	require.NotNil(t, persisted.LastPrice)
	assert.Equal(t, 95.25, *persisted.LastPrice)
	require.NotNil(t, persisted.LastPriceAt)
	assert.Equal(t, observedAt.Unix(), persisted.LastPriceAt.Unix())

	count, err := repo.CountByStockID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPriceSnapshotRepository_UpsertBatchWithStock(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceSnapshotRepository(db)
	ctx := context.Background()

	stock := seedStock(t, db, "WDC")
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	snapshots := []entity.PriceSnapshot{
		{StockID: stock.ID, ObservedAt: base, Price: 60.0},
		{StockID: stock.ID, ObservedAt: base.AddDate(0, 0, 1), Price: 61.0},
		{StockID: stock.ID, ObservedAt: base.AddDate(0, 0, 2), Price: 62.0},
	}
	stock.PurchasePrice = utils.ToPointer(60.0)
	require.NoError(t, repo.UpsertBatchWithStock(ctx, snapshots, stock))

	count, err := repo.CountByStockID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var persisted entity.Stock
	require.NoError(t, db.First(&persisted, stock.ID).Error)
	require.NotNil(t, persisted.PurchasePrice)
	assert.Equal(t, 60.0, *persisted.PurchasePrice)

	// An empty batch still persists the stock changes.
	persisted.LastPrice = utils.ToPointer(62.0)
	require.NoError(t, repo.UpsertBatchWithStock(ctx, nil, &persisted))

	count, err = repo.CountByStockID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestPriceSnapshotRepository_FindObservedTimes(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceSnapshotRepository(db)
	ctx := context.Background()

	stock := seedStock(t, db, "STX")
	other := seedStock(t, db, "CLS")
	base := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{
			StockID:    stock.ID,
			ObservedAt: base.AddDate(0, 0, i),
			Price:      100.0 + float64(i),
		}))
	}
	require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{
		StockID:    other.ID,
		ObservedAt: base,
		Price:      50.0,
	}))

	times, err := repo.FindObservedTimes(ctx, stock.ID, base, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, times, 2, "window should exclude the third observation")
	assert.Contains(t, times, base.Unix())
	assert.Contains(t, times, base.AddDate(0, 0, 1).Unix())
	assert.NotContains(t, times, base.AddDate(0, 0, 2).Unix())
}

func TestPriceSnapshotRepository_FindByStockID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceSnapshotRepository(db)
	ctx := context.Background()

	stock := seedStock(t, db, "AVGO")
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order to verify the ascending sort.
	for _, offset := range []int{2, 0, 1} {
		require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{
			StockID:    stock.ID,
			ObservedAt: base.AddDate(0, 0, offset),
			Price:      200.0 + float64(offset),
		}))
	}

	snapshots, err := repo.FindByStockID(ctx, stock.ID, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0].ObservedAt.Before(snapshots[1].ObservedAt))
	assert.True(t, snapshots[1].ObservedAt.Before(snapshots[2].ObservedAt))

	limited, err := repo.FindByStockID(ctx, stock.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestPriceSnapshotRepository_LatestObservedAt(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPriceSnapshotRepository(db)
	ctx := context.Background()

	latest, err := repo.LatestObservedAt(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "empty table should yield nil")

	stock := seedStock(t, db, "GE")
	newest := time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{StockID: stock.ID, ObservedAt: newest.AddDate(0, 0, -1), Price: 150.0}))
	require.NoError(t, repo.Upsert(ctx, &entity.PriceSnapshot{StockID: stock.ID, ObservedAt: newest, Price: 151.0}))

	latest, err = repo.LatestObservedAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newest.Unix(), latest.Unix())
}
