package repository

import (
	"context"
	"errors"
	"time"

	"stock-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceSnapshotRepository defines the interface for price snapshot data
// operations. Writes are last-write-wins per (stock, observed_at).
type PriceSnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *entity.PriceSnapshot) error
	UpsertWithStock(ctx context.Context, snapshot *entity.PriceSnapshot, stock *entity.Stock) error
	UpsertBatchWithStock(ctx context.Context, snapshots []entity.PriceSnapshot, stock *entity.Stock) error
	FindObservedTimes(ctx context.Context, stockID uint, from, to time.Time) (map[int64]struct{}, error)
	FindByStockID(ctx context.Context, stockID uint, limit int) ([]entity.PriceSnapshot, error)
	Count(ctx context.Context) (int64, error)
	CountByStockID(ctx context.Context, stockID uint) (int64, error)
	LatestObservedAt(ctx context.Context) (*time.Time, error)
}

// NewPriceSnapshotRepository creates a new GORM-based price snapshot
// repository.
func NewPriceSnapshotRepository(db *gorm.DB) PriceSnapshotRepository {
	return &priceSnapshotRepository{db: db}
}

type priceSnapshotRepository struct {
	db *gorm.DB
}

func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "observed_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "currency"}),
	}
}

// Upsert stores a snapshot, overwriting the price for an existing
// (stock, observed_at) pair.
func (r *priceSnapshotRepository) Upsert(ctx context.Context, snapshot *entity.PriceSnapshot) error {
	return r.db.WithContext(ctx).Clauses(upsertClause()).Create(snapshot).Error
}

// UpsertWithStock stores a snapshot and the stock's denormalized last price
// fields in a single transaction.
func (r *priceSnapshotRepository) UpsertWithStock(ctx context.Context, snapshot *entity.PriceSnapshot, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(upsertClause()).Create(snapshot).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(stock).Error
	})
}

// UpsertBatchWithStock stores a batch of snapshots for one stock together
// with the stock's updated fields in a single transaction.
func (r *priceSnapshotRepository) UpsertBatchWithStock(ctx context.Context, snapshots []entity.PriceSnapshot, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(snapshots) > 0 {
			if err := tx.Clauses(upsertClause()).Create(&snapshots).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(stock).Error
	})
}

// FindObservedTimes returns the set of observation times already stored for
// a stock in [from, to], keyed by Unix seconds.
func (r *priceSnapshotRepository) FindObservedTimes(ctx context.Context, stockID uint, from, to time.Time) (map[int64]struct{}, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&entity.PriceSnapshot{}).
		Where("stock_id = ? AND observed_at BETWEEN ? AND ?", stockID, from, to).
		Pluck("observed_at", &times).Error
	if err != nil {
		return nil, err
	}

	set := make(map[int64]struct{}, len(times))
	for _, t := range times {
		set[t.Unix()] = struct{}{}
	}
	return set, nil
}

// FindByStockID retrieves a stock's snapshots ordered by observation time.
// A limit of 0 returns the full history.
func (r *priceSnapshotRepository) FindByStockID(ctx context.Context, stockID uint, limit int) ([]entity.PriceSnapshot, error) {
	var snapshots []entity.PriceSnapshot
	q := r.db.WithContext(ctx).Where("stock_id = ?", stockID).Order("observed_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Count returns the total number of snapshots.
func (r *priceSnapshotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.PriceSnapshot{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStockID returns the number of snapshots stored for one stock.
func (r *priceSnapshotRepository) CountByStockID(ctx context.Context, stockID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.PriceSnapshot{}).Where("stock_id = ?", stockID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LatestObservedAt returns the most recent observation time across all
// stocks, or nil when no snapshots exist.
func (r *priceSnapshotRepository) LatestObservedAt(ctx context.Context) (*time.Time, error) {
	var snapshot entity.PriceSnapshot
	err := r.db.WithContext(ctx).Order("observed_at desc").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot.ObservedAt, nil
}
