package repository

import (
	"context"

	"stock-tracker/internal/entity"

	"gorm.io/gorm"
)

// SyncRunRepository defines the interface for sync run records.
type SyncRunRepository interface {
	Create(ctx context.Context, run *entity.SyncRun) error
	Update(ctx context.Context, run *entity.SyncRun) error
	FindRecent(ctx context.Context, limit int) ([]entity.SyncRun, error)
}

// NewSyncRunRepository creates a new GORM-based sync run repository.
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

type syncRunRepository struct {
	db *gorm.DB
}

// Create creates a new sync run record.
func (r *syncRunRepository) Create(ctx context.Context, run *entity.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update persists changes to a sync run record.
func (r *syncRunRepository) Update(ctx context.Context, run *entity.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindRecent retrieves the most recent runs, newest first.
func (r *syncRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.SyncRun, error) {
	var runs []entity.SyncRun
	q := r.db.WithContext(ctx).Order("started_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
