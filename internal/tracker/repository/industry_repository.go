package repository

import (
	"context"
	"errors"

	"stock-tracker/internal/entity"

	"gorm.io/gorm"
)

// IndustryRepository defines the interface for industry data operations.
type IndustryRepository interface {
	FindAll(ctx context.Context) ([]entity.Industry, error)
	FindByID(ctx context.Context, id uint) (*entity.Industry, error)
	FindOrCreateByName(ctx context.Context, name string) (*entity.Industry, error)
	Count(ctx context.Context) (int64, error)
}

// NewIndustryRepository creates a new GORM-based industry repository.
func NewIndustryRepository(db *gorm.DB) IndustryRepository {
	return &industryRepository{db: db}
}

type industryRepository struct {
	db *gorm.DB
}

// FindAll retrieves all industries ordered by name.
func (r *industryRepository) FindAll(ctx context.Context) ([]entity.Industry, error) {
	var industries []entity.Industry
	if err := r.db.WithContext(ctx).Order("name asc").Find(&industries).Error; err != nil {
		return nil, err
	}
	return industries, nil
}

// FindByID retrieves an industry by its ID.
func (r *industryRepository) FindByID(ctx context.Context, id uint) (*entity.Industry, error) {
	var industry entity.Industry
	if err := r.db.WithContext(ctx).First(&industry, id).Error; err != nil {
		return nil, err
	}
	return &industry, nil
}

// FindOrCreateByName returns the industry with the given name, creating it
// when absent.
func (r *industryRepository) FindOrCreateByName(ctx context.Context, name string) (*entity.Industry, error) {
	var industry entity.Industry
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&industry).Error
	if err == nil {
		return &industry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	industry = entity.Industry{Name: name}
	if err := r.db.WithContext(ctx).Create(&industry).Error; err != nil {
		return nil, err
	}
	return &industry, nil
}

// Count returns the number of industries.
func (r *industryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Industry{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
