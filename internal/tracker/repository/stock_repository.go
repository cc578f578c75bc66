package repository

import (
	"context"

	"stock-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository defines the interface for stock data operations.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	FindAll(ctx context.Context) ([]entity.Stock, error)
	FindActive(ctx context.Context) ([]entity.Stock, error)
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	FindByTicker(ctx context.Context, ticker string) (*entity.Stock, error)
	FindMissingPurchasePrice(ctx context.Context) ([]entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	Count(ctx context.Context) (int64, error)
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// Create creates a new stock.
func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// FindAll retrieves all stocks with their industry, ordered by ticker.
func (r *stockRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Preload("Industry").Order("ticker asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindActive retrieves all active stocks, ordered by ticker.
func (r *stockRepository) FindActive(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Preload("Industry").Where("active = ?", true).Order("ticker asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByID retrieves a stock by its ID.
func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Preload("Industry").First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// FindByTicker retrieves a stock by its ticker symbol.
func (r *stockRepository) FindByTicker(ctx context.Context, ticker string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Preload("Industry").Where("ticker = ?", ticker).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// FindMissingPurchasePrice retrieves stocks that still need their purchase
// price filled from history.
func (r *stockRepository) FindMissingPurchasePrice(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Where("purchase_price IS NULL").Order("ticker asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Update persists changes to an existing stock. Associations are left
// untouched.
func (r *stockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(stock).Error
}

// Count returns the number of stocks.
func (r *stockRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Stock{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
