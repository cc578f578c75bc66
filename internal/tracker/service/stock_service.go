package service

import (
	"context"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/pkg/logger"
)

// StockService serves individual stock reads.
type StockService interface {
	GetStocks(ctx context.Context) ([]dto.StockRow, error)
	GetStockDetail(ctx context.Context, id uint) (*dto.StockDetailResponse, error)
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo repository.StockRepository, snapshotRepo repository.PriceSnapshotRepository, log *logger.Logger) StockService {
	return &stockService{
		stockRepo:    stockRepo,
		snapshotRepo: snapshotRepo,
		log:          log,
	}
}

type stockService struct {
	stockRepo    repository.StockRepository
	snapshotRepo repository.PriceSnapshotRepository
	log          *logger.Logger
}

// GetStocks lists every stock with its computed returns, ordered by ticker.
func (s *stockService) GetStocks(ctx context.Context) ([]dto.StockRow, error) {
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load stocks", logger.ErrorField(err))
		return nil, err
	}

	rows := make([]dto.StockRow, 0, len(stocks))
	for i := range stocks {
		rows = append(rows, mapStockRow(&stocks[i]))
	}
	return rows, nil
}

// GetStockDetail returns one stock with its stored price history, oldest
// observation first.
func (s *stockService) GetStockDetail(ctx context.Context, id uint) (*dto.StockDetailResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.FindByStockID(ctx, stock.ID, 0)
	if err != nil {
		s.log.Error("Failed to load price history", logger.ErrorField(err), logger.Field("stock_id", id))
		return nil, err
	}

	history := make([]dto.PricePointRow, 0, len(snapshots))
	for _, snap := range snapshots {
		history = append(history, dto.PricePointRow{
			ObservedAt: snap.ObservedAt,
			Price:      snap.Price,
			Currency:   snap.Currency,
		})
	}

	return &dto.StockDetailResponse{
		StockRow: mapStockRow(stock),
		History:  history,
	}, nil
}
