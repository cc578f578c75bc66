package service

import (
	"context"
	"time"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/pkg/logger"
)

// SummaryService builds the aggregated dashboard payload. It only reads;
// an empty store yields empty collections, not an error.
type SummaryService interface {
	GetSummary(ctx context.Context) (*dto.SummaryResponse, error)
}

// NewSummaryService creates a new summary service.
func NewSummaryService(stockRepo repository.StockRepository, industryRepo repository.IndustryRepository, log *logger.Logger) SummaryService {
	return &summaryService{
		stockRepo:    stockRepo,
		industryRepo: industryRepo,
		log:          log,
	}
}

type summaryService struct {
	stockRepo    repository.StockRepository
	industryRepo repository.IndustryRepository
	log          *logger.Logger
}

// GetSummary computes per-stock returns and per-industry unweighted
// averages over everything currently stored.
func (s *summaryService) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load stocks for summary", logger.ErrorField(err))
		return nil, err
	}

	industries, err := s.industryRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load industries for summary", logger.ErrorField(err))
		return nil, err
	}

	stockRows := make([]dto.StockRow, 0, len(stocks))
	for i := range stocks {
		stockRows = append(stockRows, mapStockRow(&stocks[i]))
	}
	sortStockRows(stockRows)

	industryRows := aggregateIndustries(industries, stocks)
	sortIndustryRows(industryRows)

	return &dto.SummaryResponse{
		NowUTC:     time.Now().UTC(),
		Stocks:     stockRows,
		Industries: industryRows,
	}, nil
}
