package service

import (
	"context"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/pkg/logger"
)

// IndustryService serves industry reads and aggregates.
type IndustryService interface {
	GetIndustries(ctx context.Context) ([]dto.IndustryRow, error)
	GetIndustryDetail(ctx context.Context, id uint) (*dto.IndustryDetailResponse, error)
}

// NewIndustryService creates a new industry service.
func NewIndustryService(industryRepo repository.IndustryRepository, stockRepo repository.StockRepository, log *logger.Logger) IndustryService {
	return &industryService{
		industryRepo: industryRepo,
		stockRepo:    stockRepo,
		log:          log,
	}
}

type industryService struct {
	industryRepo repository.IndustryRepository
	stockRepo    repository.StockRepository
	log          *logger.Logger
}

// GetIndustries lists every industry with its member counts and unweighted
// average return, ordered by name.
func (s *industryService) GetIndustries(ctx context.Context) ([]dto.IndustryRow, error) {
	industries, err := s.industryRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load industries", logger.ErrorField(err))
		return nil, err
	}
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load stocks for industries", logger.ErrorField(err))
		return nil, err
	}

	return aggregateIndustries(industries, stocks), nil
}

// GetIndustryDetail returns one industry's aggregate plus its member rows,
// best return first.
func (s *industryService) GetIndustryDetail(ctx context.Context, id uint) (*dto.IndustryDetailResponse, error) {
	industry, err := s.industryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load stocks for industry detail", logger.ErrorField(err), logger.Field("industry_id", id))
		return nil, err
	}

	members := make([]entity.Stock, 0)
	for i := range stocks {
		if stocks[i].IndustryID != nil && *stocks[i].IndustryID == industry.ID {
			members = append(members, stocks[i])
		}
	}

	rows := aggregateIndustries([]entity.Industry{*industry}, members)

	memberRows := make([]dto.StockRow, 0, len(members))
	for i := range members {
		memberRows = append(memberRows, mapStockRow(&members[i]))
	}
	sortStockRows(memberRows)

	return &dto.IndustryDetailResponse{
		IndustryRow: rows[0],
		Stocks:      memberRows,
	}, nil
}
