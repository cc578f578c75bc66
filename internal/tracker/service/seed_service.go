package service

import (
	"context"
	"errors"
	"time"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/pkg/logger"

	"gorm.io/gorm"
)

// seedStock is one row of the default tracked universe.
type seedStock struct {
	ticker   string
	name     string
	industry string
}

// defaultPurchaseDate applies to every seeded stock.
var defaultPurchaseDate = time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

var defaultUniverse = []seedStock{
	{"GOOGL", "Google", "Technology"},
	{"NVDA", "Nvidia", "Technology"},
	{"MU", "Micron", "Technology"},
	{"WDC", "Western Digital", "Technology"},
	{"STX", "Seagate", "Technology"},
	{"AVGO", "Broadcom", "Technology"},
	{"KLAC", "KLA", "Technology"},
	{"LRCX", "Lam Research", "Technology"},
	{"MSFT", "Microsoft", "Technology"},
	{"APP", "AppLovin", "Technology"},
	{"PLTR", "Palantir", "Technology"},
	{"SNDK", "Sandisk", "Technology"},
	{"CLS", "Celestica", "Technology"},
	{"TSM", "TSMC", "Technology"},
	{"INTC", "Intel", "Technology"},
	{"CAT", "Caterpillar", "Industrials"},
	{"BWXT", "BWX Technologies", "Industrials"},
	{"HWM", "Howmet Aerospace", "Industrials"},
	{"GE", "General Electric", "Industrials"},
	{"JPM", "JPMorgan", "Financials"},
	{"BAC", "Bank of America", "Financials"},
	{"HOOD", "Robinhood", "Financials"},
	{"MS", "Morgan Stanley", "Financials"},
	{"AXP", "American Express", "Financials"},
	{"V", "Visa", "Financials"},
	{"ALLY", "Ally", "Financials"},
	{"ISRG", "Intuitive Surgical", "Healthcare"},
	{"JNJ", "Johnson & Johnson", "Healthcare"},
	{"LLY", "Eli Lilly", "Healthcare"},
	{"VKTX", "Viking Therapeutics", "Healthcare"},
	{"DVAX", "Dynavax", "Healthcare"},
	{"OMER", "Omeros", "Healthcare"},
}

// SeedService loads the default tracked universe. Seeding is idempotent:
// tickers that already exist are left untouched.
type SeedService interface {
	Seed(ctx context.Context) (*dto.SeedResult, error)
}

// NewSeedService creates a new seed service.
func NewSeedService(stockRepo repository.StockRepository, industryRepo repository.IndustryRepository, log *logger.Logger) SeedService {
	return &seedService{
		stockRepo:    stockRepo,
		industryRepo: industryRepo,
		log:          log,
	}
}

type seedService struct {
	stockRepo    repository.StockRepository
	industryRepo repository.IndustryRepository
	log          *logger.Logger
}

// Seed inserts the default industries and stocks that are not present yet.
func (s *seedService) Seed(ctx context.Context) (*dto.SeedResult, error) {
	industriesBefore, err := s.industryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.SeedResult{}
	industries := make(map[string]*entity.Industry)

	for _, seed := range defaultUniverse {
		industry, ok := industries[seed.industry]
		if !ok {
			industry, err = s.industryRepo.FindOrCreateByName(ctx, seed.industry)
			if err != nil {
				s.log.Error("Failed to seed industry", logger.ErrorField(err), logger.StringField("industry", seed.industry))
				return nil, err
			}
			industries[seed.industry] = industry
		}

		_, err := s.stockRepo.FindByTicker(ctx, seed.ticker)
		if err == nil {
			result.StocksExisting++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		stock := &entity.Stock{
			Ticker:       seed.ticker,
			Name:         seed.name,
			Active:       true,
			IndustryID:   &industry.ID,
			PurchaseDate: defaultPurchaseDate,
		}
		if err := s.stockRepo.Create(ctx, stock); err != nil {
			s.log.Error("Failed to seed stock", logger.ErrorField(err), logger.StringField("ticker", seed.ticker))
			return nil, err
		}
		result.StocksCreated++
	}

	industriesAfter, err := s.industryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	result.IndustriesCreated = int(industriesAfter - industriesBefore)

	s.log.Info("Universe seeded",
		logger.IntField("industries_created", result.IndustriesCreated),
		logger.IntField("stocks_created", result.StocksCreated),
		logger.IntField("stocks_existing", result.StocksExisting),
	)
	return result, nil
}
