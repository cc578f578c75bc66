package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/pkg/logger"
	"stock-tracker/pkg/utils"

	"gorm.io/datatypes"
)

// UpdaterService reconciles stored prices with the market data provider.
// One failing ticker never aborts a pass.
type UpdaterService interface {
	RunUpdate(ctx context.Context, triggeredBy string) (*dto.UpdateResult, error)
	RunBackfill(ctx context.Context, onlyMissing bool, triggeredBy string) (*dto.BackfillResult, error)
}

// NewUpdaterService creates a new updater service. The invalidator may be
// nil when no summary cache is configured.
func NewUpdaterService(
	stockRepo repository.StockRepository,
	snapshotRepo repository.PriceSnapshotRepository,
	syncRunRepo repository.SyncRunRepository,
	marketRepo repository.MarketDataRepository,
	invalidator SummaryInvalidator,
	log *logger.Logger,
) UpdaterService {
	return &updaterService{
		stockRepo:    stockRepo,
		snapshotRepo: snapshotRepo,
		syncRunRepo:  syncRunRepo,
		marketRepo:   marketRepo,
		invalidator:  invalidator,
		log:          log,
	}
}

type updaterService struct {
	stockRepo    repository.StockRepository
	snapshotRepo repository.PriceSnapshotRepository
	syncRunRepo  repository.SyncRunRepository
	marketRepo   repository.MarketDataRepository
	invalidator  SummaryInvalidator
	log          *logger.Logger
}

// RunUpdate fetches the latest quote for every active stock and stores one
// snapshot per new observation.
func (s *updaterService) RunUpdate(ctx context.Context, triggeredBy string) (*dto.UpdateResult, error) {
	run, err := s.startRun(ctx, entity.SyncRunKindUpdate, triggeredBy)
	if err != nil {
		return nil, err
	}

	stocks, err := s.stockRepo.FindActive(ctx)
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, err
	}

	result := &dto.UpdateResult{}
	for i := range stocks {
		outcome := s.updateStock(ctx, &stocks[i])
		switch outcome.Status {
		case dto.StatusUpdated:
			result.Updated++
		case dto.StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		result.Details = append(result.Details, outcome)
	}

	s.completeRun(ctx, run, result)
	s.invalidateSummary(ctx)

	s.log.Info("Update pass finished",
		logger.StringField("triggered_by", triggeredBy),
		logger.IntField("updated", result.Updated),
		logger.IntField("skipped", result.Skipped),
		logger.IntField("failed", result.Failed))

	return result, nil
}

func (s *updaterService) updateStock(ctx context.Context, stock *entity.Stock) dto.TickerOutcome {
	outcome := dto.TickerOutcome{Ticker: stock.Ticker}

	quote, err := s.marketRepo.GetQuote(ctx, stock.Ticker)
	if err != nil {
		if errors.Is(err, repository.ErrTickerNotFound) || errors.Is(err, repository.ErrNoData) {
			s.log.Warn("No quote for ticker", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
			outcome.Status = dto.StatusSkipped
			outcome.Error = err.Error()
			return outcome
		}
		s.log.Error("Failed to fetch quote", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		outcome.Status = dto.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	observedAt := quote.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	observedAt = utils.NormalizeUTC(observedAt)

	// The provider reports the same trade timestamp until a new trade
	// happens; re-running within that window is a no-op.
	if stock.LastPriceAt != nil && !observedAt.After(*stock.LastPriceAt) {
		outcome.Status = dto.StatusSkipped
		return outcome
	}

	s.fillPurchasePrice(ctx, stock)

	snapshot := &entity.PriceSnapshot{
		StockID:    stock.ID,
		ObservedAt: observedAt,
		Price:      quote.Price,
		Currency:   utils.ToPointer(quote.Currency),
	}
	stock.LastPrice = utils.ToPointer(quote.Price)
	stock.LastPriceAt = utils.ToPointer(observedAt)
	stock.LastCurrency = utils.ToPointer(quote.Currency)

	if err := s.snapshotRepo.UpsertWithStock(ctx, snapshot, stock); err != nil {
		s.log.Error("Failed to store snapshot", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		outcome.Status = dto.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = dto.StatusUpdated
	return outcome
}

// RunBackfill loads the daily close history for every active stock from its
// purchase date to tomorrow. With onlyMissing, timestamps already stored are
// left alone; otherwise they are overwritten.
func (s *updaterService) RunBackfill(ctx context.Context, onlyMissing bool, triggeredBy string) (*dto.BackfillResult, error) {
	run, err := s.startRun(ctx, entity.SyncRunKindBackfill, triggeredBy)
	if err != nil {
		return nil, err
	}

	stocks, err := s.stockRepo.FindActive(ctx)
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, err
	}

	result := &dto.BackfillResult{}
	for i := range stocks {
		outcome := s.backfillStock(ctx, &stocks[i], onlyMissing)
		if outcome.Status == dto.StatusFailed {
			result.Failed++
		} else {
			result.Inserted += outcome.Inserted
			result.Skipped += outcome.Skipped
		}
		result.Details = append(result.Details, outcome)
	}

	s.completeRun(ctx, run, result)
	s.invalidateSummary(ctx)

	s.log.Info("Backfill pass finished",
		logger.StringField("triggered_by", triggeredBy),
		logger.Field("only_missing", onlyMissing),
		logger.IntField("inserted", result.Inserted),
		logger.IntField("skipped", result.Skipped),
		logger.IntField("failed", result.Failed))

	return result, nil
}

func (s *updaterService) backfillStock(ctx context.Context, stock *entity.Stock, onlyMissing bool) dto.BackfillTickerOutcome {
	outcome := dto.BackfillTickerOutcome{Ticker: stock.Ticker}

	from := utils.DateOnly(stock.PurchaseDate)
	to := utils.DateOnly(time.Now()).AddDate(0, 0, 1)

	points, err := s.marketRepo.GetDailyCloses(ctx, stock.Ticker, from, to)
	if err != nil {
		s.log.Warn("Failed to fetch history", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		outcome.Status = dto.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	if len(points) == 0 {
		outcome.Status = dto.StatusFailed
		outcome.Error = "empty history"
		return outcome
	}

	// Points are keyed by exact observation time; a duplicate timestamp
	// within one response collapses, last occurrence wins.
	unique := make(map[int64]dto.PricePoint, len(points))
	keys := make([]int64, 0, len(points))
	for _, p := range points {
		p.ObservedAt = utils.NormalizeUTC(p.ObservedAt)
		key := p.ObservedAt.Unix()
		if _, ok := unique[key]; !ok {
			keys = append(keys, key)
		}
		unique[key] = p
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	existing, err := s.snapshotRepo.FindObservedTimes(ctx, stock.ID, from, to)
	if err != nil {
		outcome.Status = dto.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	var batch []entity.PriceSnapshot
	skipped := 0
	for _, key := range keys {
		if _, ok := existing[key]; ok && onlyMissing {
			skipped++
			continue
		}
		p := unique[key]
		batch = append(batch, entity.PriceSnapshot{
			StockID:    stock.ID,
			ObservedAt: p.ObservedAt,
			Price:      p.Close,
			Currency:   utils.ToPointer(p.Currency),
		})
	}

	s.applyPurchaseFill(stock, points)

	// Advance the denormalized last price to the newest close.
	newest := unique[keys[len(keys)-1]]
	if stock.LastPriceAt == nil || newest.ObservedAt.After(*stock.LastPriceAt) {
		stock.LastPrice = utils.ToPointer(newest.Close)
		stock.LastPriceAt = utils.ToPointer(newest.ObservedAt)
		stock.LastCurrency = utils.ToPointer(newest.Currency)
	}

	if err := s.snapshotRepo.UpsertBatchWithStock(ctx, batch, stock); err != nil {
		s.log.Error("Failed to store history", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		outcome.Status = dto.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = dto.StatusCompleted
	outcome.Inserted = len(batch)
	outcome.Skipped = skipped
	return outcome
}

// fillPurchasePrice sets a missing purchase price from the first close on
// or after the purchase date. Failures are logged and retried on the next
// pass.
func (s *updaterService) fillPurchasePrice(ctx context.Context, stock *entity.Stock) {
	if stock.PurchasePrice != nil {
		return
	}

	from := utils.DateOnly(stock.PurchaseDate)
	points, err := s.marketRepo.GetDailyCloses(ctx, stock.Ticker, from, from.AddDate(0, 0, 7))
	if err != nil {
		s.log.Debug("No history for purchase price fill", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		return
	}

	s.applyPurchaseFill(stock, points)
}

func (s *updaterService) applyPurchaseFill(stock *entity.Stock, points []dto.PricePoint) {
	if stock.PurchasePrice != nil {
		return
	}

	from := utils.DateOnly(stock.PurchaseDate)
	var best *dto.PricePoint
	for i := range points {
		if points[i].ObservedAt.Before(from) {
			continue
		}
		if best == nil || points[i].ObservedAt.Before(best.ObservedAt) {
			best = &points[i]
		}
	}
	if best == nil {
		return
	}

	stock.PurchasePrice = utils.ToPointer(best.Close)
	stock.PurchaseCurrency = utils.ToPointer(best.Currency)
	s.log.Info("Filled purchase price",
		logger.StringField("ticker", stock.Ticker),
		logger.Float64Field("price", best.Close))
}

func (s *updaterService) startRun(ctx context.Context, kind entity.SyncRunKind, triggeredBy string) (*entity.SyncRun, error) {
	run := &entity.SyncRun{
		Kind:        kind,
		TriggeredBy: triggeredBy,
		Status:      entity.StatusRunning,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.syncRunRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	return run, nil
}

func (s *updaterService) completeRun(ctx context.Context, run *entity.SyncRun, result interface{}) {
	if payload, err := json.Marshal(result); err == nil {
		run.Result = datatypes.JSON(payload)
	}
	run.Status = entity.StatusCompleted
	run.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if err := s.syncRunRepo.Update(ctx, run); err != nil {
		s.log.Error("Failed to update sync run", logger.ErrorField(err), logger.Field("run_id", run.ID))
	}
}

func (s *updaterService) failRun(ctx context.Context, run *entity.SyncRun, cause error) {
	run.Status = entity.StatusFailed
	run.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	run.ErrorMessage = sql.NullString{String: cause.Error(), Valid: true}
	if err := s.syncRunRepo.Update(ctx, run); err != nil {
		s.log.Error("Failed to update sync run", logger.ErrorField(err), logger.Field("run_id", run.ID))
	}
}

func (s *updaterService) invalidateSummary(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx)
}
