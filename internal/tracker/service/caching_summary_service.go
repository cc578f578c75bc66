package service

import (
	"context"
	"encoding/json"
	"time"

	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/common"
	"stock-tracker/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// SummaryInvalidator drops cached summary state after writes change the
// underlying data.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context)
}

// CachingSummaryService decorates a SummaryService with Redis caching. A
// nil client passes every call straight through, so the decorator can be
// wired unconditionally.
type CachingSummaryService struct {
	inner SummaryService
	rdb   *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachingSummaryService decorates a SummaryService with Redis caching.
// If ttl is 0, it defaults to one minute.
func NewCachingSummaryService(inner SummaryService, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachingSummaryService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingSummaryService{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log,
	}
}

// GetSummary serves the cached payload when fresh, falling back to the
// inner service. The cached now_utc keeps its computed-at value.
func (c *CachingSummaryService) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	if c.rdb == nil {
		return c.inner.GetSummary(ctx)
	}

	if b, err := c.rdb.Get(ctx, common.RedisKeySummary).Bytes(); err == nil && len(b) > 0 {
		var cached dto.SummaryResponse
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
		// Corrupted entry, drop it and recompute.
		_ = c.rdb.Del(ctx, common.RedisKeySummary).Err()
	}

	summary, err := c.inner.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := c.rdb.Set(ctx, common.RedisKeySummary, payload, c.ttl).Err(); err != nil {
			c.log.Warn("Failed to cache summary", logger.ErrorField(err))
		}
	}

	return summary, nil
}

// Invalidate drops the cached summary. Best effort.
func (c *CachingSummaryService) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, common.RedisKeySummary).Err(); err != nil {
		c.log.Warn("Failed to invalidate summary cache", logger.ErrorField(err))
	}
}
