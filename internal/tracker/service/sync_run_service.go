package service

import (
	"context"
	"encoding/json"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/pkg/logger"
)

// SyncRunService serves the recorded update and backfill passes.
type SyncRunService interface {
	GetRecentRuns(ctx context.Context, limit int) ([]*dto.SyncRunResponse, error)
}

// NewSyncRunService creates a new sync run service.
func NewSyncRunService(syncRunRepo repository.SyncRunRepository, log *logger.Logger) SyncRunService {
	return &syncRunService{
		syncRunRepo: syncRunRepo,
		log:         log,
	}
}

type syncRunService struct {
	syncRunRepo repository.SyncRunRepository
	log         *logger.Logger
}

// GetRecentRuns lists the most recent runs, newest first.
func (s *syncRunService) GetRecentRuns(ctx context.Context, limit int) ([]*dto.SyncRunResponse, error) {
	runs, err := s.syncRunRepo.FindRecent(ctx, limit)
	if err != nil {
		s.log.Error("Failed to load sync runs", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.SyncRunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, mapSyncRunResponse(&runs[i]))
	}
	return responses, nil
}

func mapSyncRunResponse(run *entity.SyncRun) *dto.SyncRunResponse {
	resp := &dto.SyncRunResponse{
		ID:          run.ID,
		Kind:        string(run.Kind),
		TriggeredBy: run.TriggeredBy,
		Status:      string(run.Status),
		StartedAt:   run.StartedAt,
		Result:      json.RawMessage(run.Result),
		Error:       run.ErrorMessage.String,
	}
	if run.CompletedAt.Valid {
		completed := run.CompletedAt.Time
		resp.CompletedAt = &completed
		resp.DurationMS = completed.Sub(run.StartedAt).Milliseconds()
	}
	return resp
}
