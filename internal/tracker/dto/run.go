package dto

import (
	"encoding/json"
	"time"
)

// SyncRunResponse is the API view of a recorded update or backfill pass.
type SyncRunResponse struct {
	ID          uint            `json:"id"`
	Kind        string          `json:"kind"`
	TriggeredBy string          `json:"triggered_by"`
	Status      string          `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	DurationMS  int64           `json:"duration_ms"`
	Result      json.RawMessage `json:"result,omitempty" swaggertype:"object"`
	Error       string          `json:"error,omitempty"`
}
