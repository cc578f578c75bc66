package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// SyncRunKind identifies which reconciliation pass a run performed.
type SyncRunKind string

const (
	SyncRunKindUpdate   SyncRunKind = "update"
	SyncRunKindBackfill SyncRunKind = "backfill"
)

// SyncRunStatus is the lifecycle state of a run.
type SyncRunStatus string

const (
	StatusRunning   SyncRunStatus = "running"
	StatusCompleted SyncRunStatus = "completed"
	StatusFailed    SyncRunStatus = "failed"
)

// Trigger sources for a run.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerStartup   = "startup"
)

// SyncRun records a single update or backfill pass, including its
// per-ticker outcome counts in Result.
type SyncRun struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Kind         SyncRunKind    `gorm:"size:20;not null;index" json:"kind"`
	TriggeredBy  string         `gorm:"size:20;not null" json:"triggered_by"`
	Status       SyncRunStatus  `gorm:"size:20;not null" json:"status"`
	StartedAt    time.Time      `gorm:"not null;index" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	Result       datatypes.JSON `json:"result"`
	ErrorMessage sql.NullString `json:"error_message"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
