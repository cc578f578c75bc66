package dto

// Per-ticker outcome statuses.
const (
	StatusUpdated   = "updated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
	StatusCompleted = "completed"
)

// TickerOutcome is the per-ticker result of an update pass.
type TickerOutcome struct {
	Ticker string `json:"ticker"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// UpdateResult aggregates one update pass.
type UpdateResult struct {
	Updated int             `json:"updated"`
	Skipped int             `json:"skipped"`
	Failed  int             `json:"failed"`
	Details []TickerOutcome `json:"details,omitempty"`
}

// BackfillTickerOutcome is the per-ticker result of a backfill pass.
// Inserted and Skipped count snapshot rows for that ticker.
type BackfillTickerOutcome struct {
	Ticker   string `json:"ticker"`
	Status   string `json:"status"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// BackfillResult aggregates one backfill pass. Inserted and Skipped count
// rows; Failed counts tickers whose history could not be fetched or stored.
type BackfillResult struct {
	Inserted int                     `json:"inserted"`
	Skipped  int                     `json:"skipped"`
	Failed   int                     `json:"failed"`
	Details  []BackfillTickerOutcome `json:"details,omitempty"`
}

// UpdateActionResponse is the body returned by the manual update action.
type UpdateActionResponse struct {
	OK     bool          `json:"ok"`
	Result *UpdateResult `json:"result"`
}

// BackfillActionResponse is the body returned by the manual backfill action.
type BackfillActionResponse struct {
	OK     bool            `json:"ok"`
	Result *BackfillResult `json:"result"`
}
