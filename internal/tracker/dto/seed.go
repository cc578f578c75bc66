package dto

// SeedResult reports what the default universe seeding changed.
type SeedResult struct {
	IndustriesCreated int `json:"industries_created"`
	StocksCreated     int `json:"stocks_created"`
	StocksExisting    int `json:"stocks_existing"`
}
