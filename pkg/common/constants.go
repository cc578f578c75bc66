package common

const (
	// RedisKeySummary is the cache key for the aggregated portfolio summary.
	RedisKeySummary = "tracker:summary:latest"
)
