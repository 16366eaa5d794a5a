package middlewares

import "time"

// StrictRateLimiterConfig for event creation and deletion
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Scope:             "strict",
		RequestsPerWindow: 10,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 15,
	}
}

// IngestRateLimiterConfig for position and heartbeat writes, which arrive
// continuously from every participant device.
func IngestRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Scope:             "ingest",
		RequestsPerWindow: 120,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 2,
	}
}

// MessageSendingRateLimiterConfig for chat sends
func MessageSendingRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Scope:             "send",
		RequestsPerWindow: 30,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 10,
	}
}
