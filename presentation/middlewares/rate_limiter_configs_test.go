package middlewares

import "testing"

func TestRateLimiterTiersUseDistinctScopes(t *testing.T) {
	configs := []RateLimiterConfig{
		DefaultRateLimiterConfig(),
		StrictRateLimiterConfig(),
		IngestRateLimiterConfig(),
		MessageSendingRateLimiterConfig(),
	}

	seen := make(map[string]bool)
	for _, cfg := range configs {
		if cfg.Scope == "" {
			t.Fatal("limiter config without a scope would share windows with every other tier")
		}
		if seen[cfg.Scope] {
			t.Fatalf("duplicate limiter scope %q", cfg.Scope)
		}
		seen[cfg.Scope] = true

		if cfg.RequestsPerWindow <= 0 || cfg.Window <= 0 || cfg.BlockDuration <= 0 {
			t.Fatalf("scope %q has a non-positive limit setting: %+v", cfg.Scope, cfg)
		}
	}
}
