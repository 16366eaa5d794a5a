package model

import "time"

const (
	PresenceOnline = "online"
	PresenceAway   = "away"
)

// ActiveWindow is how recently a presence row must have been refreshed for
// its user to count as active. Staleness alone degrades a user out of the
// active set; no explicit removal is required for correctness.
const ActiveWindow = 30 * time.Second

// PresenceRecord is a short-TTL liveness signal keyed by (userID, eventID).
// Heartbeats upsert it; last write wins.
type PresenceRecord struct {
	UserID    string            `json:"userId"`
	EventID   string            `json:"eventId"`
	Status    string            `json:"status"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// IsActive reports whether the record counts as active at the given instant.
func (p PresenceRecord) IsActive(now time.Time) bool {
	return p.Status == PresenceOnline && now.Sub(p.UpdatedAt) < ActiveWindow
}
