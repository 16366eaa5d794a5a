package repository

import (
	"context"
	"time"

	"github.com/cheerioo/api/domain/model"
)

type PresenceRepository interface {
	// Upsert writes the record keyed by (userID, eventID), overwriting any
	// previous row. Safe to call repeatedly.
	Upsert(ctx context.Context, record *model.PresenceRecord) error
	GetByEvent(ctx context.Context, eventID string) ([]*model.PresenceRecord, error)
	Remove(ctx context.Context, eventID, userID string) error
	// SweepStale deletes rows not refreshed within olderThan and reports how
	// many were removed. Reads already filter on the active window; this is
	// storage hygiene, not a liveness mechanism.
	SweepStale(ctx context.Context, olderThan time.Duration) (int, error)
}
