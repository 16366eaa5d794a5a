package repository

import (
	"context"
	"time"

	"github.com/cheerioo/api/domain/model"
)

// ActivityFilter narrows an activity query. Zero values mean "no filter".
type ActivityFilter struct {
	ActivityType model.ActivityType
	UserID       string
	Since        time.Time
	Limit        int
}

type ActivityRepository interface {
	Create(ctx context.Context, record *model.ActivityRecord) error
	// GetByEvent returns records for one event ordered by createdAt
	// descending (newest first).
	GetByEvent(ctx context.Context, eventID string, filter ActivityFilter) ([]*model.ActivityRecord, error)
	Count(ctx context.Context, eventID string) (int64, error)
}
