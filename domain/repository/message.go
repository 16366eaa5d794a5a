package repository

import (
	"context"
	"time"

	"github.com/cheerioo/api/domain/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	GetByID(ctx context.Context, eventID, messageID string) (*model.Message, error)
	// GetByEvent returns messages in chronological order, capped at limit.
	GetByEvent(ctx context.Context, eventID string, limit int) ([]*model.Message, error)
	GetByEventAfter(ctx context.Context, eventID string, after time.Time, limit int) ([]*model.Message, error)
	Update(ctx context.Context, message *model.Message) error
	SoftDelete(ctx context.Context, eventID, messageID string) error
	DeleteOlderThan(ctx context.Context, eventID string, before time.Time) error
	Count(ctx context.Context, eventID string) (int64, error)
}
