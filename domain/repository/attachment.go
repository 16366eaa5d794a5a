package repository

import (
	"context"

	"github.com/cheerioo/api/domain/model"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	GetByID(ctx context.Context, id string) (*model.Attachment, error)
	GetByEvent(ctx context.Context, eventID string) ([]*model.Attachment, error)
	Delete(ctx context.Context, id string) error
}
