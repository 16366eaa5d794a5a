package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
)

type attachmentRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewAttachmentRepository(db *gorm.DB, tracer trace.Tracer) repository.AttachmentRepository {
	return &attachmentRepository{db: db, tracer: tracer}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	ctx, span := r.tracer.Start(ctx, "attachmentRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("attachment.id", attachment.ID),
		attribute.String("event.id", attachment.EventID),
	)

	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create attachment")
		return apperrors.Internal("failed to create attachment", err)
	}
	return nil
}

func (r *attachmentRepository) GetByID(ctx context.Context, id string) (*model.Attachment, error) {
	ctx, span := r.tracer.Start(ctx, "attachmentRepository.GetByID")
	defer span.End()

	var attachment model.Attachment
	err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("attachment_not_found", "attachment does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load attachment")
		return nil, apperrors.Internal("failed to load attachment", err)
	}
	return &attachment, nil
}

func (r *attachmentRepository) GetByEvent(ctx context.Context, eventID string) ([]*model.Attachment, error) {
	ctx, span := r.tracer.Start(ctx, "attachmentRepository.GetByEvent")
	defer span.End()

	span.SetAttributes(attribute.String("event.id", eventID))

	var attachments []*model.Attachment
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&attachments).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list attachments")
		return nil, apperrors.Internal("failed to list attachments", err)
	}

	span.SetAttributes(attribute.Int("attachment.count", len(attachments)))
	return attachments, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "attachmentRepository.Delete")
	defer span.End()

	res := r.db.WithContext(ctx).Delete(&model.Attachment{}, "id = ?", id)
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, "failed to delete attachment")
		return apperrors.Internal("failed to delete attachment", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("attachment_not_found", "attachment does not exist")
	}
	return nil
}
