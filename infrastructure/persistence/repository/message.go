package repository

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
)

type messageRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewMessageRepository(db *gorm.DB, tracer trace.Tracer) repository.MessageRepository {
	return &messageRepository{db: db, tracer: tracer}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	ctx, span := r.tracer.Start(ctx, "messageRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.id", message.EventID),
		attribute.String("message.id", message.ID),
	)

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert message")
		return apperrors.Internal("failed to insert message", err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, eventID, messageID string) (*model.Message, error) {
	ctx, span := r.tracer.Start(ctx, "messageRepository.GetByID")
	defer span.End()

	var msg model.Message
	err := r.db.WithContext(ctx).
		First(&msg, "id = ? AND event_id = ?", messageID, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("message_not_found", "message does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load message")
		return nil, apperrors.Internal("failed to load message", err)
	}
	return &msg, nil
}

func (r *messageRepository) GetByEvent(ctx context.Context, eventID string, limit int) ([]*model.Message, error) {
	return r.GetByEventAfter(ctx, eventID, time.Time{}, limit)
}

func (r *messageRepository) GetByEventAfter(ctx context.Context, eventID string, after time.Time, limit int) ([]*model.Message, error) {
	ctx, span := r.tracer.Start(ctx, "messageRepository.GetByEventAfter")
	defer span.End()

	span.SetAttributes(attribute.String("event.id", eventID))

	q := r.db.WithContext(ctx).
		Where("event_id = ? AND deleted_at IS NULL", eventID)
	if !after.IsZero() {
		q = q.Where("created_at > ?", after)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var messages []*model.Message
	if err := q.Order("created_at ASC").Find(&messages).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query messages")
		return nil, apperrors.Internal("failed to query messages", err)
	}

	span.SetAttributes(attribute.Int("message.count", len(messages)))
	return messages, nil
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	ctx, span := r.tracer.Start(ctx, "messageRepository.Update")
	defer span.End()

	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND event_id = ?", message.ID, message.EventID).
		Updates(map[string]any{
			"content":    message.Content,
			"edited":     message.Edited,
			"updated_at": message.UpdatedAt,
		})
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, "failed to update message")
		return apperrors.Internal("failed to update message", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("message_not_found", "message does not exist")
	}
	return nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, eventID, messageID string) error {
	ctx, span := r.tracer.Start(ctx, "messageRepository.SoftDelete")
	defer span.End()

	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND event_id = ? AND deleted_at IS NULL", messageID, eventID).
		Update("deleted_at", time.Now().UTC())
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, "failed to soft delete message")
		return apperrors.Internal("failed to soft delete message", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("message_not_found", "message does not exist")
	}
	return nil
}

func (r *messageRepository) DeleteOlderThan(ctx context.Context, eventID string, before time.Time) error {
	ctx, span := r.tracer.Start(ctx, "messageRepository.DeleteOlderThan")
	defer span.End()

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND created_at < ?", eventID, before).
		Delete(&model.Message{}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to prune messages")
		return apperrors.Internal("failed to prune messages", err)
	}
	return nil
}

func (r *messageRepository) Count(ctx context.Context, eventID string) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "messageRepository.Count")
	defer span.End()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("event_id = ? AND deleted_at IS NULL", eventID).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count messages")
		return 0, apperrors.Internal("failed to count messages", err)
	}
	return count, nil
}
