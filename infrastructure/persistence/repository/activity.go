package repository

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
)

type activityRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewActivityRepository(db *gorm.DB, tracer trace.Tracer) repository.ActivityRepository {
	return &activityRepository{db: db, tracer: tracer}
}

func (r *activityRepository) Create(ctx context.Context, record *model.ActivityRecord) error {
	ctx, span := r.tracer.Start(ctx, "activityRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.id", record.EventID),
		attribute.String("activity.type", string(record.ActivityType)),
	)

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert activity record")
		return apperrors.Internal("failed to insert activity record", err)
	}
	return nil
}

func (r *activityRepository) GetByEvent(ctx context.Context, eventID string, filter repository.ActivityFilter) ([]*model.ActivityRecord, error) {
	ctx, span := r.tracer.Start(ctx, "activityRepository.GetByEvent")
	defer span.End()

	span.SetAttributes(attribute.String("event.id", eventID))

	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if filter.ActivityType != "" {
		q = q.Where("activity_type = ?", filter.ActivityType)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at > ?", filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var records []*model.ActivityRecord
	if err := q.Order("created_at DESC").Find(&records).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query activity records")
		return nil, apperrors.Internal("failed to query activity records", err)
	}

	span.SetAttributes(attribute.Int("activity.count", len(records)))
	return records, nil
}

func (r *activityRepository) Count(ctx context.Context, eventID string) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "activityRepository.Count")
	defer span.End()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.ActivityRecord{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count activity records")
		return 0, apperrors.Internal("failed to count activity records", err)
	}
	return count, nil
}
