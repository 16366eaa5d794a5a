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

type eventRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewEventRepository(db *gorm.DB, tracer trace.Tracer) repository.EventRepository {
	return &eventRepository{db: db, tracer: tracer}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.id", event.ID),
		attribute.String("event.slug", event.Slug),
	)

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create event")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.KindConflict, "slug_taken", "slug is already in use")
		}
		return apperrors.Internal("failed to create event", err)
	}

	span.SetStatus(codes.Ok, "event created")
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("event.id", id))

	var event model.Event
	err := r.db.WithContext(ctx).Preload("Members").First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("event.found", false))
			return nil, apperrors.NotFound("event_not_found", "event does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load event")
		return nil, apperrors.Internal("failed to load event", err)
	}

	return &event, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.GetBySlug")
	defer span.End()

	span.SetAttributes(attribute.String("event.slug", slug))

	var event model.Event
	err := r.db.WithContext(ctx).Preload("Members").First(&event, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("event.found", false))
			return nil, apperrors.NotFound("event_not_found", "event does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load event")
		return nil, apperrors.Internal("failed to load event", err)
	}

	return &event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*model.Event, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.GetAll")
	defer span.End()

	var events []*model.Event
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list events")
		return nil, apperrors.Internal("failed to list events", err)
	}

	span.SetAttributes(attribute.Int("event.count", len(events)))
	return events, nil
}

func (r *eventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.SlugExists")
	defer span.End()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check slug")
		return false, apperrors.Internal("failed to check slug", err)
	}
	return count > 0, nil
}

func (r *eventRepository) AddMember(ctx context.Context, member *model.EventMember) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.AddMember")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.id", member.EventID),
		attribute.String("user.id", member.UserID),
	)

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		// A concurrent join hitting the composite key is fine.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetAttributes(attribute.Bool("member.already_exists", true))
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add member")
		return apperrors.Internal("failed to add member", err)
	}
	return nil
}

func (r *eventRepository) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.IsMember")
	defer span.End()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.EventMember{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check membership")
		return false, apperrors.Internal("failed to check membership", err)
	}
	return count > 0, nil
}

func (r *eventRepository) GetMembers(ctx context.Context, eventID string) ([]model.EventMember, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.GetMembers")
	defer span.End()

	var members []model.EventMember
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list members")
		return nil, apperrors.Internal("failed to list members", err)
	}

	span.SetAttributes(attribute.Int("member.count", len(members)))
	return members, nil
}

func (r *eventRepository) RemoveMember(ctx context.Context, eventID, userID string) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.RemoveMember")
	defer span.End()

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&model.EventMember{}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove member")
		return apperrors.Internal("failed to remove member", err)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("event.id", id))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.EventMember{}).Error; err != nil {
			span.RecordError(err)
			return apperrors.Internal("failed to delete event members", err)
		}
		res := tx.Delete(&model.Event{}, "id = ?", id)
		if res.Error != nil {
			span.RecordError(res.Error)
			return apperrors.Internal("failed to delete event", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("event_not_found", "event does not exist")
		}
		return nil
	})
}
