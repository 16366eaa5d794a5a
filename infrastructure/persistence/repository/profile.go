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

type profileRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewProfileRepository(db *gorm.DB, tracer trace.Tracer) repository.ProfileRepository {
	return &profileRepository{db: db, tracer: tracer}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	ctx, span := r.tracer.Start(ctx, "profileRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", profile.UserID))

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create profile")
		return apperrors.Internal("failed to create profile", err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	ctx, span := r.tracer.Start(ctx, "profileRepository.GetByUserID")
	defer span.End()

	var profile model.Profile
	err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("profile_not_found", "profile does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load profile")
		return nil, apperrors.Internal("failed to load profile", err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	ctx, span := r.tracer.Start(ctx, "profileRepository.Update")
	defer span.End()

	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"display_name": profile.DisplayName,
			"avatar_url":   profile.AvatarURL,
			"updated_at":   profile.UpdatedAt,
		})
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, "failed to update profile")
		return apperrors.Internal("failed to update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("profile_not_found", "profile does not exist")
	}
	return nil
}

type anonymousProfileRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewAnonymousProfileRepository(db *gorm.DB, tracer trace.Tracer) repository.AnonymousProfileRepository {
	return &anonymousProfileRepository{db: db, tracer: tracer}
}

func (r *anonymousProfileRepository) Create(ctx context.Context, profile *model.AnonymousProfile) error {
	ctx, span := r.tracer.Start(ctx, "anonymousProfileRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("anonymous.id", profile.ID))

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create anonymous profile")
		return apperrors.Internal("failed to create anonymous profile", err)
	}
	return nil
}

func (r *anonymousProfileRepository) GetByID(ctx context.Context, id string) (*model.AnonymousProfile, error) {
	ctx, span := r.tracer.Start(ctx, "anonymousProfileRepository.GetByID")
	defer span.End()

	var profile model.AnonymousProfile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("profile_not_found", "anonymous profile does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load anonymous profile")
		return nil, apperrors.Internal("failed to load anonymous profile", err)
	}
	return &profile, nil
}

func (r *anonymousProfileRepository) TouchLastSeen(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "anonymousProfileRepository.TouchLastSeen")
	defer span.End()

	err := r.db.WithContext(ctx).Model(&model.AnonymousProfile{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now().UTC()).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to touch anonymous profile")
		return apperrors.Internal("failed to touch anonymous profile", err)
	}
	return nil
}
