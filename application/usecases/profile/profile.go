package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/logger"
)

type UpdateProfileInput struct {
	DisplayName string
	AvatarURL   string
}

type ProfileUseCase struct {
	profileRepo   repository.ProfileRepository
	anonymousRepo repository.AnonymousProfileRepository
	logger        *logger.Logger
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	anonymousRepo repository.AnonymousProfileRepository,
	logger *logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo:   profileRepo,
		anonymousRepo: anonymousRepo,
		logger:        logger,
	}
}

// Get returns the user's profile, creating a supporter profile on first read.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*model.Profile, error) {
	prof, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return prof, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	prof = &model.Profile{
		UserID:      userID,
		DisplayName: "",
		Permissions: model.PermissionSupporter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.profileRepo.Create(ctx, prof); err != nil {
		return nil, err
	}

	uc.logger.Info("created profile on first read", zap.String("user_id", userID))
	return prof, nil
}

func (uc *ProfileUseCase) Update(ctx context.Context, userID string, input UpdateProfileInput) (*model.Profile, error) {
	prof, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		prof.DisplayName = input.DisplayName
	}
	if input.AvatarURL != "" {
		prof.AvatarURL = input.AvatarURL
	}
	prof.UpdatedAt = time.Now().UTC()

	if err := uc.profileRepo.Update(ctx, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

// RegisterAnonymous creates an anonymous profile. The id may come from the
// client (generated on device); a blank id gets a fresh one.
func (uc *ProfileUseCase) RegisterAnonymous(ctx context.Context, id, displayName string) (*model.AnonymousProfile, error) {
	if displayName == "" {
		return nil, apperrors.Validation("missing_display_name", "display name is required")
	}
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validation("invalid_id", "anonymous id must be a uuid")
	}

	if existing, err := uc.anonymousRepo.GetByID(ctx, id); err == nil {
		// Re-registration of a known id refreshes last-seen and succeeds.
		if touchErr := uc.anonymousRepo.TouchLastSeen(ctx, id); touchErr != nil {
			uc.logger.Warn("failed to touch anonymous profile", zap.String("id", id), zap.Error(touchErr))
		}
		return existing, nil
	}

	now := time.Now().UTC()
	prof := &model.AnonymousProfile{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	if err := uc.anonymousRepo.Create(ctx, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

// ValidateAnonymous checks that an anonymous id was registered before any
// write attributed to it is accepted. Unknown ids are forbidden, which stops
// clients from writing under an id they just made up.
func (uc *ProfileUseCase) ValidateAnonymous(ctx context.Context, id string) (*model.AnonymousProfile, error) {
	prof, err := uc.anonymousRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.Forbidden("unknown_anonymous_id", "anonymous id is not registered")
		}
		return nil, err
	}

	if err := uc.anonymousRepo.TouchLastSeen(ctx, id); err != nil {
		uc.logger.Warn("failed to touch anonymous profile", zap.String("id", id), zap.Error(err))
	}
	return prof, nil
}
