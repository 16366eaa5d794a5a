package repository

import (
	"context"

	"github.com/cheerioo/api/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
}

type AnonymousProfileRepository interface {
	Create(ctx context.Context, profile *model.AnonymousProfile) error
	GetByID(ctx context.Context, id string) (*model.AnonymousProfile, error)
	TouchLastSeen(ctx context.Context, id string) error
}
