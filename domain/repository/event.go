package repository

import (
	"context"

	"github.com/cheerioo/api/domain/model"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetAll(ctx context.Context) ([]*model.Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	AddMember(ctx context.Context, member *model.EventMember) error
	IsMember(ctx context.Context, eventID, userID string) (bool, error)
	GetMembers(ctx context.Context, eventID string) ([]model.EventMember, error)
	RemoveMember(ctx context.Context, eventID, userID string) error
	Delete(ctx context.Context, id string) error
}
