package event

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

type CreateEventInput struct {
	Name        string
	Description string
	StartsAt    time.Time
}

// JoinResult reports whether the join changed anything. Joining twice is not
// an error; the second call just reports AlreadyMember.
type JoinResult struct {
	Event         *model.Event
	AlreadyMember bool
}

type EventUseCase struct {
	eventRepo repository.EventRepository
	logger    *logger.Logger
}

func NewEventUseCase(eventRepo repository.EventRepository, logger *logger.Logger) *EventUseCase {
	return &EventUseCase{eventRepo: eventRepo, logger: logger}
}

// Create makes a new event with a unique slug and enrolls the creator as its
// first member.
func (uc *EventUseCase) Create(ctx context.Context, creatorID, creatorName string, input CreateEventInput) (*model.Event, error) {
	if input.Name == "" {
		return nil, apperrors.Validation("missing_name", "event name is required")
	}

	slug, err := UniqueSlug(ctx, uc.eventRepo, input.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	evt := &model.Event{
		ID:          uuid.NewString(),
		Slug:        slug,
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   creatorID,
		StartsAt:    input.StartsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.eventRepo.Create(ctx, evt); err != nil {
		return nil, err
	}

	if err := uc.eventRepo.AddMember(ctx, &model.EventMember{
		EventID:  evt.ID,
		UserID:   creatorID,
		Username: creatorName,
		JoinedAt: now,
	}); err != nil {
		uc.logger.Error("failed to enroll event creator",
			zap.String("event_id", evt.ID),
			zap.String("user_id", creatorID),
			zap.Error(err))
		return nil, err
	}

	uc.logger.Info("event created", zap.String("event_id", evt.ID), zap.String("slug", slug))
	return evt, nil
}

func (uc *EventUseCase) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return uc.eventRepo.GetByID(ctx, id)
}

func (uc *EventUseCase) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return uc.eventRepo.GetBySlug(ctx, slug)
}

func (uc *EventUseCase) List(ctx context.Context) ([]*model.Event, error) {
	return uc.eventRepo.GetAll(ctx)
}

// Join enrolls the user in the event. Idempotent: joining an event you are
// already a member of succeeds and reports AlreadyMember.
func (uc *EventUseCase) Join(ctx context.Context, eventID, userID, username string) (*JoinResult, error) {
	evt, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	member, err := uc.eventRepo.IsMember(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return &JoinResult{Event: evt, AlreadyMember: true}, nil
	}

	if err := uc.eventRepo.AddMember(ctx, &model.EventMember{
		EventID:  eventID,
		UserID:   userID,
		Username: username,
		JoinedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	uc.logger.Info("member joined event", zap.String("event_id", eventID), zap.String("user_id", userID))
	return &JoinResult{Event: evt, AlreadyMember: false}, nil
}

func (uc *EventUseCase) Leave(ctx context.Context, eventID, userID string) error {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return uc.eventRepo.RemoveMember(ctx, eventID, userID)
}

func (uc *EventUseCase) Members(ctx context.Context, eventID string) ([]model.EventMember, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return uc.eventRepo.GetMembers(ctx, eventID)
}

// Delete removes an event. Only the creator may do this.
func (uc *EventUseCase) Delete(ctx context.Context, eventID, userID string) error {
	evt, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if evt.CreatedBy != userID {
		return apperrors.Forbidden("not_owner", "only the event creator can delete it")
	}
	return uc.eventRepo.Delete(ctx, eventID)
}
