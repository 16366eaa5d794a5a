package message

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/realtime"
)

const (
	maxContentLength = 2000
	defaultListLimit = 100
)

// ChangeNotifier publishes row-change notifications for subscribers.
type ChangeNotifier interface {
	Notify(ctx context.Context, eventID, table, action, recordID string)
}

type SendMessageInput struct {
	Content string
	Lat     *float64
	Long    *float64
}

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	eventRepo   repository.EventRepository
	notifier    ChangeNotifier
	logger      *logger.Logger
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	eventRepo repository.EventRepository,
	notifier ChangeNotifier,
	logger *logger.Logger,
) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
		eventRepo:   eventRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Send posts a message to the event's chat. Location is optional but must be
// complete: lat without long (or the reverse) is rejected.
func (uc *MessageUseCase) Send(ctx context.Context, eventID, userID, username string, input SendMessageInput) (*model.Message, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if input.Content == "" {
		return nil, apperrors.Validation("missing_content", "message content is required")
	}
	if len(input.Content) > maxContentLength {
		return nil, apperrors.Validation("content_too_long", "message content exceeds the maximum length")
	}
	if (input.Lat == nil) != (input.Long == nil) {
		return nil, apperrors.Validation("incomplete_location", "lat and long must both be set or both be empty")
	}
	if input.Lat != nil {
		if err := model.ValidateCoordinates(*input.Lat, *input.Long); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    userID,
		Username:  username,
		Content:   input.Content,
		Lat:       input.Lat,
		Long:      input.Long,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, eventID, realtime.TableMessages, realtime.ActionInsert, msg.ID)
	return msg, nil
}

// List returns the event's chat history in chronological order. With a
// non-zero after, only messages newer than that instant are returned.
func (uc *MessageUseCase) List(ctx context.Context, eventID string, after time.Time, limit int) ([]*model.Message, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	if !after.IsZero() {
		return uc.messageRepo.GetByEventAfter(ctx, eventID, after, limit)
	}
	return uc.messageRepo.GetByEvent(ctx, eventID, limit)
}

// Edit replaces the content of the caller's own message and marks it edited.
func (uc *MessageUseCase) Edit(ctx context.Context, eventID, messageID, userID, content string) (*model.Message, error) {
	if content == "" {
		return nil, apperrors.Validation("missing_content", "message content is required")
	}
	if len(content) > maxContentLength {
		return nil, apperrors.Validation("content_too_long", "message content exceeds the maximum length")
	}

	msg, err := uc.messageRepo.GetByID(ctx, eventID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.UserID != userID {
		return nil, apperrors.Forbidden("not_author", "only the author can edit a message")
	}
	if msg.DeletedAt != nil {
		return nil, apperrors.NotFound("message_not_found", "message does not exist")
	}

	msg.Content = content
	msg.Edited = true
	msg.UpdatedAt = time.Now().UTC()

	if err := uc.messageRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, eventID, realtime.TableMessages, realtime.ActionUpdate, msg.ID)
	return msg, nil
}

// Delete soft-deletes the caller's own message.
func (uc *MessageUseCase) Delete(ctx context.Context, eventID, messageID, userID string) error {
	msg, err := uc.messageRepo.GetByID(ctx, eventID, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != userID {
		return apperrors.Forbidden("not_author", "only the author can delete a message")
	}

	if err := uc.messageRepo.SoftDelete(ctx, eventID, messageID); err != nil {
		return err
	}

	uc.notifier.Notify(ctx, eventID, realtime.TableMessages, realtime.ActionDelete, messageID)
	return nil
}

// EmojiMarkers derives map markers from chat: every non-deleted message
// whose content is a single emoji grapheme and which carries a location.
func (uc *MessageUseCase) EmojiMarkers(ctx context.Context, eventID string, limit int) ([]*model.EmojiMarker, error) {
	msgs, err := uc.List(ctx, eventID, time.Time{}, limit)
	if err != nil {
		return nil, err
	}

	markers := make([]*model.EmojiMarker, 0)
	for _, msg := range msgs {
		if msg.DeletedAt != nil || !msg.HasLocation() || !IsSingleEmoji(msg.Content) {
			continue
		}
		markers = append(markers, &model.EmojiMarker{
			MessageID: msg.ID,
			UserID:    msg.UserID,
			UserName:  msg.Username,
			Emoji:     msg.Content,
			Lat:       *msg.Lat,
			Long:      *msg.Long,
			CreatedAt: msg.CreatedAt,
		})
	}
	return markers, nil
}

// PruneOlderThan drops messages past the retention horizon. Called by the
// retention job, not by request handlers.
func (uc *MessageUseCase) PruneOlderThan(ctx context.Context, eventID string, before time.Time) error {
	if err := uc.messageRepo.DeleteOlderThan(ctx, eventID, before); err != nil {
		return err
	}
	uc.logger.Info("pruned old messages",
		zap.String("event_id", eventID),
		zap.Time("before", before))
	return nil
}
