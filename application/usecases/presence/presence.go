package presence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/realtime"
)

// ChangeNotifier publishes row-change notifications for subscribers.
type ChangeNotifier interface {
	Notify(ctx context.Context, eventID, table, action, recordID string)
}

// ActiveResult is the filtered presence view: rows updated within the
// activity window, plus the count so clients don't recount.
type ActiveResult struct {
	Records []*model.PresenceRecord `json:"records"`
	Count   int                     `json:"count"`
}

type PresenceUseCase struct {
	presenceRepo repository.PresenceRepository
	notifier     ChangeNotifier
	logger       *logger.Logger
	now          func() time.Time
}

func NewPresenceUseCase(presenceRepo repository.PresenceRepository, notifier ChangeNotifier, logger *logger.Logger) *PresenceUseCase {
	return &PresenceUseCase{
		presenceRepo: presenceRepo,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// Update writes the user's presence row for the event, stamped now.
// Heartbeats call this repeatedly; each call overwrites the previous row.
func (uc *PresenceUseCase) Update(ctx context.Context, eventID, userID, status string, metadata map[string]string) (*model.PresenceRecord, error) {
	if status == "" {
		status = model.PresenceOnline
	}
	if status != model.PresenceOnline && status != model.PresenceAway {
		return nil, apperrors.Validation("invalid_status", "presence status must be online or away")
	}

	record := &model.PresenceRecord{
		UserID:    userID,
		EventID:   eventID,
		Status:    status,
		Metadata:  metadata,
		UpdatedAt: uc.now().UTC(),
	}

	if err := uc.presenceRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, eventID, realtime.TablePresence, realtime.ActionUpdate, userID)
	return record, nil
}

// GetActive returns the rows updated within the activity window. Stale rows
// are filtered out here, not deleted; the sweep job reclaims them later.
func (uc *PresenceUseCase) GetActive(ctx context.Context, eventID string) (*ActiveResult, error) {
	records, err := uc.presenceRepo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	active := make([]*model.PresenceRecord, 0, len(records))
	for _, r := range records {
		if r.IsActive(now) {
			active = append(active, r)
		}
	}

	return &ActiveResult{Records: active, Count: len(active)}, nil
}

// Remove deletes the user's presence row, typically when they navigate away.
// Best-effort: a missed removal just ages out of the window.
func (uc *PresenceUseCase) Remove(ctx context.Context, eventID, userID string) {
	if err := uc.presenceRepo.Remove(ctx, eventID, userID); err != nil {
		uc.logger.Warn("failed to remove presence row",
			zap.String("event_id", eventID),
			zap.String("user_id", userID),
			zap.Error(err))
		return
	}
	uc.notifier.Notify(ctx, eventID, realtime.TablePresence, realtime.ActionDelete, userID)
}
