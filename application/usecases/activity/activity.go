package activity

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/config"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/metrics"
	"github.com/cheerioo/api/infrastructure/realtime"
)

// ChangeNotifier publishes row-change notifications for subscribers.
type ChangeNotifier interface {
	Notify(ctx context.Context, eventID, table, action, recordID string)
}

type ActivityUseCase struct {
	activityRepo repository.ActivityRepository
	eventRepo    repository.EventRepository
	notifier     ChangeNotifier
	metrics      metrics.Manager
	logger       *logger.Logger
	cfg          config.ActivityConfig

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewActivityUseCase(
	activityRepo repository.ActivityRepository,
	eventRepo repository.EventRepository,
	notifier ChangeNotifier,
	manager metrics.Manager,
	logger *logger.Logger,
	cfg config.ActivityConfig,
) *ActivityUseCase {
	return &ActivityUseCase{
		activityRepo: activityRepo,
		eventRepo:    eventRepo,
		notifier:     notifier,
		metrics:      manager,
		logger:       logger,
		cfg:          cfg,
		trackers:     make(map[string]*Tracker),
	}
}

// Record validates and persists one activity record, then notifies
// subscribers of the event's activity channel. Unknown activity types are
// rejected on write even though reads tolerate them.
func (uc *ActivityUseCase) Record(ctx context.Context, eventID, userID string, activityType model.ActivityType, raw json.RawMessage) (*model.ActivityRecord, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	data, err := model.DecodeActivityData(activityType, raw)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.Internal("failed to encode activity data", err)
	}

	record := &model.ActivityRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		EventID:      eventID,
		ActivityType: activityType,
		Data:         payload,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.activityRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, eventID, realtime.TableActivity, realtime.ActionInsert, record.ID)
	return record, nil
}

// RecordFix runs one position fix through the participant's tracker and
// persists every resulting activity. Returns the records that were written.
func (uc *ActivityUseCase) RecordFix(ctx context.Context, eventID, userID string, fix Fix) ([]*model.ActivityRecord, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if err := model.ValidateCoordinates(fix.Lat, fix.Long); err != nil {
		return nil, err
	}
	if fix.At.IsZero() {
		fix.At = time.Now().UTC()
	}

	tracker := uc.trackerFor(eventID, userID)

	uc.mu.Lock()
	emissions := tracker.Advance(fix)
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.IncrementCounter(ctx, metrics.PositionFixesTotal)
	}

	records := make([]*model.ActivityRecord, 0, len(emissions))
	for _, em := range emissions {
		payload, err := json.Marshal(em.Data)
		if err != nil {
			return records, apperrors.Internal("failed to encode activity data", err)
		}

		record := &model.ActivityRecord{
			ID:           uuid.NewString(),
			UserID:       userID,
			EventID:      eventID,
			ActivityType: em.Type,
			Data:         payload,
			CreatedAt:    fix.At,
		}
		if err := uc.activityRepo.Create(ctx, record); err != nil {
			return records, err
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		uc.notifier.Notify(ctx, eventID, realtime.TableActivity, realtime.ActionInsert, records[len(records)-1].ID)
	}
	return records, nil
}

// List returns an event's records newest-first, with the limit clamped to
// the configured bounds.
func (uc *ActivityUseCase) List(ctx context.Context, eventID string, filter repository.ActivityFilter) ([]*model.ActivityRecord, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = uc.cfg.DefaultLimit
	}
	if filter.Limit > uc.cfg.MaxLimit {
		filter.Limit = uc.cfg.MaxLimit
	}

	return uc.activityRepo.GetByEvent(ctx, eventID, filter)
}

// Summary folds the event's records into one latest-value summary per user,
// excluding the requesting user so the map shows everyone else.
func (uc *ActivityUseCase) Summary(ctx context.Context, eventID, requestingUserID string) (map[string]*model.UserActivitySummary, error) {
	records, names, err := uc.recordsAndNames(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return Summarize(records, names, SummaryOptions{ExcludeUserID: requestingUserID}), nil
}

// TrackingPaths builds one ordered polyline per user from all
// location-bearing records of the event.
func (uc *ActivityUseCase) TrackingPaths(ctx context.Context, eventID string) ([]*model.TrackingPath, error) {
	records, names, err := uc.recordsAndNames(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return BuildTrackingPaths(records, names), nil
}

func (uc *ActivityUseCase) recordsAndNames(ctx context.Context, eventID string) ([]*model.ActivityRecord, map[string]string, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, nil, err
	}

	records, err := uc.activityRepo.GetByEvent(ctx, eventID, repository.ActivityFilter{Limit: uc.cfg.MaxLimit})
	if err != nil {
		return nil, nil, err
	}

	members, err := uc.eventRepo.GetMembers(ctx, eventID)
	if err != nil {
		uc.logger.Warn("could not resolve member names", zap.String("event_id", eventID), zap.Error(err))
		members = nil
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.Username
	}

	return records, names, nil
}

func (uc *ActivityUseCase) trackerFor(eventID, userID string) *Tracker {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	key := eventID + ":" + userID
	tracker, ok := uc.trackers[key]
	if !ok {
		tracker = NewTracker()
		uc.trackers[key] = tracker
	}
	return tracker
}
