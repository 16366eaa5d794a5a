package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/logger"
)

// presenceRepository keeps presence rows in one redis hash per event,
// field = userID, value = the serialized record. Reads filter by window in
// the usecase; this layer only stores and lists.
type presenceRepository struct {
	client *redis.Client
	tracer trace.Tracer
	logger *logger.Logger
}

func NewPresenceRepository(client *redis.Client, tracer trace.Tracer, logger *logger.Logger) repository.PresenceRepository {
	return &presenceRepository{client: client, tracer: tracer, logger: logger}
}

func presenceKey(eventID string) string {
	return fmt.Sprintf("presence:%s", eventID)
}

func (r *presenceRepository) Upsert(ctx context.Context, record *model.PresenceRecord) error {
	ctx, span := r.tracer.Start(ctx, "presenceRepository.Upsert")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.id", record.EventID),
		attribute.String("user.id", record.UserID),
	)

	payload, err := json.Marshal(record)
	if err != nil {
		span.RecordError(err)
		return apperrors.Internal("failed to encode presence record", err)
	}

	if err := r.client.HSet(ctx, presenceKey(record.EventID), record.UserID, payload).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write presence row")
		return apperrors.Internal("failed to write presence row", err)
	}
	return nil
}

func (r *presenceRepository) GetByEvent(ctx context.Context, eventID string) ([]*model.PresenceRecord, error) {
	ctx, span := r.tracer.Start(ctx, "presenceRepository.GetByEvent")
	defer span.End()

	span.SetAttributes(attribute.String("event.id", eventID))

	rows, err := r.client.HGetAll(ctx, presenceKey(eventID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read presence rows")
		return nil, apperrors.Internal("failed to read presence rows", err)
	}

	records := make([]*model.PresenceRecord, 0, len(rows))
	for userID, payload := range rows {
		var record model.PresenceRecord
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			r.logger.Warn("dropping malformed presence row",
				zap.String("event_id", eventID),
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		records = append(records, &record)
	}

	span.SetAttributes(attribute.Int("presence.count", len(records)))
	return records, nil
}

func (r *presenceRepository) Remove(ctx context.Context, eventID, userID string) error {
	ctx, span := r.tracer.Start(ctx, "presenceRepository.Remove")
	defer span.End()

	if err := r.client.HDel(ctx, presenceKey(eventID), userID).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove presence row")
		return apperrors.Internal("failed to remove presence row", err)
	}
	return nil
}

// SweepStale deletes rows older than the cutoff across all events. The
// invariant that stale rows never surface is enforced at read time; this is
// housekeeping so hashes don't grow without bound.
func (r *presenceRepository) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	ctx, span := r.tracer.Start(ctx, "presenceRepository.SweepStale")
	defer span.End()

	cutoff := time.Now().UTC().Add(-olderThan)
	removed := 0

	iter := r.client.Scan(ctx, 0, "presence:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		rows, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			span.RecordError(err)
			continue
		}

		for userID, payload := range rows {
			var record model.PresenceRecord
			if err := json.Unmarshal([]byte(payload), &record); err != nil || record.UpdatedAt.Before(cutoff) {
				if err := r.client.HDel(ctx, key, userID).Err(); err == nil {
					removed++
				}
			}
		}
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "presence scan failed")
		return removed, apperrors.Internal("presence scan failed", err)
	}

	span.SetAttributes(attribute.Int("presence.removed", removed))
	return removed, nil
}
