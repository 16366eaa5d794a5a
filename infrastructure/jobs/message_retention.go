package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cheerioo/api/application/usecases/event"
	"github.com/cheerioo/api/application/usecases/message"
	"github.com/cheerioo/api/infrastructure/logger"
)

// MessageRetentionJob prunes chat history past the retention horizon, per
// event, so old events don't pin their chat forever.
type MessageRetentionJob struct {
	messageUseCase *message.MessageUseCase
	eventUseCase   *event.EventUseCase
	logger         *logger.Logger
	interval       time.Duration
	retention      time.Duration
	stopChan       chan struct{}
}

func NewMessageRetentionJob(
	messageUseCase *message.MessageUseCase,
	eventUseCase *event.EventUseCase,
	logger *logger.Logger,
	interval, retention time.Duration,
) *MessageRetentionJob {
	return &MessageRetentionJob{
		messageUseCase: messageUseCase,
		eventUseCase:   eventUseCase,
		logger:         logger,
		interval:       interval,
		retention:      retention,
		stopChan:       make(chan struct{}),
	}
}

func (j *MessageRetentionJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Message retention job started",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	for {
		select {
		case <-ticker.C:
			j.runPrune(ctx)
		case <-j.stopChan:
			j.logger.Info("Message retention job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Message retention job context cancelled")
			return
		}
	}
}

func (j *MessageRetentionJob) Stop() {
	close(j.stopChan)
}

func (j *MessageRetentionJob) runPrune(ctx context.Context) {
	startTime := time.Now()
	cutoff := startTime.UTC().Add(-j.retention)

	events, err := j.eventUseCase.List(ctx)
	if err != nil {
		j.logger.Error("Message retention job failed to list events", zap.Error(err))
		return
	}

	for _, evt := range events {
		if err := j.messageUseCase.PruneOlderThan(ctx, evt.ID, cutoff); err != nil {
			j.logger.Error("Message retention prune failed",
				zap.String("event_id", evt.ID),
				zap.Error(err),
			)
		}
	}

	j.logger.Info("Message retention job completed",
		zap.Int("events", len(events)),
		zap.Duration("duration", time.Since(startTime)),
	)
}
