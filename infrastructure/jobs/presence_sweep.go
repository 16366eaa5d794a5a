package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/logger"
)

// StaleSweeper deletes presence rows past the cutoff. Satisfied by the
// redis presence repository.
type StaleSweeper interface {
	SweepStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// PresenceSweepJob reclaims long-stale presence rows. Reads already filter
// stale rows out, so this only keeps storage from growing without bound.
type PresenceSweepJob struct {
	sweeper   StaleSweeper
	logger    *logger.Logger
	interval  time.Duration
	olderThan time.Duration
	stopChan  chan struct{}
}

func NewPresenceSweepJob(sweeper StaleSweeper, logger *logger.Logger, interval, olderThan time.Duration) *PresenceSweepJob {
	return &PresenceSweepJob{
		sweeper:   sweeper,
		logger:    logger,
		interval:  interval,
		olderThan: olderThan,
		stopChan:  make(chan struct{}),
	}
}

func (j *PresenceSweepJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Presence sweep job started",
		zap.Duration("interval", j.interval),
		zap.Duration("older_than", j.olderThan),
	)

	j.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			j.runSweep(ctx)
		case <-j.stopChan:
			j.logger.Info("Presence sweep job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Presence sweep job context cancelled")
			return
		}
	}
}

func (j *PresenceSweepJob) Stop() {
	close(j.stopChan)
}

func (j *PresenceSweepJob) runSweep(ctx context.Context) {
	startTime := time.Now()

	removed, err := j.sweeper.SweepStale(ctx, j.olderThan)
	if err != nil {
		j.logger.Error("Presence sweep job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return
	}

	j.logger.Info("Presence sweep job completed",
		zap.Int("removed", removed),
		zap.Duration("duration", time.Since(startTime)),
	)
}
