package presence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/logger"
)

// Heartbeat keeps one user's presence row fresh for one event by re-upserting
// it on an interval. Server-side consumers (the websocket bridge) run one per
// attached client; browser clients heartbeat over HTTP instead.
type Heartbeat struct {
	uc       *PresenceUseCase
	logger   *logger.Logger
	interval time.Duration

	eventID string
	userID  string
	status  string

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHeartbeat(uc *PresenceUseCase, logger *logger.Logger, interval time.Duration, eventID, userID, status string) *Heartbeat {
	return &Heartbeat{
		uc:       uc,
		logger:   logger,
		interval: interval,
		eventID:  eventID,
		userID:   userID,
		status:   status,
		done:     make(chan struct{}),
	}
}

// Start writes the row immediately, then refreshes it on every tick until
// Stop is called.
func (h *Heartbeat) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)

	go func() {
		defer close(h.done)

		h.beat(ctx)

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.beat(ctx)
			}
		}
	}()
}

// Stop halts the ticker and removes the presence row best-effort.
func (h *Heartbeat) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	h.uc.Remove(ctx, h.eventID, h.userID)
}

func (h *Heartbeat) beat(ctx context.Context) {
	if _, err := h.uc.Update(ctx, h.eventID, h.userID, h.status, nil); err != nil {
		h.logger.Warn("heartbeat update failed",
			zap.String("event_id", h.eventID),
			zap.String("user_id", h.userID),
			zap.Error(err))
	}
}
