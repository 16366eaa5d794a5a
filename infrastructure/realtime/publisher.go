package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/logger"
)

// Publisher pushes change notifications onto the shared pub/sub bus.
type Publisher struct {
	client *redis.Client
	logger *logger.Logger
}

func NewPublisher(client *redis.Client, logger *logger.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Notify publishes a change event. Failures are logged, not returned:
// the write that triggered the notification has already committed and
// must not be rolled back because the bus hiccupped.
func (p *Publisher) Notify(ctx context.Context, eventID, table, action, recordID string) {
	evt := ChangeEvent{
		EventID:   eventID,
		Table:     table,
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("failed to marshal change event", zap.Error(err))
		return
	}

	if err := p.client.Publish(ctx, ChannelKey(eventID, table), payload).Err(); err != nil {
		p.logger.Error("failed to publish change event",
			zap.String("channel", ChannelKey(eventID, table)),
			zap.Error(err))
	}
}
