package dependency

import (
	"context"

	presenceUseCase "github.com/cheerioo/api/application/usecases/presence"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/websocket"
)

func (c *Container) initWebSocket() {
	// Every connected socket keeps a presence heartbeat alive for its user,
	// so watching an event is enough to count as present.
	heartbeatFactory := func(eventID, userID string) websocket.HeartbeatRunner {
		return presenceUseCase.NewHeartbeat(
			c.PresenceUC, c.Logger,
			c.Config.Presence.HeartbeatInterval,
			eventID, userID, model.PresenceOnline,
		)
	}

	c.WSCore = websocket.NewCore(c.RealtimeRegistry, heartbeatFactory, c.MetricsManager, c.Logger)

	c.ctx, c.cancel = context.WithCancel(context.Background())

	go c.WSCore.Run(c.ctx)

	c.Logger.Info("WebSocket components initialized successfully")
}
