package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cheerioo/api/application/usecases/event"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/websocket"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type WebSocketController interface {
	HandleConnection(ctx *gin.Context)
}

type webSocketController struct {
	eventUseCase *event.EventUseCase
	wsCore       *websocket.Core
	logger       *logger.Logger
}

func NewWebSocketController(
	eventUseCase *event.EventUseCase,
	wsCore *websocket.Core,
	logger *logger.Logger,
) WebSocketController {
	return &webSocketController{
		eventUseCase: eventUseCase,
		wsCore:       wsCore,
		logger:       logger,
	}
}

// HandleConnection upgrades the request and hands the connection to the core.
// The socket is egress-only from the client's point of view: all writes go
// through the HTTP API, the socket just carries invalidations back.
func (c *webSocketController) HandleConnection(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	if _, err := c.eventUseCase.GetByID(ctx.Request.Context(), eventID); err != nil {
		responder.Error(ctx, err)
		return
	}

	conn, err := c.wsCore.EventManager().Upgrade(ctx.Writer, ctx.Request)
	if err != nil {
		c.logger.Warn("websocket upgrade failed",
			zap.String("event_id", eventID),
			zap.String("user_id", user.ID),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, responder.ErrorResponse{
			Error:   "upgrade_failed",
			Message: "failed to upgrade connection",
		})
		return
	}

	client := websocket.NewClient(conn, user.ID, eventID, user.Username)
	c.wsCore.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(c.wsCore)
}
