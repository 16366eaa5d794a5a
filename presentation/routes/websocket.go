package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/websocket"
)

func WebsocketRoutes(router *gin.RouterGroup, controller websocket.WebSocketController) {
	events := router.Group("/events")
	{
		events.GET("/:id/ws", controller.HandleConnection)
	}
}
