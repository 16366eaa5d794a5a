package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/presence"
)

func PresenceRoutes(router *gin.RouterGroup, controller presence.PresenceController, ingestLimiter gin.HandlerFunc) {
	events := router.Group("/events")
	{
		events.PUT("/:id/presence", ingestLimiter, controller.UpdatePresence)
		events.GET("/:id/presence", controller.GetActivePresence)
		events.DELETE("/:id/presence", controller.RemovePresence)
	}
}
