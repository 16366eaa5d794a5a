package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/message"
)

func MessageRoutes(router *gin.RouterGroup, controller message.MessageController, sendLimiter gin.HandlerFunc) {
	events := router.Group("/events")
	{
		events.POST("/:id/messages", sendLimiter, controller.SendMessage)
		events.GET("/:id/messages", controller.ListMessages)
		events.PATCH("/:id/messages/:messageId", controller.EditMessage)
		events.DELETE("/:id/messages/:messageId", controller.DeleteMessage)

		events.GET("/:id/markers", controller.GetEmojiMarkers)
	}
}
