package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/attachment"
)

func AttachmentRoutes(router *gin.RouterGroup, controller attachment.AttachmentController) {
	events := router.Group("/events")
	{
		events.POST("/:id/attachments", controller.Upload)
		events.GET("/:id/attachments", controller.ListByEvent)
	}

	attachments := router.Group("/attachments")
	{
		attachments.GET("/:attachmentId/download", controller.Download)
		attachments.DELETE("/:attachmentId", controller.Delete)
	}
}
