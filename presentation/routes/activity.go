package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/activity"
)

// ActivityRoutes registers activity endpoints. The position ingest route gets
// its own limiter because participant devices post continuously.
func ActivityRoutes(router *gin.RouterGroup, controller activity.ActivityController, ingestLimiter gin.HandlerFunc) {
	events := router.Group("/events")
	{
		events.POST("/:id/activities", controller.RecordActivity)
		events.GET("/:id/activities", controller.ListActivities)
		events.GET("/:id/activities/summary", controller.GetSummary)
		events.GET("/:id/activities/paths", controller.GetPaths)

		events.POST("/:id/position", ingestLimiter, controller.RecordPosition)
	}
}
