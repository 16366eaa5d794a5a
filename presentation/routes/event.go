package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/event"
)

func EventRoutes(router *gin.RouterGroup, controller event.EventController, strictLimiter gin.HandlerFunc) {
	events := router.Group("/events")
	{
		events.POST("", strictLimiter, controller.CreateEvent)
		events.GET("", controller.ListEvents)
		events.GET("/:id", controller.GetEvent)
		events.DELETE("/:id", strictLimiter, controller.DeleteEvent)

		events.GET("/slug/:slug", controller.GetEventBySlug)

		events.POST("/:id/join", controller.JoinEvent)
		events.POST("/:id/leave", controller.LeaveEvent)
		events.GET("/:id/members", controller.GetMembers)
	}
}
