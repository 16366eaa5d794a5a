package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/presentation/controllers/profile"
)

func ProfileRoutes(router *gin.RouterGroup, controller profile.ProfileController) {
	router.GET("/profile", controller.GetProfile)
	router.PUT("/profile", controller.UpdateProfile)
}

// AnonymousRoutes sit outside the identity middleware: registration is how an
// anonymous ID becomes valid in the first place.
func AnonymousRoutes(router *gin.RouterGroup, controller profile.ProfileController) {
	router.POST("/anonymous", controller.RegisterAnonymous)
}
