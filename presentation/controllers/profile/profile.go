package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/application/usecases/profile"
	"github.com/cheerioo/api/infrastructure/security"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"omitempty,max=50"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

type RegisterAnonymousRequest struct {
	ID          string `json:"id" binding:"omitempty,uuid"`
	DisplayName string `json:"display_name" binding:"omitempty,max=50"`
}

type ProfileController interface {
	GetProfile(ctx *gin.Context)
	UpdateProfile(ctx *gin.Context)
	RegisterAnonymous(ctx *gin.Context)
}

type profileController struct {
	usecase *profile.ProfileUseCase
}

func NewProfileController(usecase *profile.ProfileUseCase) ProfileController {
	return &profileController{usecase: usecase}
}

func (c *profileController) GetProfile(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	found, err := c.usecase.Get(ctx.Request.Context(), user.ID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (c *profileController) UpdateProfile(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
		return
	}

	updated, err := c.usecase.Update(ctx.Request.Context(), user.ID, profile.UpdateProfileInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (c *profileController) RegisterAnonymous(ctx *gin.Context) {
	var req RegisterAnonymousRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
			return
		}
	}

	registered, err := c.usecase.RegisterAnonymous(ctx.Request.Context(), req.ID, req.DisplayName)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	security.SetAnonymousID(ctx.Writer, registered.ID)

	ctx.JSON(http.StatusCreated, registered)
}
