package presence

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/application/usecases/presence"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type UpdatePresenceRequest struct {
	Status   string            `json:"status" binding:"omitempty,oneof=online away"`
	Metadata map[string]string `json:"metadata" binding:"omitempty"`
}

type PresenceController interface {
	UpdatePresence(ctx *gin.Context)
	GetActivePresence(ctx *gin.Context)
	RemovePresence(ctx *gin.Context)
}

type presenceController struct {
	usecase *presence.PresenceUseCase
}

func NewPresenceController(usecase *presence.PresenceUseCase) PresenceController {
	return &presenceController{usecase: usecase}
}

func (c *presenceController) UpdatePresence(ctx *gin.Context) {
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

	var req UpdatePresenceRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
			return
		}
	}

	record, err := c.usecase.Update(ctx.Request.Context(), eventID, user.ID, req.Status, req.Metadata)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, record)
}

func (c *presenceController) GetActivePresence(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	result, err := c.usecase.GetActive(ctx.Request.Context(), eventID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *presenceController) RemovePresence(ctx *gin.Context) {
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

	c.usecase.Remove(ctx.Request.Context(), eventID, user.ID)

	ctx.JSON(http.StatusOK, responder.SuccessResponse{
		Message: "presence removed",
	})
}
