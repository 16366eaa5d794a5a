package event

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/application/usecases/event"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type EventController interface {
	CreateEvent(ctx *gin.Context)
	GetEvent(ctx *gin.Context)
	GetEventBySlug(ctx *gin.Context)
	ListEvents(ctx *gin.Context)
	JoinEvent(ctx *gin.Context)
	LeaveEvent(ctx *gin.Context)
	GetMembers(ctx *gin.Context)
	DeleteEvent(ctx *gin.Context)
}

type eventController struct {
	usecase *event.EventUseCase
}

func NewEventController(usecase *event.EventUseCase) EventController {
	return &eventController{usecase: usecase}
}

func (c *eventController) CreateEvent(ctx *gin.Context) {
	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
		return
	}

	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	created, err := c.usecase.Create(ctx.Request.Context(), user.ID, user.Username, event.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
	})
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *eventController) GetEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	found, err := c.usecase.GetByID(ctx.Request.Context(), eventID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (c *eventController) GetEventBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if slug == "" {
		responder.BadRequest(ctx, "invalid_request", "event slug is required")
		return
	}

	found, err := c.usecase.GetBySlug(ctx.Request.Context(), slug)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (c *eventController) ListEvents(ctx *gin.Context) {
	events, err := c.usecase.List(ctx.Request.Context())
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

func (c *eventController) JoinEvent(ctx *gin.Context) {
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

	var req JoinEventRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
			return
		}
	}

	username := req.Username
	if username == "" {
		username = user.Username
	}

	result, err := c.usecase.Join(ctx.Request.Context(), eventID, user.ID, username)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, JoinEventResponse{
		Event:         result.Event,
		AlreadyMember: result.AlreadyMember,
	})
}

func (c *eventController) LeaveEvent(ctx *gin.Context) {
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

	if err := c.usecase.Leave(ctx.Request.Context(), eventID, user.ID); err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, responder.SuccessResponse{
		Message: "successfully left event",
	})
}

func (c *eventController) GetMembers(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	members, err := c.usecase.Members(ctx.Request.Context(), eventID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MembersResponse{
		Members: members,
		Count:   len(members),
	})
}

func (c *eventController) DeleteEvent(ctx *gin.Context) {
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

	if err := c.usecase.Delete(ctx.Request.Context(), eventID, user.ID); err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, responder.SuccessResponse{
		Message: "event deleted successfully",
	})
}
