package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/application/usecases/activity"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type ActivityController interface {
	RecordActivity(ctx *gin.Context)
	RecordPosition(ctx *gin.Context)
	ListActivities(ctx *gin.Context)
	GetSummary(ctx *gin.Context)
	GetPaths(ctx *gin.Context)
}

type activityController struct {
	usecase *activity.ActivityUseCase
}

func NewActivityController(usecase *activity.ActivityUseCase) ActivityController {
	return &activityController{usecase: usecase}
}

func (c *activityController) RecordActivity(ctx *gin.Context) {
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

	var req RecordActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
		return
	}

	record, err := c.usecase.Record(ctx.Request.Context(), eventID, user.ID, model.ActivityType(req.ActivityType), req.Data)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, record)
}

func (c *activityController) RecordPosition(ctx *gin.Context) {
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

	var req PositionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
		return
	}

	at := time.Now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	records, err := c.usecase.RecordFix(ctx.Request.Context(), eventID, user.ID, activity.Fix{
		Lat:      *req.Lat,
		Long:     *req.Long,
		Accuracy: req.Accuracy,
		At:       at,
	})
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, PositionResponse{Records: records})
}

func (c *activityController) ListActivities(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	filter := repository.ActivityFilter{
		ActivityType: model.ActivityType(ctx.Query("type")),
		UserID:       ctx.Query("user_id"),
	}

	if since := ctx.Query("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			responder.BadRequest(ctx, "invalid_request", "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = parsed
	}

	if limit := ctx.Query("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			responder.BadRequest(ctx, "invalid_request", "limit must be a non-negative integer")
			return
		}
		filter.Limit = parsed
	}

	records, err := c.usecase.List(ctx.Request.Context(), eventID, filter)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ActivityListResponse{
		Records: records,
		Count:   len(records),
	})
}

func (c *activityController) GetSummary(ctx *gin.Context) {
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

	summaries, err := c.usecase.Summary(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, SummaryResponse{Summaries: summaries})
}

func (c *activityController) GetPaths(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	paths, err := c.usecase.TrackingPaths(ctx.Request.Context(), eventID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, PathsResponse{Paths: paths})
}
