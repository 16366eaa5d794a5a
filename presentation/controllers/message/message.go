package message

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/application/usecases/message"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type MessageController interface {
	SendMessage(ctx *gin.Context)
	ListMessages(ctx *gin.Context)
	EditMessage(ctx *gin.Context)
	DeleteMessage(ctx *gin.Context)
	GetEmojiMarkers(ctx *gin.Context)
}

type messageController struct {
	usecase *message.MessageUseCase
}

func NewMessageController(usecase *message.MessageUseCase) MessageController {
	return &messageController{usecase: usecase}
}

func (c *messageController) SendMessage(ctx *gin.Context) {
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

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
		return
	}

	sent, err := c.usecase.Send(ctx.Request.Context(), eventID, user.ID, user.Username, message.SendMessageInput{
		Content: req.Content,
		Lat:     req.Lat,
		Long:    req.Long,
	})
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sent)
}

func (c *messageController) ListMessages(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	var after time.Time
	if raw := ctx.Query("after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responder.BadRequest(ctx, "invalid_request", "after must be an RFC 3339 timestamp")
			return
		}
		after = parsed
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			responder.BadRequest(ctx, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	messages, err := c.usecase.List(ctx.Request.Context(), eventID, after, limit)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MessageListResponse{
		Messages: messages,
		Count:    len(messages),
	})
}

func (c *messageController) EditMessage(ctx *gin.Context) {
	eventID := ctx.Param("id")
	messageID := ctx.Param("messageId")
	if eventID == "" || messageID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID and message ID are required")
		return
	}

	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	var req EditMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		responder.BadRequest(ctx, "invalid_request", middlewares.TranslateValidationError(err))
		return
	}

	edited, err := c.usecase.Edit(ctx.Request.Context(), eventID, messageID, user.ID, req.Content)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, edited)
}

func (c *messageController) DeleteMessage(ctx *gin.Context) {
	eventID := ctx.Param("id")
	messageID := ctx.Param("messageId")
	if eventID == "" || messageID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID and message ID are required")
		return
	}

	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	if err := c.usecase.Delete(ctx.Request.Context(), eventID, messageID, user.ID); err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, responder.SuccessResponse{
		Message: "message deleted",
	})
}

func (c *messageController) GetEmojiMarkers(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			responder.BadRequest(ctx, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	markers, err := c.usecase.EmojiMarkers(ctx.Request.Context(), eventID, limit)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MarkersResponse{Markers: markers})
}
