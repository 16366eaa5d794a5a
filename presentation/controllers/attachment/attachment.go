package attachment

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/application/usecases/attachment"
	"github.com/cheerioo/api/presentation/middlewares"
	"github.com/cheerioo/api/presentation/responder"
)

type AttachmentController interface {
	Upload(ctx *gin.Context)
	ListByEvent(ctx *gin.Context)
	Download(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type attachmentController struct {
	usecase *attachment.AttachmentUseCase
}

func NewAttachmentController(usecase *attachment.AttachmentUseCase) AttachmentController {
	return &attachmentController{usecase: usecase}
}

func (c *attachmentController) Upload(ctx *gin.Context) {
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

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		responder.BadRequest(ctx, "invalid_request", "file is required")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	body, err := fileHeader.Open()
	if err != nil {
		responder.BadRequest(ctx, "invalid_request", "could not read uploaded file")
		return
	}
	defer body.Close()

	uploaded, err := c.usecase.Upload(ctx.Request.Context(), eventID, user.ID, attachment.UploadInput{
		Filename: fileHeader.Filename,
		MimeType: mimeType,
		Size:     fileHeader.Size,
		Body:     body,
	})
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, uploaded)
}

func (c *attachmentController) ListByEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		responder.BadRequest(ctx, "invalid_request", "event ID is required")
		return
	}

	attachments, err := c.usecase.ListByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"attachments": attachments,
		"count":       len(attachments),
	})
}

func (c *attachmentController) Download(ctx *gin.Context) {
	attachmentID := ctx.Param("attachmentId")
	if attachmentID == "" {
		responder.BadRequest(ctx, "invalid_request", "attachment ID is required")
		return
	}

	att, body, err := c.usecase.Open(ctx.Request.Context(), attachmentID)
	if err != nil {
		responder.Error(ctx, err)
		return
	}
	defer body.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", att.Filename),
	}
	ctx.DataFromReader(http.StatusOK, att.Size, att.MimeType, body, extraHeaders)
}

func (c *attachmentController) Delete(ctx *gin.Context) {
	attachmentID := ctx.Param("attachmentId")
	if attachmentID == "" {
		responder.BadRequest(ctx, "invalid_request", "attachment ID is required")
		return
	}

	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		responder.Unauthorized(ctx, "authentication required")
		return
	}

	if err := c.usecase.Delete(ctx.Request.Context(), attachmentID, user.ID); err != nil {
		responder.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, responder.SuccessResponse{
		Message: "attachment deleted",
	})
}
