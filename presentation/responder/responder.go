// Package responder maps application errors to HTTP responses so controllers
// do not branch on error strings.
package responder

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/domain/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error writes the status and body for err. Internal errors get a generic
// body; the details stay in the logs.
func Error(ctx *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		message := appErr.Message
		if appErr.Kind == apperrors.KindInternal {
			message = "something went wrong"
		}
		ctx.JSON(appErr.HTTPStatus(), ErrorResponse{
			Error:   appErr.Code,
			Message: message,
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "something went wrong",
	})
}

func BadRequest(ctx *gin.Context, code, message string) {
	ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func Unauthorized(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
