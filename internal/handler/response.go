package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/felicare/ckd-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes an error response with the HTTP status implied by
// the error's application code.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrNotFound:
			status = http.StatusNotFound
		case apperrors.ErrBadRequest, apperrors.ErrValidation:
			status = http.StatusBadRequest
		case apperrors.ErrUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrForbidden:
			status = http.StatusForbidden
		}
	}

	c.JSON(status, NewErrorResponse(err.Error()))
}
