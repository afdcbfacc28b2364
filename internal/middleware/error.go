package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/felicare/ckd-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}

		lastErr := c.Errors.Last().Err

		status := http.StatusInternalServerError
		code := apperrors.ErrInternal
		message := "internal server error"

		var appErr *apperrors.AppError
		if errors.As(lastErr, &appErr) {
			code = appErr.Code
			message = appErr.Message
			status = statusForCode(appErr.Code)
		}

		c.JSON(status, ErrorResponse{
			Code:      int(code),
			Message:   message,
			RequestID: requestID,
		})
	}
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest, apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrIntegrity, apperrors.ErrStorageIO, apperrors.ErrDeviceScheduling:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
