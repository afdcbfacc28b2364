package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/felicare/ckd-api/internal/handler"
	"github.com/felicare/ckd-api/internal/middleware"
	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/service/settings"
)

type Handler struct {
	service *settings.Service
}

func NewHandler(service *settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/settings")
	{
		group.GET("/notifications", h.GetNotificationSettings)
		group.PUT("/notifications", h.UpdateNotificationSettings)
	}
}

func (h *Handler) GetNotificationSettings(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	current, err := h.service.Get(c.Request.Context(), caregiverID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(current))
}

func (h *Handler) UpdateNotificationSettings(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	var req model.UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), caregiverID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
