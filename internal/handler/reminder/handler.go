package reminder

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/handler"
	"github.com/felicare/ckd-api/internal/middleware"
	"github.com/felicare/ckd-api/internal/service/pet"
	"github.com/felicare/ckd-api/internal/service/reminder"
)

type Handler struct {
	engine *reminder.Engine
	petSvc *pet.Service
}

func NewHandler(engine *reminder.Engine, petSvc *pet.Service) *Handler {
	return &Handler{engine: engine, petSvc: petSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/pets/:petID/reminders")
	{
		reminders.GET("", h.GetScheduled)
		reminders.POST("/reconcile", h.Reconcile)
		reminders.POST("/snooze", h.Snooze)
		reminders.DELETE("", h.ClearDay)
	}
}

type snoozeRequest struct {
	NotificationID int32  `json:"notification_id" binding:"required"`
	Day            string `json:"day,omitempty"`
}

func (h *Handler) ownedPet(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return uuid.Nil, uuid.Nil, false
	}

	petID, err := uuid.Parse(c.Param("petID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return uuid.Nil, uuid.Nil, false
	}

	if _, err := h.petSvc.Get(c.Request.Context(), caregiverID, petID); err != nil {
		handler.RespondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return caregiverID, petID, true
}

func dayParam(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now().UTC(), true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid day: expected yyyy-mm-dd"))
		return time.Time{}, false
	}
	return day, true
}

// GetScheduled returns the persisted notification index for the day.
func (h *Handler) GetScheduled(c *gin.Context) {
	caregiverID, petID, ok := h.ownedPet(c)
	if !ok {
		return
	}
	day, ok := dayParam(c, c.Query("day"))
	if !ok {
		return
	}

	entries, err := h.engine.CurrentIndex(c.Request.Context(), caregiverID, petID, day)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}

// Reconcile runs a scheduling pass for the pet and day, then returns
// the resulting index.
func (h *Handler) Reconcile(c *gin.Context) {
	caregiverID, petID, ok := h.ownedPet(c)
	if !ok {
		return
	}
	day, ok := dayParam(c, c.Query("day"))
	if !ok {
		return
	}

	if err := h.engine.Reconcile(c.Request.Context(), caregiverID, petID, day); err != nil {
		handler.RespondError(c, err)
		return
	}

	entries, err := h.engine.CurrentIndex(c.Request.Context(), caregiverID, petID, day)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}

// Snooze schedules an extra reminder a short offset after now for an
// already-scheduled notification.
func (h *Handler) Snooze(c *gin.Context) {
	caregiverID, petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	var req snoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	day, ok := dayParam(c, req.Day)
	if !ok {
		return
	}

	entries, err := h.engine.CurrentIndex(c.Request.Context(), caregiverID, petID, day)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	for _, entry := range entries {
		if entry.NotificationID != req.NotificationID {
			continue
		}
		snoozed, err := h.engine.Snooze(c.Request.Context(), caregiverID, petID, day, entry)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, handler.NewSuccessResponse(snoozed))
		return
	}

	c.JSON(http.StatusNotFound, handler.NewErrorResponse("notification not found"))
}

// ClearDay removes the persisted index for the day.
func (h *Handler) ClearDay(c *gin.Context) {
	caregiverID, petID, ok := h.ownedPet(c)
	if !ok {
		return
	}
	day, ok := dayParam(c, c.Query("day"))
	if !ok {
		return
	}

	if err := h.engine.ClearScope(c.Request.Context(), caregiverID, petID, day); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cleared": true}))
}
