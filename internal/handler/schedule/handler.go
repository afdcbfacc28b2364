package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/handler"
	"github.com/felicare/ckd-api/internal/middleware"
	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/service/pet"
	"github.com/felicare/ckd-api/internal/service/schedule"
)

type Handler struct {
	service *schedule.Service
	petSvc  *pet.Service
}

func NewHandler(service *schedule.Service, petSvc *pet.Service) *Handler {
	return &Handler{service: service, petSvc: petSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/pets/:petID")
	{
		schedules.POST("/medications", h.CreateMedication)
		schedules.GET("/medications", h.ListMedications)
		schedules.PUT("/medications/:scheduleID", h.UpdateMedication)
		schedules.DELETE("/medications/:scheduleID", h.DeleteMedication)

		schedules.PUT("/fluids", h.UpsertFluid)
		schedules.GET("/fluids", h.GetFluid)
	}
}

// ownedPet resolves the petID param and verifies the caller owns it.
func (h *Handler) ownedPet(c *gin.Context) (uuid.UUID, bool) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return uuid.Nil, false
	}

	petID, err := uuid.Parse(c.Param("petID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return uuid.Nil, false
	}

	if _, err := h.petSvc.Get(c.Request.Context(), caregiverID, petID); err != nil {
		handler.RespondError(c, err)
		return uuid.Nil, false
	}
	return petID, true
}

func (h *Handler) CreateMedication(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	var req model.CreateMedicationScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateMedication(c.Request.Context(), petID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListMedications(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	schedules, err := h.service.MedicationSchedules(c.Request.Context(), petID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(schedules))
}

func (h *Handler) UpdateMedication(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	scheduleID, err := uuid.Parse(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	var req model.UpdateMedicationScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.UpdateMedication(c.Request.Context(), petID, scheduleID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteMedication(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	scheduleID, err := uuid.Parse(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	if err := h.service.DeleteMedication(c.Request.Context(), petID, scheduleID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

func (h *Handler) UpsertFluid(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	var req model.UpsertFluidScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	saved, err := h.service.UpsertFluid(c.Request.Context(), petID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(saved))
}

func (h *Handler) GetFluid(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	fluid, err := h.service.FluidSchedule(c.Request.Context(), petID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if fluid == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("fluid schedule not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(fluid))
}
