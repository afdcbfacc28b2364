package treatment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/handler"
	"github.com/felicare/ckd-api/internal/middleware"
	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/service/pet"
	"github.com/felicare/ckd-api/internal/service/treatment"
)

type Handler struct {
	service *treatment.Service
	petSvc  *pet.Service
}

func NewHandler(service *treatment.Service, petSvc *pet.Service) *Handler {
	return &Handler{service: service, petSvc: petSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	treatments := r.Group("/pets/:petID/treatments")
	{
		treatments.POST("", h.LogTreatment)
		treatments.GET("", h.ListTreatments)
	}
}

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

func (h *Handler) LogTreatment(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	var req model.CreateTreatmentLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	logged, err := h.service.Log(c.Request.Context(), petID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(logged))
}

// ListTreatments returns the pet's treatment logs for one day. The
// ?day=yyyy-mm-dd query defaults to today.
func (h *Handler) ListTreatments(c *gin.Context) {
	petID, ok := h.ownedPet(c)
	if !ok {
		return
	}

	day := time.Now().UTC()
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid day: expected yyyy-mm-dd"))
			return
		}
		day = parsed
	}

	logs, err := h.service.ListForDay(c.Request.Context(), petID, day)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}
