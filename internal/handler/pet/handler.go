package pet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/handler"
	"github.com/felicare/ckd-api/internal/middleware"
	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/service/pet"
)

type Handler struct {
	service *pet.Service
}

func NewHandler(service *pet.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	pets := r.Group("/pets")
	{
		pets.POST("", h.CreatePet)
		pets.GET("", h.ListPets)
		pets.GET("/:petID", h.GetPet)
		pets.PUT("/:petID", h.UpdatePet)
		pets.DELETE("/:petID", h.DeletePet)
	}
}

func (h *Handler) CreatePet(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	var req model.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), caregiverID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListPets(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	pets, err := h.service.List(c.Request.Context(), caregiverID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(pets))
}

func (h *Handler) GetPet(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	petID, err := uuid.Parse(c.Param("petID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), caregiverID, petID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdatePet(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	petID, err := uuid.Parse(c.Param("petID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	var req model.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), caregiverID, petID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeletePet(c *gin.Context) {
	caregiverID, ok := middleware.CaregiverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caregiver context"))
		return
	}

	petID, err := uuid.Parse(c.Param("petID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), caregiverID, petID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}
