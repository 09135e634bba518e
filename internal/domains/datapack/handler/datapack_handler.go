package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"charaforge-backend/internal/domains/datapack"
	"charaforge-backend/internal/shared/middleware"
	"charaforge-backend/internal/shared/response"
)

type DatapackHandler struct {
	service datapack.Service
}

func NewDatapackHandler(service datapack.Service) *DatapackHandler {
	return &DatapackHandler{service: service}
}

// List handles GET /api/v1/packs
func (h *DatapackHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	packs, total, err := h.service.ListPacks(c.Request.Context(), page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, packs, response.Meta{Page: page, Limit: limit, Total: total})
}

// Get handles GET /api/v1/packs/:id
func (h *DatapackHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pack id")
		return
	}

	pack, err := h.service.GetPack(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, pack)
}

// Create handles POST /api/v1/admin/packs
func (h *DatapackHandler) Create(c *gin.Context) {
	var req datapack.CreatePackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	pack, err := h.service.CreatePack(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, pack)
}

// Update handles PUT /api/v1/admin/packs/:id
func (h *DatapackHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pack id")
		return
	}

	var req datapack.CreatePackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	pack, err := h.service.UpdatePack(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, pack)
}

// Delete handles DELETE /api/v1/admin/packs/:id
func (h *DatapackHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pack id")
		return
	}

	if err := h.service.DeletePack(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}

// Install handles POST /api/v1/packs/:id/install
func (h *DatapackHandler) Install(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pack id")
		return
	}

	if err := h.service.InstallPack(c.Request.Context(), callerID, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "installed": true})
}

func (h *DatapackHandler) writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, datapack.ErrPackNotFound):
		response.NotFound(c, "Data pack not found")
	case errors.Is(err, datapack.ErrNameTaken):
		response.Conflict(c, "Pack name already in use")
	case errors.Is(err, datapack.ErrPackInUse):
		response.Conflict(c, "Pack is referenced by characters")
	case errors.Is(err, datapack.ErrAlreadyOwned):
		response.Conflict(c, "Pack already installed")
	case errors.Is(err, datapack.ErrTemplateBroken):
		response.BadRequest(c, "Prompt template is invalid")
	default:
		response.InternalServerError(c, "Something went wrong")
	}
}
