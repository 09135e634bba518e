package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/internal/infrastructure/storage"
	"charaforge-backend/internal/shared/middleware"
	"charaforge-backend/internal/shared/response"
)

type CharacterHandler struct {
	service character.Service
}

func NewCharacterHandler(service character.Service) *CharacterHandler {
	return &CharacterHandler{service: service}
}

// Create handles POST /api/v1/characters
func (h *CharacterHandler) Create(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req character.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	callerName := c.GetString(middleware.ContextDisplayName)

	result, err := h.service.SaveCharacter(c.Request.Context(), callerID, callerName, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, result)
}

// Get handles GET /api/v1/characters/:id
func (h *CharacterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid character id")
		return
	}

	callerID, _ := middleware.CallerID(c)

	dto, err := h.service.GetCharacter(c.Request.Context(), callerID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, dto)
}

// ListByUser handles GET /api/v1/users/:id/characters
func (h *CharacterHandler) ListByUser(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	callerID, _ := middleware.CallerID(c)

	dtos, err := h.service.GetCharacters(c.Request.Context(), callerID, ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, dtos)
}

// ListMine handles GET /api/v1/characters/mine
func (h *CharacterHandler) ListMine(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	dtos, err := h.service.GetCharacters(c.Request.Context(), callerID, callerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, dtos)
}

// ListPublic handles GET /api/v1/characters
func (h *CharacterHandler) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	dtos, total, err := h.service.ListPublic(c.Request.Context(), page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, dtos, response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// UpdateStatus handles PATCH /api/v1/characters/:id/status
func (h *CharacterHandler) UpdateStatus(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid character id")
		return
	}

	var req character.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.UpdateCharacterStatus(c.Request.Context(), callerID, id, req); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "status": req.Status})
}

// Delete handles DELETE /api/v1/characters/:id
func (h *CharacterHandler) Delete(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid character id")
		return
	}

	if err := h.service.DeleteCharacter(c.Request.Context(), callerID, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}

// Like handles POST /api/v1/characters/:id/like
func (h *CharacterHandler) Like(c *gin.Context) {
	h.toggleLike(c, h.service.LikeCharacter)
}

// Unlike handles DELETE /api/v1/characters/:id/like
func (h *CharacterHandler) Unlike(c *gin.Context) {
	h.toggleLike(c, h.service.UnlikeCharacter)
}

func (h *CharacterHandler) toggleLike(c *gin.Context, op func(ctx context.Context, callerID, id uuid.UUID) error) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid character id")
		return
	}

	if err := op(c.Request.Context(), callerID, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"id": id})
}

func (h *CharacterHandler) writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, character.ErrCharacterNotFound):
		response.NotFound(c, "Character not found")
	case errors.Is(err, character.ErrPermissionDenied):
		response.Forbidden(c, "You do not own this character")
	case errors.Is(err, storage.ErrInvalidSourceFormat):
		response.BadRequest(c, "Invalid portrait source")
	case errors.Is(err, storage.ErrUploadFailed):
		response.ErrorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED", "Portrait upload failed")
	case errors.Is(err, character.ErrCouldNotSave):
		response.InternalServerError(c, "Could not save character")
	case errors.Is(err, character.ErrCouldNotDelete):
		response.InternalServerError(c, "Could not delete character")
	default:
		response.InternalServerError(c, "Something went wrong")
	}
}
