package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"charaforge-backend/internal/domains/datapack"
	"charaforge-backend/internal/domains/generation"
	"charaforge-backend/internal/shared/response"
)

type GenerationHandler struct {
	service generation.Service
}

func NewGenerationHandler(service generation.Service) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// GenerateProfile handles POST /api/v1/generate/profile
func (h *GenerationHandler) GenerateProfile(c *gin.Context) {
	var req generation.GenerateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.service.GenerateProfile(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, draft)
}

// GeneratePortrait handles POST /api/v1/generate/portrait
func (h *GenerationHandler) GeneratePortrait(c *gin.Context) {
	var req generation.GeneratePortraitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.service.GeneratePortrait(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, draft)
}

func (h *GenerationHandler) writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, datapack.ErrPackNotFound):
		response.NotFound(c, "Data pack not found")
	case errors.Is(err, generation.ErrTraitsIncomplete):
		response.BadRequest(c, "Traits do not satisfy the prompt template")
	case errors.Is(err, generation.ErrGenerationFailed):
		response.ErrorResponse(c, 502, "UPSTREAM_FAILED", "Generation provider failed")
	default:
		response.InternalServerError(c, "Something went wrong")
	}
}
