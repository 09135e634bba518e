package service

import (
	"context"

	"github.com/google/uuid"

	"charaforge-backend/internal/domains/datapack"
	"charaforge-backend/internal/domains/generation"
	"charaforge-backend/internal/domains/generation/gateway"
	"charaforge-backend/internal/domains/generation/prompt"
	"charaforge-backend/internal/infrastructure/storage"
	"charaforge-backend/pkg/logger"
)

// defaultBiographyTemplate is used when the request names no pack.
const defaultBiographyTemplate = "Write a detailed character biography for {{name}}. " +
	"Cover their origin, personality, strengths and flaws in third person."

// PackSource is the slice of the pack domain the generator needs.
type PackSource interface {
	GetPack(ctx context.Context, id uuid.UUID) (*datapack.DataPack, error)
}

type generationService struct {
	gateway gateway.ProfileGateway
	packs   PackSource
}

func NewGenerationService(gw gateway.ProfileGateway, packs PackSource) generation.Service {
	return &generationService{gateway: gw, packs: packs}
}

func (s *generationService) GenerateProfile(ctx context.Context, req generation.GenerateProfileRequest) (*generation.ProfileDraft, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	template := defaultBiographyTemplate
	if req.DataPackID != "" {
		packID, err := uuid.Parse(req.DataPackID)
		if err != nil {
			return nil, generation.ErrTraitsIncomplete
		}
		pack, err := s.packs.GetPack(ctx, packID)
		if err != nil {
			return nil, err
		}
		template = pack.PromptTemplate
	}

	vars := map[string]string{"name": req.Name}
	for key, value := range req.Traits {
		vars[key] = value
	}

	rendered, err := prompt.Render(template, vars)
	if err != nil {
		return nil, generation.ErrTraitsIncomplete
	}

	biography, err := s.gateway.GenerateBiography(ctx, rendered)
	if err != nil {
		logger.Error("Biography generation failed", err)
		return nil, generation.ErrGenerationFailed
	}

	return &generation.ProfileDraft{
		Name:      req.Name,
		Biography: biography,
		Prompt:    rendered,
	}, nil
}

// GeneratePortrait returns the image inline as a data URI; the client
// submits it back through character create, which uploads it to object
// storage.
func (s *generationService) GeneratePortrait(ctx context.Context, req generation.GeneratePortraitRequest) (*generation.PortraitDraft, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, contentType, err := s.gateway.GeneratePortrait(ctx, req.Prompt)
	if err != nil {
		logger.Error("Portrait generation failed", err)
		return nil, generation.ErrGenerationFailed
	}

	return &generation.PortraitDraft{
		ImageData: storage.EncodeDataURI(data, contentType),
	}, nil
}
