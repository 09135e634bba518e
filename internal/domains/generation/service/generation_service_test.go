package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charaforge-backend/internal/domains/datapack"
	"charaforge-backend/internal/domains/generation"
)

type fakeGateway struct {
	lastPrompt string
	failText   bool
	failImage  bool
}

func (f *fakeGateway) GenerateBiography(ctx context.Context, prompt string) (string, error) {
	if f.failText {
		return "", errors.New("provider down")
	}
	f.lastPrompt = prompt
	return "Generated biography.", nil
}

func (f *fakeGateway) GeneratePortrait(ctx context.Context, prompt string) ([]byte, string, error) {
	if f.failImage {
		return nil, "", errors.New("provider down")
	}
	f.lastPrompt = prompt
	return []byte{0x89, 0x50, 0x4e, 0x47}, "image/png", nil
}

type fakePackSource struct {
	packs map[uuid.UUID]*datapack.DataPack
}

func (f *fakePackSource) GetPack(ctx context.Context, id uuid.UUID) (*datapack.DataPack, error) {
	if p, ok := f.packs[id]; ok {
		return p, nil
	}
	return nil, datapack.ErrPackNotFound
}

func TestGenerateProfile(t *testing.T) {
	packID := uuid.New()
	packs := &fakePackSource{packs: map[uuid.UUID]*datapack.DataPack{
		packID: {
			ID:             packID,
			Name:           "Fantasy Pack",
			PromptTemplate: "Describe {{name}}, a {{archetype}} from {{homeland}}.",
		},
	}}

	t.Run("default template when no pack named", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewGenerationService(gw, packs)

		draft, err := svc.GenerateProfile(context.Background(), generation.GenerateProfileRequest{
			Name: "Rin",
		})

		require.NoError(t, err)
		assert.Equal(t, "Generated biography.", draft.Biography)
		assert.True(t, strings.Contains(gw.lastPrompt, "Rin"))
	})

	t.Run("pack template rendered with traits", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewGenerationService(gw, packs)

		draft, err := svc.GenerateProfile(context.Background(), generation.GenerateProfileRequest{
			Name:       "Rin",
			DataPackID: packID.String(),
			Traits: map[string]string{
				"archetype": "ronin",
				"homeland":  "the northern isles",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "Describe Rin, a ronin from the northern isles.", draft.Prompt)
	})

	t.Run("missing traits rejected", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewGenerationService(gw, packs)

		_, err := svc.GenerateProfile(context.Background(), generation.GenerateProfileRequest{
			Name:       "Rin",
			DataPackID: packID.String(),
			Traits:     map[string]string{"archetype": "ronin"},
		})

		assert.ErrorIs(t, err, generation.ErrTraitsIncomplete)
	})

	t.Run("unknown pack surfaces not found", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewGenerationService(gw, packs)

		_, err := svc.GenerateProfile(context.Background(), generation.GenerateProfileRequest{
			Name:       "Rin",
			DataPackID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, datapack.ErrPackNotFound)
	})

	t.Run("provider failure mapped", func(t *testing.T) {
		gw := &fakeGateway{failText: true}
		svc := NewGenerationService(gw, packs)

		_, err := svc.GenerateProfile(context.Background(), generation.GenerateProfileRequest{
			Name: "Rin",
		})

		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	})
}

func TestGeneratePortrait(t *testing.T) {
	t.Run("returns data uri", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewGenerationService(gw, nil)

		draft, err := svc.GeneratePortrait(context.Background(), generation.GeneratePortraitRequest{
			Prompt: "a ronin at dusk",
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(draft.ImageData, "data:image/png;base64,"))
	})

	t.Run("empty prompt rejected", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewGenerationService(gw, nil)

		_, err := svc.GeneratePortrait(context.Background(), generation.GeneratePortraitRequest{})
		require.Error(t, err)
	})
}
