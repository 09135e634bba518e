package character

import (
	"context"

	"github.com/google/uuid"

	"charaforge-backend/internal/infrastructure/storage"
)

// Service is the character domain API consumed by handlers.
// Anonymous callers pass uuid.Nil as callerID; the access gate then
// admits public records only.
type Service interface {
	SaveCharacter(ctx context.Context, callerID uuid.UUID, callerName string, req CreateCharacterRequest) (*SaveResult, error)
	GetCharacter(ctx context.Context, callerID, id uuid.UUID) (*CharacterDTO, error)
	GetCharacters(ctx context.Context, callerID, ownerID uuid.UUID) ([]CharacterDTO, error)
	ListPublic(ctx context.Context, page, limit int) ([]CharacterDTO, int, error)
	UpdateCharacterStatus(ctx context.Context, callerID, id uuid.UUID, req UpdateStatusRequest) error
	DeleteCharacter(ctx context.Context, callerID, id uuid.UUID) error
	LikeCharacter(ctx context.Context, callerID, id uuid.UUID) error
	UnlikeCharacter(ctx context.Context, callerID, id uuid.UUID) error
}

// PortraitUploader places a portrait into object storage and returns its
// public URL. Implemented by storage.PortraitStore.
type PortraitUploader interface {
	Upload(ctx context.Context, src storage.PortraitSource, pathPrefix string) (string, error)
}

// PackDirectory resolves pack references during hydration. A lookup
// failure degrades the single record, never the whole read.
type PackDirectory interface {
	Summary(ctx context.Context, packID uuid.UUID) (*PackSummary, error)
}

// TaskEnqueuer hands off post-delete cleanup to the background worker.
type TaskEnqueuer interface {
	EnqueueDeletePortraits(ctx context.Context, characterID uuid.UUID) error
}
