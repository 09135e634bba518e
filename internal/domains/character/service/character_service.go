package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/internal/infrastructure/storage"
	"charaforge-backend/pkg/logger"
)

type characterService struct {
	repo      character.Repository
	portraits character.PortraitUploader
	packs     character.PackDirectory
	tasks     character.TaskEnqueuer
}

// NewCharacterService wires the character domain service.
// packs and tasks may be nil in reduced deployments; hydration and
// cleanup degrade gracefully without them.
func NewCharacterService(
	repo character.Repository,
	portraits character.PortraitUploader,
	packs character.PackDirectory,
	tasks character.TaskEnqueuer,
) character.Service {
	return &characterService{
		repo:      repo,
		portraits: portraits,
		packs:     packs,
		tasks:     tasks,
	}
}

// ========================================
// Writer
// ========================================

func (s *characterService) SaveCharacter(ctx context.Context, callerID uuid.UUID, callerName string, req character.CreateCharacterRequest) (*character.SaveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The id is assigned up front so uploaded portraits land under a
	// per-character prefix the cleanup job can remove wholesale.
	characterID := uuid.New()

	imageURL := req.ImageURL
	if req.ImageData != "" {
		url, err := s.portraits.Upload(ctx, storage.PortraitSource{DataURI: req.ImageData},
			fmt.Sprintf("portraits/%s", characterID))
		if err != nil {
			logger.Error("Portrait upload failed", err)
			return nil, err
		}
		imageURL = url
	}

	var packID *uuid.UUID
	if req.DataPackID != "" {
		id, err := uuid.Parse(req.DataPackID)
		if err != nil {
			return nil, character.ErrCouldNotSave
		}
		packID = &id
	}

	ch := &character.Character{
		ID:          characterID,
		Name:        req.Name,
		Description: req.Description,
		Biography:   req.Biography,
		ImageURL:    imageURL,
		UserID:      callerID,
		UserName:    callerName,
		Status:      character.StatusPrivate,
		DataPackID:  packID,
	}

	if err := s.repo.Create(ctx, ch); err != nil {
		logger.Error("Character create failed", err)
		return nil, character.ErrCouldNotSave
	}

	logger.Info("Character created", map[string]interface{}{
		"character_id": ch.ID.String(),
		"user_id":      callerID.String(),
	})

	return &character.SaveResult{ID: ch.ID, ImageURL: imageURL}, nil
}

// ========================================
// Reader
// ========================================

// GetCharacter returns a single hydrated record. Private records are
// indistinguishable from missing ones for non-owners.
func (s *characterService) GetCharacter(ctx context.Context, callerID, id uuid.UUID) (*character.CharacterDTO, error) {
	ch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ch.Status != character.StatusPublic && ch.UserID != callerID {
		return nil, character.ErrCharacterNotFound
	}

	dtos := s.hydrate(ctx, []character.Character{*ch})
	return &dtos[0], nil
}

func (s *characterService) GetCharacters(ctx context.Context, callerID, ownerID uuid.UUID) ([]character.CharacterDTO, error) {
	records, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if callerID != ownerID {
		visible := records[:0]
		for _, ch := range records {
			if ch.Status == character.StatusPublic {
				visible = append(visible, ch)
			}
		}
		records = visible
	}

	return s.hydrate(ctx, records), nil
}

func (s *characterService) ListPublic(ctx context.Context, page, limit int) ([]character.CharacterDTO, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	records, total, err := s.repo.ListPublic(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return s.hydrate(ctx, records), total, nil
}

// hydrate resolves pack references for each record concurrently.
// A failed lookup leaves that record's Pack nil instead of failing the
// whole read, and the input order is preserved.
func (s *characterService) hydrate(ctx context.Context, records []character.Character) []character.CharacterDTO {
	dtos := make([]character.CharacterDTO, len(records))

	var wg sync.WaitGroup
	for i := range records {
		ch := &records[i]
		dtos[i] = *toDTO(ch)

		if ch.DataPackID == nil || s.packs == nil {
			continue
		}

		wg.Add(1)
		go func(i int, packID uuid.UUID) {
			defer wg.Done()
			summary, err := s.packs.Summary(ctx, packID)
			if err != nil {
				logger.Warn("Pack hydration degraded", map[string]interface{}{
					"pack_id": packID.String(),
					"error":   err.Error(),
				})
				return
			}
			dtos[i].Pack = summary
		}(i, *ch.DataPackID)
	}
	wg.Wait()

	return dtos
}

// ========================================
// Access-gated mutations
// ========================================

func (s *characterService) UpdateCharacterStatus(ctx context.Context, callerID, id uuid.UUID, req character.UpdateStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.requireOwner(ctx, callerID, id); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, id, character.Status(req.Status))
}

func (s *characterService) DeleteCharacter(ctx context.Context, callerID, id uuid.UUID) error {
	if err := s.requireOwner(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("Character delete failed", err)
		return character.ErrCouldNotDelete
	}

	// Object cleanup is best effort; the record is already gone.
	if s.tasks != nil {
		if err := s.tasks.EnqueueDeletePortraits(ctx, id); err != nil {
			logger.Warn("Portrait cleanup enqueue failed", map[string]interface{}{
				"character_id": id.String(),
				"error":        err.Error(),
			})
		}
	}

	logger.Info("Character deleted", map[string]interface{}{
		"character_id": id.String(),
		"user_id":      callerID.String(),
	})

	return nil
}

func (s *characterService) LikeCharacter(ctx context.Context, callerID, id uuid.UUID) error {
	if err := s.requireVisible(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.AddLike(ctx, id)
}

func (s *characterService) UnlikeCharacter(ctx context.Context, callerID, id uuid.UUID) error {
	if err := s.requireVisible(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.RemoveLike(ctx, id)
}

// requireOwner re-checks ownership server-side; the caller identity
// comes from the verified token, never from the request body.
func (s *characterService) requireOwner(ctx context.Context, callerID, id uuid.UUID) error {
	ch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if ch.UserID != callerID {
		return character.ErrPermissionDenied
	}
	return nil
}

func (s *characterService) requireVisible(ctx context.Context, callerID, id uuid.UUID) error {
	ch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if ch.Status != character.StatusPublic && ch.UserID != callerID {
		return character.ErrCharacterNotFound
	}
	return nil
}

func toDTO(ch *character.Character) *character.CharacterDTO {
	return &character.CharacterDTO{
		ID:          ch.ID,
		Name:        ch.Name,
		Description: ch.Description,
		Biography:   ch.Biography,
		ImageURL:    ch.ImageURL,
		UserID:      ch.UserID,
		UserName:    ch.UserName,
		Status:      ch.Status,
		Likes:       ch.Likes,
		CreatedAt:   ch.CreatedAt,
	}
}
