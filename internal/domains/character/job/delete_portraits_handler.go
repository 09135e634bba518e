package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"charaforge-backend/internal/infrastructure/storage"
	"charaforge-backend/internal/shared"
	"charaforge-backend/pkg/logger"
)

// DeletePortraitsHandler removes the portrait objects of a deleted
// character. The record is already gone when this runs, so failures
// only leave orphaned objects, never dangling references.
type DeletePortraitsHandler struct {
	store storage.ObjectStore
}

func NewDeletePortraitsHandler(store storage.ObjectStore) *DeletePortraitsHandler {
	return &DeletePortraitsHandler{store: store}
}

func (h *DeletePortraitsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.DeletePortraitsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	prefix := fmt.Sprintf("portraits/%s", payload.CharacterID)
	if err := h.store.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Error("Portrait cleanup failed", err)
		return fmt.Errorf("failed to delete portraits under %s: %w", prefix, err)
	}

	logger.Info("Portraits cleaned up", map[string]interface{}{
		"character_id": payload.CharacterID,
	})

	return nil
}
