package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/internal/shared"
	"charaforge-backend/pkg/logger"
)

// StatsStore is the slice of the user domain the reconciliation job
// needs: enumerate counter rows and overwrite a drifted value.
type StatsStore interface {
	ListStatsUserIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	SetCharactersCreated(ctx context.Context, userID uuid.UUID, count int) error
	GetCharactersCreated(ctx context.Context, userID uuid.UUID) (int, error)
}

// ReconcileStatsHandler recounts each user's characters from the source
// of truth and repairs counters that drifted, e.g. from deletes
// performed before the delete path became transactional.
type ReconcileStatsHandler struct {
	characters character.Repository
	stats      StatsStore
}

func NewReconcileStatsHandler(characters character.Repository, stats StatsStore) *ReconcileStatsHandler {
	return &ReconcileStatsHandler{characters: characters, stats: stats}
}

func (h *ReconcileStatsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ReconcileStatsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = 500
	}

	userIDs, err := h.stats.ListStatsUserIDs(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list stats rows: %w", err)
	}

	repaired := 0
	for _, userID := range userIDs {
		actual, err := h.characters.CountByUser(ctx, userID)
		if err != nil {
			logger.Error("Reconcile count failed", err)
			continue
		}

		recorded, err := h.stats.GetCharactersCreated(ctx, userID)
		if err != nil {
			logger.Error("Reconcile read failed", err)
			continue
		}

		if recorded == actual {
			continue
		}

		if err := h.stats.SetCharactersCreated(ctx, userID, actual); err != nil {
			logger.Error("Reconcile repair failed", err)
			continue
		}

		logger.Warn("Counter drift repaired", map[string]interface{}{
			"user_id":  userID.String(),
			"recorded": recorded,
			"actual":   actual,
		})
		repaired++
	}

	logger.Info("Stats reconciliation finished", map[string]interface{}{
		"checked":  len(userIDs),
		"repaired": repaired,
	})

	return nil
}
