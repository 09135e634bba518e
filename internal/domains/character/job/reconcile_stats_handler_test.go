package job

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/internal/shared"
)

// stubCharacterRepo only needs CountByUser; the embedded interface
// panics on anything else, which would flag an unexpected call.
type stubCharacterRepo struct {
	character.Repository
	counts map[uuid.UUID]int
}

func (s *stubCharacterRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.counts[userID], nil
}

type stubStatsStore struct {
	recorded map[uuid.UUID]int
}

func (s *stubStatsStore) ListStatsUserIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for id := range s.recorded {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubStatsStore) GetCharactersCreated(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.recorded[userID], nil
}

func (s *stubStatsStore) SetCharactersCreated(ctx context.Context, userID uuid.UUID, count int) error {
	s.recorded[userID] = count
	return nil
}

func TestReconcileStatsHandler(t *testing.T) {
	accurate := uuid.New()
	drifted := uuid.New()

	characters := &stubCharacterRepo{counts: map[uuid.UUID]int{
		accurate: 3,
		drifted:  1,
	}}
	stats := &stubStatsStore{recorded: map[uuid.UUID]int{
		accurate: 3,
		drifted:  4, // deletes before the transactional path left drift behind
	}}

	handler := NewReconcileStatsHandler(characters, stats)

	payload, err := json.Marshal(shared.ReconcileStatsPayload{Limit: 100})
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReconcileStats, payload))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.recorded[accurate])
	assert.Equal(t, 1, stats.recorded[drifted])
}

func TestReconcileStatsHandlerBadPayload(t *testing.T) {
	handler := NewReconcileStatsHandler(&stubCharacterRepo{}, &stubStatsStore{})

	err := handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReconcileStats, []byte("{broken")))
	assert.Error(t, err)
}
