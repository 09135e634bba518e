package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"charaforge-backend/internal/shared"
)

// RegisterSchedules wires the periodic jobs. Counter reconciliation
// runs nightly during the quiet window.
func RegisterSchedules(scheduler *asynq.Scheduler) error {
	reconcilePayload, err := json.Marshal(shared.ReconcileStatsPayload{Limit: 1000})
	if err != nil {
		return fmt.Errorf("failed to marshal schedule payload: %w", err)
	}

	_, err = scheduler.Register(
		"0 4 * * *",
		asynq.NewTask(shared.TypeReconcileStats, reconcilePayload),
		asynq.Queue(shared.QueueLow),
	)
	if err != nil {
		return fmt.Errorf("failed to register reconcile schedule: %w", err)
	}

	return nil
}
