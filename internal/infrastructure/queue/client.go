package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"charaforge-backend/internal/shared"
	"charaforge-backend/pkg/logger"
)

// Client enqueues background tasks. It satisfies the task enqueuer
// contracts of the domain services.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *Client) EnqueueDeletePortraits(ctx context.Context, characterID uuid.UUID) error {
	payload, err := json.Marshal(shared.DeletePortraitsPayload{
		CharacterID: characterID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeletePortraits, payload)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	logger.Debug("Task enqueued", map[string]interface{}{
		"task_id": info.ID,
		"type":    info.Type,
		"queue":   info.Queue,
	})

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
