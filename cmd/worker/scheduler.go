package main

import (
	"os"
	"time"

	"github.com/hibiken/asynq"

	"charaforge-backend/internal/config"
	"charaforge-backend/internal/infrastructure/queue"
	"charaforge-backend/pkg/logger"
)

func newScheduler(cfg *config.Config) *asynq.Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
		},
	)

	if err := queue.RegisterSchedules(scheduler); err != nil {
		logger.Error("Failed to register schedules", err)
		os.Exit(1)
	}

	return scheduler
}
