package main

import (
	"github.com/hibiken/asynq"

	"charaforge-backend/internal/domains/character/job"
	"charaforge-backend/internal/shared"
	"charaforge-backend/pkg/container"
)

func registerHandlers(mux *asynq.ServeMux, c *container.Container) {
	mux.Handle(shared.TypeDeletePortraits, job.NewDeletePortraitsHandler(c.ObjectStore))
	mux.Handle(shared.TypeReconcileStats, job.NewReconcileStatsHandler(c.CharacterRepo, c.UserRepo))
}
