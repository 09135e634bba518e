package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"charaforge-backend/internal/config"
	"charaforge-backend/pkg/container"
	"charaforge-backend/pkg/logger"
)

// The worker processes background tasks: portrait cleanup after
// character deletes and the nightly counter reconciliation.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.App.Environment)

	c, err := container.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize container", err)
		os.Exit(1)
	}
	defer c.Close()

	srv, mux := newServer(cfg)
	registerHandlers(mux, c)

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("Worker server failed", err)
			os.Exit(1)
		}
	}()

	scheduler := newScheduler(cfg)
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Scheduler failed", err)
			os.Exit(1)
		}
	}()

	logger.Info("Worker started", map[string]interface{}{
		"env": cfg.App.Environment,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker", nil)
	scheduler.Shutdown()
	srv.Shutdown()
}
