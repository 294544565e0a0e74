// Package main is the entry point for Advisor Pulse, the performance
// analytics and coaching service for sales advisors.
//
// Startup order:
// 1. Load configuration from the environment (.env supported)
// 2. Initialize structured logging
// 3. Wire databases, repositories, services and jobs
// 4. Start the HTTP server and the job scheduler
// 5. Wait for SIGINT/SIGTERM and shut down gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/salesops/advisorpulse/internal/config"
	"github.com/salesops/advisorpulse/internal/di"
	"github.com/salesops/advisorpulse/internal/server"
	"github.com/salesops/advisorpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "advisorpulse",
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Advisor Pulse")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	container.Scheduler.Start()
	log.Info().
		Int("port", cfg.Port).
		Bool("backups", jobs.Backup != nil).
		Msg("Advisor Pulse started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Shutdown complete")
}
