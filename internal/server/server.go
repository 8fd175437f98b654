package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/handlers"
	"github.com/tatupesonen/artemis/internal/feeds/migrations"
	"github.com/tatupesonen/artemis/internal/feeds/models"
	"github.com/tatupesonen/artemis/internal/feeds/services"
)

// Server owns the HTTP listener, the database handle and the
// ingestion scheduler.
type Server struct {
	config    *core.Config
	logger    *core.Logger
	db        *core.Database
	scheduler *services.SchedulerService
	handlers  *handlers.Handlers
	server    *http.Server
}

// New builds a fully wired server: database, migrations, services,
// scheduler and routes. The scheduler is not started until Start.
func New(config *core.Config, logger *core.Logger) (*Server, error) {
	db, err := core.OpenDatabase(config.Database.Path, logger.ForComponent("database"))
	if err != nil {
		return nil, err
	}

	migrationMgr := migrations.NewManager(db, logger.ForComponent("migrations"))
	if err := migrationMgr.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	feedService := services.NewFeedService(db, logger.ForComponent("feeds"))
	entryService := services.NewEntryService(db, logger.ForComponent("entries"))

	fetcherConfig := &models.FetcherConfig{
		UserAgent: config.Ingestion.UserAgent,
		Timeout:   config.Ingestion.FetchTimeout,
	}
	fetcherService := services.NewFetcherService(logger.ForComponent("fetcher"), fetcherConfig)

	schedulerConfig := &models.SchedulerConfig{
		RefreshInterval: config.Ingestion.RefreshInterval,
	}
	schedulerService := services.NewSchedulerService(
		feedService, entryService, fetcherService,
		logger.ForComponent("scheduler"), schedulerConfig)

	h := handlers.NewHandlers(logger.ForComponent("http"), feedService, entryService, fetcherService, schedulerService)

	srv := &Server{
		config:    config,
		logger:    logger,
		db:        db,
		scheduler: schedulerService,
		handlers:  h,
	}

	srv.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return srv, nil
}

// Start runs the scheduler and the HTTP listener, blocking until a
// shutdown signal is received
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.logger.Info("Shutting down", "signal", sig.String())
	}

	return s.Shutdown()
}

// Shutdown stops the scheduler, the HTTP server and the database,
// giving in-flight workers and requests time to finish
func (s *Server) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.scheduler.Stop(shutdownCtx); err != nil {
		s.logger.Error("Scheduler did not drain cleanly", "error", err)
	}

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown failed", "error", err)
	}

	return s.db.Close()
}
