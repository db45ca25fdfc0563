package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/libriverse/internal/api"
	"github.com/dom/libriverse/internal/catalog"
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/repository/postgres"
	"github.com/dom/libriverse/internal/service"
	"github.com/dom/libriverse/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	repos := postgres.NewRepositories(db)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.GoogleBooksURL,
		APIKey:  cfg.GoogleBooksAPIKey,
		Timeout: cfg.CatalogTimeout,
	})

	hub := websocket.NewHub()
	go hub.Run()

	services := service.NewServices(repos, catalogClient, hub, cfg)
	router := api.NewRouter(services, hub, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}
	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logging.Info().Msg("server stopped")
}
