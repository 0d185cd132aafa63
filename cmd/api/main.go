package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/app"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/config"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/drive"
	"github.com/andresuchdata/inbound-logbook/backend-go/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)

	// Initialize Google Drive service
	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	application, err := app.New(startCtx, cfg)
	cancel()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Create router
	r := mux.NewRouter()

	ingestService := drive.NewIngestService(driveService, application.Transfer)

	// Register routes
	driveHandler := drive.NewHandler(driveService, ingestService, cfg.Drive.FolderID)
	driveHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Info().Str("addr", addr).Msg("Drive ingest server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Fatal().Err(err).Msg("Drive ingest server stopped")
	}
}
