package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakshit1504/insurance-final-bot/internal/archive"
	"github.com/rakshit1504/insurance-final-bot/internal/config"
	"github.com/rakshit1504/insurance-final-bot/internal/messenger"
	"github.com/rakshit1504/insurance-final-bot/internal/pdf"
	"github.com/rakshit1504/insurance-final-bot/internal/storage"
	"github.com/rakshit1504/insurance-final-bot/internal/webhook"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize components
	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to close database")
		}
	}()

	if err := store.SeedPlans(context.Background()); err != nil {
		logrus.WithError(err).Fatal("Failed to seed plan catalog")
	}

	msgr := messenger.New(cfg)
	generator := pdf.NewGenerator()

	var archiver webhook.Archiver
	archiveClient, err := archive.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize document archive")
	}
	if archiveClient != nil {
		archiver = archiveClient
	}

	// Initialize Gin router
	router := gin.Default()

	// Initialize webhook handlers
	handler := webhook.NewHandler(store, msgr, generator, archiver, cfg.VerifyToken)

	// Setup routes
	webhook.SetupRoutes(router, handler)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Port).Info("Starting insurance bot server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
