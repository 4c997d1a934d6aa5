// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/July173/autogestionFrontWeb-sub002/internal/backend"
	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/database"
	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/logging"
	"github.com/July173/autogestionFrontWeb-sub002/internal/middleware"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
	"github.com/July173/autogestionFrontWeb-sub002/internal/router"
	"github.com/July173/autogestionFrontWeb-sub002/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	logging.Setup(cfg.Log)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional snapshot database
	var (
		store services.SnapshotStore
		audit middleware.AuditRecorder
	)
	if cfg.Database.Enabled {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}
		repo := database.NewDraftRepository(db)
		store, audit = repo, repo
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.TimeoutDuration())
	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize storage: ", err)
	}

	reference := request.NewReferenceData(client)
	go func() {
		// Failed catalogs are retried through POST /v1/catalogs/reload.
		loadCtx := ctx
		if cfg.Backend.ServiceToken != "" {
			loadCtx = backend.WithToken(ctx, cfg.Backend.ServiceToken)
		}
		if err := reference.Load(loadCtx); err != nil {
			logrus.WithError(err).Warn("Reference data loaded with errors")
			return
		}
		logrus.Info("Reference data loaded")
	}()

	ttl := time.Duration(cfg.Storage.DraftTTL) * time.Minute
	drafts := services.NewDraftService(reference, client, client, storage, store, ttl)
	go drafts.RunJanitor(ctx, time.Minute)

	limiters := middleware.NewLimiters(cfg.RateLimit)
	limiters.RunCleanup(ctx)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Initialize(router.Dependencies{
		Config:        cfg,
		Reference:     reference,
		Drafts:        drafts,
		Notifications: services.NewNotificationService(cfg),
		Limiters:      limiters,
		Audit:         audit,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
		os.Exit(1)
	}

	logrus.Info("Server exited")
}
