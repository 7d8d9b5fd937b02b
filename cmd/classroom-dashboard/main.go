package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classroom-dashboard/api/swagger"
	"github.com/noah-isme/classroom-dashboard/internal/handler"
	internalmiddleware "github.com/noah-isme/classroom-dashboard/internal/middleware"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/repository"
	"github.com/noah-isme/classroom-dashboard/internal/service"
	"github.com/noah-isme/classroom-dashboard/pkg/cache"
	"github.com/noah-isme/classroom-dashboard/pkg/config"
	"github.com/noah-isme/classroom-dashboard/pkg/jobs"
	"github.com/noah-isme/classroom-dashboard/pkg/logger"
	corsmiddleware "github.com/noah-isme/classroom-dashboard/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classroom-dashboard/pkg/middleware/requestid"
	"github.com/noah-isme/classroom-dashboard/pkg/storage"
)

// @title Classroom Dashboard API
// @version 1.0.0
// @description Backend-for-frontend serving one professor or student session against the classroom REST API.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	role := models.Role(cfg.Session.Role)
	metrics := service.NewMetricsService()
	api := repository.NewClassroomAPI(repository.ClassroomAPIConfig{
		BaseURL:    cfg.Upstream.BaseURL,
		CookieName: cfg.Upstream.CookieName,
		Cookie:     cfg.Upstream.Cookie,
		Timeout:    cfg.Upstream.Timeout,
	}, nil, metrics, logr)

	readiness := map[string]handler.Pinger{"upstream": api}
	var cacheRepo *repository.CacheRepository
	if cfg.Stats.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("stats cache disabled, redis unavailable", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			readiness["redis"] = cacheRepo
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(service.CacheServiceParams{
		Repo:       cacheRepoOrNil(cacheRepo),
		Metrics:    metrics,
		DefaultTTL: cfg.Stats.CacheTTL,
		Namespace:  "classroom:" + string(role),
		Logger:     logr,
		Enabled:    cacheRepo != nil,
	})

	snapshot := service.NewSnapshot()
	view := service.NewViewService(role, nil)
	session := service.NewSessionService(service.SessionServiceParams{
		Role:      role,
		StudentID: cfg.Session.StudentID,
		API:       api,
		Logger:    logr,
	})
	attachments := service.NewAttachmentService(cfg.Attachments.MaxFileSizeBytes, logr)

	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Stats:   api,
		Classes: snapshot,
		Session: session,
		Cache:   cacheSvc,
		Logger:  logr,
		Config:  service.DashboardServiceConfig{CacheTTL: cfg.Stats.CacheTTL},
	})
	refreshQueue := jobs.NewQueue("stats-refresh", dashboard.HandleRefreshJob, jobs.QueueConfig{
		Workers:    cfg.Refresh.Workers,
		MaxRetries: cfg.Refresh.Retries,
		Logger:     logr,
	})
	refreshQueue.Start(ctx)
	defer refreshQueue.Stop()

	syncSvc := service.NewSyncService(service.SyncServiceParams{
		API:         api,
		Snapshot:    snapshot,
		Attachments: attachments,
		Session:     session,
		View:        view,
		Refresher:   service.NewStatsRefresher(refreshQueue, logr, uuid.NewString),
		Metrics:     metrics,
		Logger:      logr,
	})
	calendar := service.NewCalendarService(service.CalendarServiceParams{Role: role, Classes: snapshot, Logger: logr})

	exportParams := service.ExportServiceParams{
		Classes: snapshot,
		Logger:  logr,
		Config: service.ExportConfig{
			Enabled:   cfg.Exports.Enabled,
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		},
	}
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to init export storage", zap.Error(err))
		}
		exportParams.Storage = store
		exportParams.Signer = storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	}
	exports := service.NewExportService(exportParams)
	if cfg.Exports.Enabled {
		go runExportCleanup(ctx, exports, cfg.Exports.CleanupInterval, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, role, handler.Handlers{
		Session:    handler.NewSessionHandler(view),
		Class:      handler.NewClassHandler(syncSvc, snapshot, view, session),
		Coursework: handler.NewCourseworkHandler(syncSvc, snapshot, attachments, session),
		Enrollment: handler.NewEnrollmentHandler(syncSvc, snapshot, session),
		Calendar:   handler.NewCalendarHandler(calendar, syncSvc),
		Dashboard:  handler.NewDashboardHandler(dashboard, syncSvc),
		Export:     handler.NewExportHandler(exports),
		Profile:    handler.NewProfileHandler(session, syncSvc),
		Metrics:    handler.NewMetricsHandler(metrics, readiness),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("role", string(role)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// cacheRepoOrNil keeps a nil *CacheRepository from becoming a non-nil interface.
func cacheRepoOrNil(repo *repository.CacheRepository) service.CacheRepository {
	if repo == nil {
		return nil
	}
	return repo
}

func runExportCleanup(ctx context.Context, exports *service.ExportService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := exports.Cleanup(0); err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}
