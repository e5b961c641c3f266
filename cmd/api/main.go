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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ispkai/docrepo-api/api/swagger"
	"github.com/ispkai/docrepo-api/internal/handler"
	"github.com/ispkai/docrepo-api/internal/middleware"
	"github.com/ispkai/docrepo-api/internal/repository"
	"github.com/ispkai/docrepo-api/internal/service"
	"github.com/ispkai/docrepo-api/pkg/cache"
	"github.com/ispkai/docrepo-api/pkg/config"
	"github.com/ispkai/docrepo-api/pkg/database"
	"github.com/ispkai/docrepo-api/pkg/export"
	"github.com/ispkai/docrepo-api/pkg/logger"
	corsmiddleware "github.com/ispkai/docrepo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ispkai/docrepo-api/pkg/middleware/requestid"
	"github.com/ispkai/docrepo-api/pkg/storage"
)

// @title Document Repository API
// @version 1.0.0
// @description REST API for browsing, managing and viewing categorized documents
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object store", "error", err)
	}
	if err := store.EnsureBuckets(ctx); err != nil {
		logr.Sugar().Fatalw("failed to ensure buckets", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	eventRepo := repository.NewEventRepository(db)

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	eventSvc := service.NewEventService(eventRepo, cfg.Events, logr, metricsSvc)
	eventSvc.Start(ctx)
	defer eventSvc.Stop()

	categorySvc := service.NewCategoryService(categoryRepo, cacheSvc, validate, logr)
	documentSvc := service.NewDocumentService(documentRepo, categoryRepo, store, cacheSvc, validate, logr, cfg.Storage.SignedURLTTL)
	uploadSvc := service.NewUploadService(store, cfg.Storage, logr, metricsSvc)
	viewerSvc := service.NewViewerService(documentRepo, store, eventSvc, logr, cfg.Storage.SignedURLTTL)
	userSvc := service.NewUserService(userRepo, validate, logr)
	exportSvc := service.NewExportService(documentRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Documents:  documentRepo,
		Categories: categoryRepo,
		Users:      userRepo,
		Downloads:  eventRepo,
		Cache:      cacheSvc,
		Logger:     logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:    cfg.Dashboard.CacheTTL,
			RecentLimit: cfg.Dashboard.RecentLimit,
		},
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(reqidmiddleware.Middleware())
	engine.Use(logger.GinMiddleware(logr))
	engine.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics(metricsSvc))

	router := &handler.Router{
		Config:     cfg,
		Validator:  authSvc,
		Metrics:    metricsSvc,
		AuditRepo:  userRepo,
		Auth:       handler.NewAuthHandler(authSvc),
		Categories: handler.NewCategoryHandler(categorySvc),
		Documents:  handler.NewDocumentHandler(documentSvc),
		Uploads:    handler.NewUploadHandler(uploadSvc),
		Viewer:     handler.NewViewerHandler(viewerSvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Users:      handler.NewUserHandler(userSvc),
		Reports:    handler.NewReportHandler(exportSvc),
	}
	router.Register(engine)

	if cfg.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
