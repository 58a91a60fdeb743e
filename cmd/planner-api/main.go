package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/horario-planner/api/swagger"
	"github.com/noah-isme/horario-planner/internal/handler"
	"github.com/noah-isme/horario-planner/internal/planner"
	"github.com/noah-isme/horario-planner/internal/repository"
	"github.com/noah-isme/horario-planner/internal/service"
	"github.com/noah-isme/horario-planner/pkg/cache"
	"github.com/noah-isme/horario-planner/pkg/config"
	"github.com/noah-isme/horario-planner/pkg/database"
	"github.com/noah-isme/horario-planner/pkg/logger"
	"github.com/noah-isme/horario-planner/pkg/storage"
)

// @title Horario Planner API
// @version 1.0.0
// @description Course catalog, conflict detection and schedule combination search
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient redis.UniversalClient
	if cfg.Catalog.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			redisClient = client
			defer client.Close() //nolint:errcheck
		}
	}

	classifier, err := planner.NewClassifier(cfg.Planner.UnknownCategory)
	if err != nil {
		logr.Warn("invalid PLANNER_UNKNOWN_CATEGORY, treating unknown courses as mandatory", zap.Error(err))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	facultyRepo := repository.NewFacultyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	importRepo := repository.NewCatalogImportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, redisClient != nil)
	catalogSvc := service.NewCatalogService(facultyRepo, courseRepo, cacheSvc, classifier, logr)
	plannerSvc := service.NewPlannerService(catalogSvc, metricsSvc, validate, logr, service.PlannerConfig{
		DefaultMaxCombinations: cfg.Planner.DefaultMaxCombinations,
		DefaultMaxCourses:      cfg.Planner.DefaultMaxCourses,
		MaxCombinationsLimit:   cfg.Planner.MaxCombinationsLimit,
		TimetableStartHour:     cfg.Planner.TimetableStartHour,
		TimetableEndHour:       cfg.Planner.TimetableEndHour,
		Classifier:             classifier,
	})
	exportSvc := service.NewExportService(plannerSvc, nil, nil, nil, service.ExportConfig{
		Title:    cfg.Export.Title,
		FromHour: cfg.Planner.TimetableStartHour,
		ToHour:   cfg.Planner.TimetableEndHour,
	}, logr)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	sources, err := storage.NewLocalStorage(cfg.Import.DataDir)
	if err != nil {
		logr.Fatal("failed to prepare import directory", zap.Error(err))
	}
	importSvc := service.NewImportService(sources, importRepo, catalogSvc, metricsSvc, logr, service.ImportConfig{
		Semester:   cfg.Import.Semester,
		Workers:    cfg.Import.Workers,
		Retries:    cfg.Import.Retries,
		RetryDelay: 2 * time.Second,
		Classifier: classifier,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	importSvc.Start(ctx)
	defer importSvc.Stop()

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	router := newRouter(routerDeps{
		cfg:     cfg,
		logger:  logr,
		metrics: metricsSvc,
		auth:    authSvc,
		catalog: handler.NewCatalogHandler(catalogSvc),
		planner: handler.NewPlannerHandler(plannerSvc, exportSvc),
		admin:   handler.NewAdminHandler(importSvc, catalogSvc),
		system:  handler.NewMetricsHandler(metricsSvc, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
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
