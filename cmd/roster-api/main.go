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
	"github.com/pressly/goose/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/roster-api/api/swagger"
	"github.com/noah-isme/roster-api/internal/handler"
	"github.com/noah-isme/roster-api/internal/middleware"
	"github.com/noah-isme/roster-api/internal/repository"
	"github.com/noah-isme/roster-api/internal/service"
	"github.com/noah-isme/roster-api/migrations"
	"github.com/noah-isme/roster-api/pkg/cache"
	"github.com/noah-isme/roster-api/pkg/config"
	"github.com/noah-isme/roster-api/pkg/database"
	"github.com/noah-isme/roster-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/roster-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/roster-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title Roster API
// @version 1.0.0
// @description Teacher and student roster administration
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		goose.SetLogger(zap.NewStdLog(logr.Named("migrate")))
		if err := migrations.Up(db.DB, cfg.Database.Driver); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	metrics := service.NewMetricsService()
	dependencies := map[string]handler.Pinger{"database": db}

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo := repository.NewCacheRepository(client)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
			dependencies["cache"] = handler.PingFunc(cacheRepo.Ping)
		}
	}

	rosterSvc := service.NewRosterService(repository.NewRosterRepository(db, metrics), cacheSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS))

	metricsHandler := handler.NewMetricsHandler(metrics.Handler(), dependencies)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	handler.NewRosterHandler(rosterSvc, validator.New()).RegisterRoutes(r.Group(cfg.APIPrefix))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logr.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
