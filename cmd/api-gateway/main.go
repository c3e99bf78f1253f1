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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/siap-guru-api/api/swagger"
	"github.com/noah-isme/siap-guru-api/internal/bootstrap"
	"github.com/noah-isme/siap-guru-api/internal/handler"
	internalmiddleware "github.com/noah-isme/siap-guru-api/internal/middleware"
	"github.com/noah-isme/siap-guru-api/pkg/config"
	"github.com/noah-isme/siap-guru-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/siap-guru-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/siap-guru-api/pkg/middleware/requestid"
)

// @title SIAP GURU API
// @version 1.0.0
// @description Teacher attendance recording, permits and dashboards for SMP class schedules
// @BasePath /api/v1
// @schemes http https
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

	app, err := bootstrap.New(cfg, logr)
	if err != nil {
		logr.Fatal("failed to wire services", zap.Error(err))
	}
	defer app.Close()

	if app.Sync.Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RecordStore.Timeout)
		if _, err := app.Sync.Refresh(ctx); err != nil {
			logr.Warn("initial record store refresh failed; serving seed data", zap.Error(err))
		}
		cancel()
	}

	if cfg.Sync.CronEnabled {
		scheduler, err := app.Sync.StartCron(cfg.Sync.CronSchedule)
		if err != nil {
			logr.Fatal("invalid sync schedule", zap.String("schedule", cfg.Sync.CronSchedule), zap.Error(err))
		}
		defer scheduler.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(app.Metrics))

	handler.RegisterRoutes(r, app.Handlers(), handler.RouterConfig{
		Prefix: cfg.APIPrefix,
		Tokens: app.Auth,
		Store:  app.Sync,
		Logger: logr,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
