// Package bootstrap wires configuration into the service graph shared by the API server and the
// command line tool.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/handler"
	"github.com/noah-isme/siap-guru-api/internal/repository"
	"github.com/noah-isme/siap-guru-api/internal/service"
	"github.com/noah-isme/siap-guru-api/pkg/cache"
	"github.com/noah-isme/siap-guru-api/pkg/config"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
)

// TokenIssuer is the JWT issuer claim.
const TokenIssuer = "siap-guru-api"

// Container holds the constructed services.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Redis   *redis.Client
	Store   *recordstore.Client
	Metrics *service.MetricsService

	Sync       *service.SyncService
	Cache      *service.CacheService
	Attendance *service.AttendanceService
	Permits    *service.PermitService
	MasterData *service.MasterDataService
	Auth       *service.AuthService
	Dashboard  *service.DashboardService
	Export     *service.ExportService
}

// New builds every service. Redis is only dialled when the dashboard cache is enabled; an
// unreachable server disables the cache instead of failing startup.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := service.NewMetricsService()
	validate := validator.New()

	var (
		redisClient *redis.Client
		cacheRepo   service.CacheRepository
	)
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			redisClient = client
			cacheRepo = repository.NewCacheRepository(client, "siap-guru", logger)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logger, cfg.Dashboard.CacheEnabled)

	store := recordstore.New(cfg.RecordStore.URL, cfg.RecordStore.Timeout,
		recordstore.WithLogger(logger),
		recordstore.WithObserver(metrics),
	)
	repo := repository.NewRecordStoreRepository(store)
	if !repo.Configured() {
		logger.Warn("record store endpoint not configured; running offline on seed data")
	}

	syncSvc := service.NewSyncService(repo, service.NewStateStore(service.SeedState()), cacheSvc, metrics, logger)
	attendanceSvc := service.NewAttendanceService(syncSvc, repo, metrics, validate, logger)
	permitSvc := service.NewPermitService(syncSvc, repo, metrics, validate, logger)
	masterDataSvc := service.NewMasterDataService(syncSvc, repo, metrics, validate, logger)

	authSvc, err := service.NewAuthService(syncSvc, validate, logger, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            TokenIssuer,
		EmailDomain:       cfg.Auth.EmailDomain,
		AdminPassword:     cfg.Auth.AdminPassword,
		TeacherPassword:   cfg.Auth.TeacherPassword,
		ClassRepPassword:  cfg.Auth.ClassRepPassword,
	})
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	dashboardSvc := service.NewDashboardService(syncSvc, attendanceSvc, cacheSvc, logger, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
		Location: cfg.Location(),
	})
	exportSvc := service.NewExportService(syncSvc, dashboardSvc, service.ExportConfig{
		SchoolName: cfg.School.Name,
		Location:   cfg.Location(),
	}, logger)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Redis:      redisClient,
		Store:      store,
		Metrics:    metrics,
		Sync:       syncSvc,
		Cache:      cacheSvc,
		Attendance: attendanceSvc,
		Permits:    permitSvc,
		MasterData: masterDataSvc,
		Auth:       authSvc,
		Dashboard:  dashboardSvc,
		Export:     exportSvc,
	}, nil
}

// Handlers builds the HTTP handler set for RegisterRoutes.
func (c *Container) Handlers() handler.Handlers {
	return handler.Handlers{
		Auth:       handler.NewAuthHandler(c.Auth),
		Sync:       handler.NewSyncHandler(c.Sync),
		Attendance: handler.NewAttendanceHandler(c.Attendance, c.Dashboard.Today),
		Dashboard:  handler.NewDashboardHandler(c.Dashboard),
		Permit:     handler.NewPermitHandler(c.Permits),
		MasterData: handler.NewMasterDataHandler(c.MasterData),
		Export:     handler.NewExportHandler(c.Export),
		Metrics:    handler.NewMetricsHandler(c.Metrics, c.ReadinessChecks()),
	}
}

// ReadinessChecks lists the dependency probes served by /ready.
func (c *Container) ReadinessChecks() map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"record_store": func(context.Context) error {
			if !c.Store.Configured() {
				return recordstore.ErrNotConfigured
			}
			return nil
		},
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cache.Ping(ctx, c.Redis)
		}
	}
	return checks
}

// Close releases external connections.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
}
