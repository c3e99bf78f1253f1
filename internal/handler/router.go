package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/middleware"
	"github.com/noah-isme/siap-guru-api/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth       *AuthHandler
	Sync       *SyncHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
	Permit     *PermitHandler
	MasterData *MasterDataHandler
	Export     *ExportHandler
	Metrics    *MetricsHandler
}

// RouterConfig carries the cross-cutting dependencies of the route tree.
type RouterConfig struct {
	Prefix string
	Tokens middleware.TokenValidator
	Store  middleware.StoreChecker
	Logger *zap.Logger
}

// RegisterRoutes mounts probes at the root and the API under cfg.Prefix. Routes that read or
// write school data answer 503 until the record store endpoint is configured.
func RegisterRoutes(r *gin.Engine, h Handlers, cfg RouterConfig) {
	if cfg.Prefix == "" {
		cfg.Prefix = "/api/v1"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	admin := middleware.RequireRoles(models.RoleAdmin)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(logger, action, resource)
	}

	api := r.Group(cfg.Prefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/reference", h.MasterData.Reference)
	api.GET("/exports/agenda.ics", middleware.RequireStore(cfg.Store), h.Export.Agenda)

	secured := api.Group("")
	secured.Use(middleware.JWT(cfg.Tokens))
	secured.GET("/auth/me", h.Auth.Me)
	secured.GET("/sync/status", h.Sync.Status)
	secured.POST("/sync/refresh", admin, audit("refresh", "sync"), h.Sync.Refresh)

	data := secured.Group("")
	data.Use(middleware.RequireStore(cfg.Store))

	attendance := data.Group("/attendance")
	attendance.GET("/form", middleware.RequireRoles(models.RoleAdmin, models.RoleClassRep), h.Attendance.Form)
	attendance.POST("/submit", middleware.RequireRoles(models.RoleClassRep), h.Attendance.Submit)
	attendance.GET("/monitoring", middleware.RequireRoles(models.RoleAdmin, models.RoleClassRep), h.Attendance.Monitoring)
	attendance.DELETE("", admin, audit("delete", "attendance"), h.Attendance.Delete)

	dashboard := data.Group("/dashboard")
	dashboard.GET("/overview", admin, h.Dashboard.Overview)
	dashboard.GET("/classes/:classId", admin, h.Dashboard.Class)
	dashboard.GET("/teachers/:teacherId", middleware.RBAC(string(models.RoleAdmin), middleware.SelfAccess), h.Dashboard.Teacher)
	dashboard.GET("/me", middleware.RequireRoles(models.RoleTeacher, models.RoleClassRep), h.Dashboard.Me)

	permits := data.Group("/permits", admin)
	permits.GET("", h.Permit.History)
	permits.POST("", audit("create", "permit"), h.Permit.Issue)
	permits.DELETE("/:id", audit("delete", "permit"), h.Permit.Delete)

	data.GET("/teachers", h.MasterData.ListTeachers)
	data.POST("/teachers", admin, audit("create", "teacher"), h.MasterData.CreateTeacher)
	data.PUT("/teachers/:id", admin, audit("update", "teacher"), h.MasterData.UpdateTeacher)
	data.DELETE("/teachers/:id", admin, audit("delete", "teacher"), h.MasterData.DeleteTeacher)

	data.GET("/schedule", h.MasterData.ListSchedule)
	data.PUT("/schedule", admin, audit("upsert", "schedule"), h.MasterData.UpsertSlot)

	data.GET("/settings", h.MasterData.GetSettings)
	data.PUT("/settings", admin, audit("update", "settings"), h.MasterData.UpdateSettings)

	data.GET("/events", h.MasterData.ListEvents)
	data.POST("/events", admin, audit("create", "event"), h.MasterData.CreateEvent)
	data.PUT("/events/:id", admin, audit("update", "event"), h.MasterData.UpdateEvent)
	data.DELETE("/events/:id", admin, audit("delete", "event"), h.MasterData.DeleteEvent)

	data.POST("/master-data/restore", admin, audit("restore", "master-data"), h.MasterData.RestoreDefaults)

	data.GET("/exports/attendance", admin, h.Export.Attendance)
}
