package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	RecordStore RecordStoreConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Dashboard   DashboardConfig
	Sync        SyncConfig
	Auth        AuthConfig
	School      SchoolConfig
}

// RecordStoreConfig points at the spreadsheet-backed web app.
type RecordStoreConfig struct {
	URL     string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// SyncConfig toggles the periodic record store refresh.
type SyncConfig struct {
	CronEnabled  bool
	CronSchedule string
}

// AuthConfig carries the shared role passwords used at the login screen.
type AuthConfig struct {
	AdminPassword    string
	TeacherPassword  string
	ClassRepPassword string
	EmailDomain      string
}

// SchoolConfig holds school-wide presentation settings.
type SchoolConfig struct {
	Name     string
	Timezone string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.RecordStore = RecordStoreConfig{
		URL:     strings.TrimSpace(v.GetString("RECORD_STORE_URL")),
		Timeout: parseDuration(v.GetString("RECORD_STORE_TIMEOUT"), 30*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Sync = SyncConfig{
		CronEnabled:  v.GetBool("SYNC_CRON_ENABLED"),
		CronSchedule: v.GetString("SYNC_CRON_SCHEDULE"),
	}

	cfg.Auth = AuthConfig{
		AdminPassword:    v.GetString("AUTH_ADMIN_PASSWORD"),
		TeacherPassword:  v.GetString("AUTH_TEACHER_PASSWORD"),
		ClassRepPassword: v.GetString("AUTH_CLASS_REP_PASSWORD"),
		EmailDomain:      v.GetString("AUTH_EMAIL_DOMAIN"),
	}

	cfg.School = SchoolConfig{
		Name:     v.GetString("SCHOOL_NAME"),
		Timezone: v.GetString("SCHOOL_TIMEZONE"),
	}

	return cfg, nil
}

// Location resolves the school timezone, falling back to UTC when unknown.
func (c *Config) Location() *time.Location {
	if c == nil || c.School.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.School.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("RECORD_STORE_URL", "")
	v.SetDefault("RECORD_STORE_TIMEOUT", "30s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("SYNC_CRON_ENABLED", false)
	v.SetDefault("SYNC_CRON_SCHEDULE", "@every 5m")

	v.SetDefault("AUTH_ADMIN_PASSWORD", "admin123")
	v.SetDefault("AUTH_TEACHER_PASSWORD", "guru123")
	v.SetDefault("AUTH_CLASS_REP_PASSWORD", "ketua123")
	v.SetDefault("AUTH_EMAIL_DOMAIN", "smpn3pacet.sch.id")

	v.SetDefault("SCHOOL_NAME", "SMP Negeri 3 Pacet")
	v.SetDefault("SCHOOL_TIMEZONE", "Asia/Jakarta")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
