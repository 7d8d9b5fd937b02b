package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	RoleProfessor = "professor"
	RoleStudent   = "student"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Session     SessionConfig
	Upstream    UpstreamConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Stats       StatsConfig
	Exports     ExportsConfig
	Attachments AttachmentsConfig
	Refresh     RefreshConfig
}

// SessionConfig describes the single user session this process serves.
type SessionConfig struct {
	Role      string
	StudentID string
}

// UpstreamConfig points at the classroom REST API.
type UpstreamConfig struct {
	BaseURL    string
	CookieName string
	Cookie     string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StatsConfig governs dashboard stats caching.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ExportsConfig controls stored export artifacts and their download links.
type ExportsConfig struct {
	Enabled         bool
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// AttachmentsConfig bounds file uploads.
type AttachmentsConfig struct {
	MaxFileSizeBytes int64
}

// RefreshConfig tunes the background stats refresh queue.
type RefreshConfig struct {
	Workers int
	Retries int
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Session = SessionConfig{
		Role:      strings.ToLower(strings.TrimSpace(v.GetString("SESSION_ROLE"))),
		StudentID: strings.TrimSpace(v.GetString("STUDENT_ID")),
	}
	if cfg.Session.Role != RoleProfessor && cfg.Session.Role != RoleStudent {
		return nil, fmt.Errorf("SESSION_ROLE must be %q or %q, got %q", RoleProfessor, RoleStudent, cfg.Session.Role)
	}

	cfg.Upstream = UpstreamConfig{
		BaseURL:    strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		CookieName: v.GetString("UPSTREAM_SESSION_COOKIE_NAME"),
		Cookie:     v.GetString("UPSTREAM_SESSION_COOKIE"),
		Timeout:    parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 0),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled:         v.GetBool("ENABLE_EXPORTS"),
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 30*time.Minute),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	maxAttachment := v.GetInt64("ATTACHMENTS_MAX_FILE_SIZE")
	if maxAttachment <= 0 {
		maxAttachment = 10 * 1024 * 1024
	}
	cfg.Attachments = AttachmentsConfig{MaxFileSizeBytes: maxAttachment}

	cfg.Refresh = RefreshConfig{
		Workers: v.GetInt("REFRESH_WORKERS"),
		Retries: v.GetInt("REFRESH_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SESSION_ROLE", RoleProfessor)
	v.SetDefault("STUDENT_ID", "")

	v.SetDefault("UPSTREAM_BASE_URL", "http://127.0.0.1:5000")
	v.SetDefault("UPSTREAM_SESSION_COOKIE_NAME", "session")
	v.SetDefault("UPSTREAM_SESSION_COOKIE", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "0s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_STATS_CACHE", false)
	v.SetDefault("STATS_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "30m")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("ATTACHMENTS_MAX_FILE_SIZE", 10*1024*1024)

	v.SetDefault("REFRESH_WORKERS", 1)
	v.SetDefault("REFRESH_RETRIES", 0)
}

// parseDuration treats an explicit zero as a valid value (no timeout).
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

// viper reports a missing explicit config file as a plain fs error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}
