package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL          string
	RedisURL             string
	SessionSecret        string
	SessionTTLSeconds    int64
	SessionCookieName    string
	OverdueDays          int
	ResetTokenTTLSeconds int64
	ResetLinkBaseURL     string
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	SMTPFrom             string
	BootstrapAdminEmail  string
	BootstrapAdminPass   string
	MetricsDiskPath      string
	MetricsSampleSeconds int
	CorsOrigins          []string
}

func Load() Config {
	return Config{
		DatabaseURL:          mustEnv("DATABASE_URL"),
		RedisURL:             envOr("REDIS_URL", ""),
		SessionSecret:        mustEnv("SESSION_SECRET"),
		SessionTTLSeconds:    int64(envOrInt("SESSION_TTL_SECONDS", 86400)),
		SessionCookieName:    envOr("SESSION_COOKIE_NAME", "hosteldesk_session"),
		OverdueDays:          envOrInt("OVERDUE_DAYS", 3),
		ResetTokenTTLSeconds: int64(envOrInt("RESET_TOKEN_TTL_SECONDS", 1800)),
		ResetLinkBaseURL:     envOr("RESET_LINK_BASE_URL", "http://localhost:5173"),
		SMTPHost:             envOr("SMTP_HOST", ""),
		SMTPPort:             envOrInt("SMTP_PORT", 465),
		SMTPUsername:         envOr("SMTP_USERNAME", ""),
		SMTPPassword:         envOr("SMTP_PASSWORD", ""),
		SMTPFrom:             envOr("SMTP_FROM", ""),
		BootstrapAdminEmail:  envOr("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPass:   envOr("BOOTSTRAP_ADMIN_PASSWORD", ""),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "storage"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 5),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
