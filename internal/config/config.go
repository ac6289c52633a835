package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment    string
	HTTPPort       string
	DatabasePath   string
	JWTSecret      string
	TrustedProxies []string
	NotifyURLs     []string
	KeyRefs        []string
	AuditSchedule  string
}

// Load reads a .env file when present, then env vars, and falls back to
// defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	// missing .env is the normal case outside development
	_ = godotenv.Load()

	cfg := Config{
		Environment:    getEnv("THEMIS_ENV", "development"),
		HTTPPort:       getEnv("THEMIS_HTTP_PORT", "8080"),
		DatabasePath:   getEnv("THEMIS_DB_PATH", filepath.Join("data", "themis.db")),
		JWTSecret:      getEnv("THEMIS_JWT_SECRET", ""),
		TrustedProxies: splitList(os.Getenv("THEMIS_TRUSTED_PROXIES")),
		NotifyURLs:     splitList(os.Getenv("THEMIS_NOTIFY_URLS")),
		KeyRefs:        splitList(os.Getenv("THEMIS_KEY_REFS")),
		AuditSchedule:  getEnv("THEMIS_AUDIT_SCHEDULE", "@midnight"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
