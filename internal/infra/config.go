package infra

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	NebiusAPIKey         string
	NebiusBaseURL        string
	NebiusModel          string
	NebiusTimeout        time.Duration
	DatabaseURL          string
	GeoIPDBPath          string
	CORSAllowedOrigins   []string
	ImageSourceAllowlist []string
	ExportFetchTimeout   time.Duration
	ExportMaxBytes       int64
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	RateLimitPerMin      int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		NebiusAPIKey:         strings.TrimSpace(os.Getenv("NEBIUS_API_KEY")),
		NebiusBaseURL:        getEnv("NEBIUS_BASE_URL", "https://api.studio.nebius.ai/v1"),
		NebiusModel:          getEnv("NEBIUS_MODEL", "black-forest-labs/flux-schnell"),
		NebiusTimeout:        time.Second * time.Duration(getEnvInt("NEBIUS_TIMEOUT_SECONDS", 60)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ImageSourceAllowlist: hostList(os.Getenv("IMAGE_SOURCE_HOST_ALLOWLIST")),
		ExportFetchTimeout:   time.Second * time.Duration(getEnvInt("EXPORT_FETCH_TIMEOUT_SECONDS", 15)),
		ExportMaxBytes:       int64(getEnvInt("EXPORT_MAX_BYTES", 20<<20)),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.NebiusAPIKey == "" {
		return nil, fmt.Errorf("NEBIUS_API_KEY is required")
	}
	if cfg.NebiusTimeout <= 0 {
		return nil, fmt.Errorf("NEBIUS_TIMEOUT_SECONDS must be positive")
	}
	if cfg.ExportMaxBytes <= 0 {
		return nil, fmt.Errorf("EXPORT_MAX_BYTES must be positive")
	}

	return cfg, nil
}

// HasDatabase reports whether usage events should be persisted.
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// hostList lowercases, dedupes and sorts a comma separated host list.
func hostList(raw string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, host := range splitList(raw) {
		host = strings.ToLower(host)
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		out = append(out, host)
	}
	sort.Strings(out)
	return out
}
