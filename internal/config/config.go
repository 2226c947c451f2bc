package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Addr                 string
	DataPath             string
	BackupDir            string
	MockPassword         string
	LogLevel             string
	CorsOrigins          []string
	LoginRatePerMinute   int
	MetricsSampleSeconds int
	MetricsDiskPath      string
}

func Load() Config {
	addr := ":3000"
	if value := strings.TrimSpace(os.Getenv("PORT")); value != "" {
		addr = ":" + value
	}
	return Config{
		Addr:                 addr,
		DataPath:             envOr("DB_PATH", "data/db.json"),
		BackupDir:            envOr("BACKUP_DIR", "data/backups"),
		MockPassword:         envOr("MOCK_PASSWORD", "password"),
		LogLevel:             envOr("LOG_LEVEL", "info"),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
		LoginRatePerMinute:   envOrInt("LOGIN_RATE_PER_MINUTE", 30),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 5),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "data"),
	}
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
