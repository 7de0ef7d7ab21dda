package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram
	TelegramBotToken string
	OwnerID          int64

	// Downloads
	DownloadDir       string
	MaxFileMB         int64
	YtDlpPath         string
	ExtractTimeoutSec int

	// Admission (optional external store)
	AdmissionDBDSN       string
	AdmissionCooldownSec int

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Monitoring
	MetricsPort     int
	HealthCheckPort int
}

func LoadConfig() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}

	// Parse Telegram config
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	cfg.OwnerID = getEnvInt64("OWNER_ID", 0)

	// Parse Download config
	cfg.DownloadDir = getEnv("DOWNLOAD_DIR", os.TempDir())
	cfg.MaxFileMB = getEnvInt64("MAX_FILE_MB", 200)
	if cfg.MaxFileMB <= 0 {
		return nil, fmt.Errorf("MAX_FILE_MB must be positive")
	}
	cfg.YtDlpPath = getEnv("YTDLP_PATH", "yt-dlp")
	cfg.ExtractTimeoutSec = getEnvInt("EXTRACT_TIMEOUT_SEC", 900)

	// Parse Admission config
	cfg.AdmissionDBDSN = getEnv("ADMISSION_DB_DSN", "")
	cfg.AdmissionCooldownSec = getEnvInt("ADMISSION_COOLDOWN_SEC", 30)

	// Parse Logging config
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	cfg.LogFile = getEnv("LOG_FILE", "")

	// Parse Monitoring config
	cfg.MetricsPort = getEnvInt("METRICS_PORT", 9090)
	cfg.HealthCheckPort = getEnvInt("HEALTH_CHECK_PORT", 8080)

	return cfg, nil
}

// MaxFileBytes returns the deliverable size ceiling in bytes.
func (c *Config) MaxFileBytes() int64 {
	return c.MaxFileMB * 1024 * 1024
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
