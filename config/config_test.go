package config

import (
	"os"
	"strings"
	"testing"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		envKey       string
		envValue     string
		defaultValue string
		expected     string
	}{
		{"Set value", "TEST_STR", "hello", "fallback", "hello"},
		{"Empty env", "TEST_STR_EMPTY", "", "fallback", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.envKey, tt.envValue)
				defer os.Unsetenv(tt.envKey)
			}

			result := getEnv(tt.envKey, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnv(%q, %q) = %q, expected %q", tt.envKey, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		envKey       string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "TEST_INT", "42", 10, 42},
		{"Empty env", "TEST_INT_EMPTY", "", 10, 10},
		{"Invalid int", "TEST_INT_INVALID", "abc", 10, 10},
		{"Negative int", "TEST_INT_NEG", "-5", 10, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.envKey, tt.envValue)
				defer os.Unsetenv(tt.envKey)
			}

			result := getEnvInt(tt.envKey, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnvInt(%q, %d) = %d, expected %d", tt.envKey, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

func TestGetEnvInt64(t *testing.T) {
	tests := []struct {
		name         string
		envKey       string
		envValue     string
		defaultValue int64
		expected     int64
	}{
		{"Valid int64", "TEST_INT64", "4096", 200, 4096},
		{"Empty env", "TEST_INT64_EMPTY", "", 200, 200},
		{"Invalid int64", "TEST_INT64_INVALID", "xyz", 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.envKey, tt.envValue)
				defer os.Unsetenv(tt.envKey)
			}

			result := getEnvInt64(tt.envKey, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnvInt64(%q, %d) = %d, expected %d", tt.envKey, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	os.Unsetenv("TELEGRAM_BOT_TOKEN")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() expected error when TELEGRAM_BOT_TOKEN is missing, got nil")
	}
	if !strings.Contains(err.Error(), "TELEGRAM_BOT_TOKEN") {
		t.Errorf("LoadConfig() error = %q, expected it to mention TELEGRAM_BOT_TOKEN", err.Error())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	defer os.Unsetenv("TELEGRAM_BOT_TOKEN")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.MaxFileMB != 200 {
		t.Errorf("MaxFileMB = %d, expected default 200", cfg.MaxFileMB)
	}
	if cfg.DownloadDir != os.TempDir() {
		t.Errorf("DownloadDir = %q, expected system temp %q", cfg.DownloadDir, os.TempDir())
	}
	if cfg.AdmissionCooldownSec != 30 {
		t.Errorf("AdmissionCooldownSec = %d, expected default 30", cfg.AdmissionCooldownSec)
	}
	if cfg.YtDlpPath != "yt-dlp" {
		t.Errorf("YtDlpPath = %q, expected default yt-dlp", cfg.YtDlpPath)
	}
	if cfg.MaxFileBytes() != 200*1024*1024 {
		t.Errorf("MaxFileBytes() = %d, expected %d", cfg.MaxFileBytes(), int64(200*1024*1024))
	}
}

func TestLoadConfigRejectsNonPositiveLimit(t *testing.T) {
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	os.Setenv("MAX_FILE_MB", "0")
	defer func() {
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
		os.Unsetenv("MAX_FILE_MB")
	}()

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() expected error for MAX_FILE_MB=0, got nil")
	}
}
