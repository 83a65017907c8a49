package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                string
	Port                  string
	DatabaseURL           string
	StoreBaseURL          string
	VisionBaseURL         string
	VisionAPIKey          string
	VisionModel           string
	MusicBaseURL          string
	MusicAPIKey           string
	MusicModel            string
	MusicCallbackURL      string
	WikiBaseURL           string
	PollInterval          time.Duration
	PollMaxAttempts       int
	HTTPReadTimeout       time.Duration
	HTTPReadHeaderTimeout time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		StoreBaseURL:          getEnv("STORE_BASE_URL", "http://localhost:8000"),
		VisionBaseURL:         getEnv("VISION_BASE_URL", "https://api.ai.it.ufl.edu/v1"),
		VisionAPIKey:          os.Getenv("VISION_API_KEY"),
		VisionModel:           getEnv("VISION_MODEL", "mistral-small-3.1"),
		MusicBaseURL:          getEnv("MUSIC_BASE_URL", "https://api.sunoapi.org"),
		MusicAPIKey:           os.Getenv("MUSIC_API_KEY"),
		MusicModel:            getEnv("MUSIC_MODEL", "V4_5"),
		MusicCallbackURL:      getEnv("MUSIC_CALLBACK_URL", "https://webhook.site/unique-id"),
		WikiBaseURL:           getEnv("WIKI_BASE_URL", "https://en.wikipedia.org"),
		PollInterval:          time.Second * time.Duration(getEnvInt("MUSIC_POLL_INTERVAL_SECONDS", 5)),
		PollMaxAttempts:       getEnvInt("MUSIC_POLL_MAX_ATTEMPTS", 60),
		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPReadHeaderTimeout: time.Second * time.Duration(getEnvInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.PollMaxAttempts <= 0 {
		return nil, fmt.Errorf("MUSIC_POLL_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
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
