package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey      string
	GeminiModel       string
	DatabaseURL       string
	HTTPPort          string
	LogLevel          string
	HistoryWindow     int // prompt turns kept per session; 0 means unbounded
	CompletionTimeout time.Duration
}

// Load reads configuration from the environment, with a best-effort .env
// file, and returns it as a struct for injection. The Gemini API key is the
// only required value.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		DatabaseURL:       getEnv("DATABASE_URL", "tutor_chat.db"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		HistoryWindow:     getEnvAsInt("HISTORY_WINDOW", 0),
		CompletionTimeout: time.Duration(getEnvAsInt("COMPLETION_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
