// Package config provides configuration for the chat gateway.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	HTTPPort   int
	CORSOrigin string

	// Text generator (OpenAI-compatible API, e.g. Groq)
	LLMAPIURL  string
	LLMAPIKey  string
	ModelName  string
	LLMTimeout time.Duration

	// Query database
	DBDriver     string
	DBDSN        string
	QueryTimeout time.Duration

	// Session tuning
	SessionMaxAge   time.Duration
	CleanupInterval time.Duration
	MaxHistory      int
	ContextWindow   int
	TruncateLength  int
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:3000"),
		LLMAPIURL:       getEnv("LLM_API_URL", "https://api.groq.com/openai"),
		LLMAPIKey:       getEnv("LLM_API_KEY", ""),
		ModelName:       getEnv("MODEL_NAME", "llama3-8b-8192"),
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		DBDriver:        getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:           getEnv("DB_DSN", "file:dbchat.db?cache=shared&mode=rwc"),
		QueryTimeout:    time.Duration(getEnvInt("QUERY_TIMEOUT_MS", 30000)) * time.Millisecond,
		SessionMaxAge:   time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 1)) * time.Hour,
		CleanupInterval: time.Duration(getEnvInt("CLEANUP_INTERVAL_MIN", 30)) * time.Minute,
		MaxHistory:      getEnvInt("MAX_HISTORY_MESSAGES", 100),
		ContextWindow:   getEnvInt("CONTEXT_WINDOW", 10),
		TruncateLength:  getEnvInt("TRUNCATE_LENGTH", 200),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
