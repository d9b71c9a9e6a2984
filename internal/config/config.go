package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Storage: sqlite file by default; a postgres DSN switches backends.
	DatabasePath string
	DatabaseURL  string
	// Gemini configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string // overridable for tests and proxies
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   env,
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DatabasePath:  getEnv("DATABASE_PATH", "data/oneiro.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
		Debug:         getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
