package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the agent configuration.
type Config struct {
	ListenAddr  string
	APIBaseURL  string
	APIKey      string
	StoreDriver string // sqlite, redis or memory
	StorePath   string
	RedisURL    string
	AuthSecret  string // enables bearer-JWT auth on the control API when set
	LogLevel    string
	AppVersion  string
	UserID      string // optional identity to adopt at startup
}

// Load reads configuration from the environment, with a .env file as
// fallback for development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", "127.0.0.1:8600"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8000"),
		APIKey:      getEnv("API_KEY", ""),
		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		StorePath:   getEnv("STORE_PATH", "./data/agent/agent.db"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		AuthSecret:  getEnv("AUTH_SECRET", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AppVersion:  getEnv("APP_VERSION", "0.0.0-dev"),
		UserID:      getEnv("USER_ID", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
