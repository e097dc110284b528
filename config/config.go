package config

import (
	"os"
	"strconv"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Audit      AuditConfig
	Classifier ClassifierConfig
}

type ServerConfig struct {
	AppEnv string
	Port   string
}

type AuthConfig struct {
	OwnerAPIKey string
	OwnerApp    string
}

type StorageConfig struct {
	Backend     string // "memory" or "postgres"
	DatabaseURL string
}

type AuditConfig struct {
	LogFile string // empty keeps the audit log in memory
}

type ClassifierConfig struct {
	APIKey    string
	Model     string
	BatchSize int
	Workers   int
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv: getEnv("APP_ENV", "production"),
			Port:   getEnv("APP_PORT", "8080"),
		},
		Auth: AuthConfig{
			OwnerAPIKey: getEnv("OWNER_API_KEY", ""),
			OwnerApp:    getEnv("OWNER_APP", "CargoHUB Dashboard"),
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", "memory"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Audit: AuditConfig{
			LogFile: getEnv("AUDIT_LOG_FILE", ""),
		},
		Classifier: ClassifierConfig{
			APIKey:    getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("CLASSIFIER_MODEL", "gpt-4o-mini"),
			BatchSize: getEnvInt("CLASSIFIER_BATCH_SIZE", 25),
			Workers:   getEnvInt("CLASSIFIER_WORKERS", 4),
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
