package config

import (
	"os"
	"strconv"
	"time"

	"packetstruct/domain/structure"
	"packetstruct/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Parser   ParserConfig   `validate:"required"`
	Storage  StorageConfig  `validate:"required"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required"`
	OpsPort string
	GinMode string
}

// ParserConfig holds settings for the downstream parser service that is
// notified after every structure change
type ParserConfig struct {
	BaseURL       string
	NotifyTimeout time.Duration
}

// StorageConfig holds structure persistence settings
type StorageConfig struct {
	CollectionBaseName string
	Dialect            string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Parser = *loadParserConfig()
	config.Storage = *loadStorageConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	return &DatabaseConfig{URL: url}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		OpsPort: getEnvOrDefault("OPS_PORT", "6060"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadParserConfig() *ParserConfig {
	return &ParserConfig{
		BaseURL:       getEnvOrDefault("PARSER_SERVER_URL", "http://192.168.0.102:5000"),
		NotifyTimeout: getEnvDurationOrDefault("NOTIFY_TIMEOUT", 10*time.Second),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		CollectionBaseName: getEnvOrDefault("COLLECTION_BASE_NAME", "CCSDS_Structure"),
		Dialect:            getEnvOrDefault("DIALECT", structure.DialectExtended),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Storage.CollectionBaseName == "" {
		return errors.ConfigInvalid("collection base name is required")
	}
	if d := config.Storage.Dialect; d != structure.DialectExtended && d != structure.DialectMinimal {
		return errors.ConfigInvalid("DIALECT must be \"extended\" or \"minimal\"")
	}
	if config.Parser.NotifyTimeout <= 0 {
		return errors.ConfigInvalid("notify timeout must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
