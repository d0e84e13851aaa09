// Package config loads configuration from environment variables, the only
// configuration surface the Lambda deployment provides.
package config

import (
	"os"
	"time"
)

// Config holds all configuration values
type Config struct {
	TableName          string
	CreatedAtIndexName string
	TagIndexName       string
	Region             string
	ServerAddress      string
	Environment        string
	LogLevel           string
	StoreTimeout       time.Duration
}

// New creates a new configuration from environment variables
func New() *Config {
	return &Config{
		TableName:          getEnv("TABLE_NAME", "TabManager"),
		CreatedAtIndexName: getEnv("CREATED_AT_INDEX_NAME", "CreatedAtIndex"),
		TagIndexName:       getEnv("TAG_INDEX_NAME", "TagIndex"),
		Region:             getEnv("AWS_REGION", "us-east-1"),
		ServerAddress:      getEnv("SERVER_ADDRESS", ":8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		StoreTimeout:       getDuration("STORE_TIMEOUT", 5*time.Second),
	}
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
