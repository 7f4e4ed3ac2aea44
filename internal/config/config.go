// Package config loads process configuration. Services read it from the
// environment; the command-line tool reads a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/jira"
)

// ServiceType selects the .env file loaded in development
type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Config is the environment configuration shared by the server and worker
type Config struct {
	Env          string
	Port         string
	DatabasePath string
	JiraTimeout  time.Duration
	Temporal     TemporalConfig
}

// TemporalConfig locates the workflow service. An empty address disables
// asynchronous synthesis on the server.
type TemporalConfig struct {
	Address   string
	Namespace string
	TaskQueue string
}

// Enabled reports whether a Temporal address is configured
func (c TemporalConfig) Enabled() bool {
	return c.Address != ""
}

// Load reads configuration from environment variables. In development it
// first loads .env.<service>, falling back to .env.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("SCOPESYNC_ENV", "development") == "development" {
		if err := godotenv.Load(fmt.Sprintf(".env.%s", serviceType)); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:          getEnv("SCOPESYNC_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "scopesync.db"),
		JiraTimeout:  getEnvDuration("JIRA_TIMEOUT", jira.DefaultTimeout),
		Temporal: TemporalConfig{
			Address:   getEnv("TEMPORAL_ADDRESS", ""),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			TaskQueue: getEnv("TASK_QUEUE", "synthesis-queue"),
		},
	}

	if cfg.DatabasePath == "" {
		return Config{}, fmt.Errorf("DATABASE_PATH is required")
	}
	if serviceType == ServiceTypeWorker && !cfg.Temporal.Enabled() {
		return Config{}, fmt.Errorf("TEMPORAL_ADDRESS is required for the worker")
	}
	return cfg, nil
}

// IsDevelopment reports whether the process runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// NewLogger returns a development logger in development and a production
// logger otherwise
func (c Config) NewLogger() (*zap.Logger, error) {
	if c.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
