package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/upb/logbridge/utils"
)

// Config represents the complete application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Logger      Options
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `validate:"omitempty,hostname|ip"`
	Port            int           `validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `validate:"gte=0"`
	WriteTimeout    time.Duration `validate:"gte=0"`
	ShutdownTimeout time.Duration `validate:"gte=0"`
}

// New loads configuration from the environment and the optional yaml file at
// path. envFiles are loaded first; without any, ".env" is tried.
func New(ctx context.Context, path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	opts, err := loadOptions(path)
	if err != nil {
		return nil, err
	}
	cfg.Logger = *opts

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOptions loads only the logger options: yaml file at path (optional),
// then LOG_* overrides, then defaults.
func LoadOptions(ctx context.Context, path string, envFiles ...string) (*Options, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	opts, err := loadOptions(path)
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return opts, nil
}

func loadOptions(path string) (*Options, error) {
	opts := &Options{}
	if path != "" {
		if err := LoadFile(path, opts); err != nil {
			return nil, fmt.Errorf("failed to load logger config: %w", err)
		}
	}
	opts.applyEnv()
	opts.ApplyDefaults()
	return opts, nil
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(&c.Server); err != nil {
		return err
	}
	if c.IsProduction() && c.Logger.Development {
		return &utils.ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"development": "development logger is not allowed in production"},
		}
	}
	return c.Logger.Validate()
}

// Validate checks the logger options
func (o *Options) Validate() error {
	return utils.ValidateStruct(o)
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// loadEnvFiles loads the named env files. Without any, ".env" is loaded if
// it exists.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		_ = godotenv.Load(".env")
		return nil
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return getEnvAsInt("SERVER_PORT", 8080)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
