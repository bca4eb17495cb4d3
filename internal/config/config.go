package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the demo orchestration service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"DEMOFLOW_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"DEMOFLOW_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis configuration
	Redis RedisConfig

	// Snapshot persistence
	Persistence PersistenceConfig

	// Event bus
	Events EventsConfig

	// Auto-advance
	Autoplay AutoplayConfig

	// Narration
	Narration NarrationConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// PersistenceConfig holds snapshot persistence configuration.
// Persistence is opt-in; when disabled the state machine is in-memory only.
type PersistenceConfig struct {
	Enabled     bool          `env:"PERSISTENCE_ENABLED" envDefault:"false"`
	Backend     string        `env:"PERSISTENCE_BACKEND" envDefault:"redis"`
	SnapshotTTL time.Duration `env:"PERSISTENCE_SNAPSHOT_TTL" envDefault:"168h"`
}

// EventsConfig holds event bus configuration
type EventsConfig struct {
	Backend string `env:"EVENTS_BACKEND" envDefault:"memory"`
}

// AutoplayConfig holds auto-advance configuration
type AutoplayConfig struct {
	Enabled             bool          `env:"AUTOPLAY_ENABLED" envDefault:"true"`
	StageInterval       time.Duration `env:"AUTOPLAY_STAGE_INTERVAL" envDefault:"20s"`
	HealthCheckInterval time.Duration `env:"AUTOPLAY_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
}

// NarrationConfig holds narration configuration.
// Narration is disabled when no API key is set.
type NarrationConfig struct {
	Provider       string        `env:"NARRATION_PROVIDER" envDefault:"anthropic"`
	APIKey         string        `env:"NARRATION_API_KEY"`
	Model          string        `env:"NARRATION_MODEL" envDefault:"claude-3-5-haiku-20241022"`
	RequestTimeout time.Duration `env:"NARRATION_REQUEST_TIMEOUT" envDefault:"15s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	// Validate backend selections
	if c.Persistence.Backend != "redis" && c.Persistence.Backend != "memory" {
		return fmt.Errorf("unsupported persistence backend: %s (must be redis or memory)", c.Persistence.Backend)
	}
	if c.Events.Backend != "redis" && c.Events.Backend != "memory" {
		return fmt.Errorf("unsupported events backend: %s (must be redis or memory)", c.Events.Backend)
	}

	// Validate Redis config when a redis-backed component is enabled
	if c.NeedsRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	// Validate autoplay config
	if c.Autoplay.Enabled && c.Autoplay.StageInterval <= 0 {
		return fmt.Errorf("autoplay stage interval must be positive")
	}

	// Validate narration config
	if c.Narration.APIKey != "" && c.Narration.Provider != "anthropic" {
		return fmt.Errorf("unsupported narration provider: %s (only 'anthropic' is supported)", c.Narration.Provider)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// NeedsRedis reports whether any enabled component is redis-backed
func (c *Config) NeedsRedis() bool {
	if c.Persistence.Enabled && c.Persistence.Backend == "redis" {
		return true
	}
	return c.Events.Backend == "redis"
}

// NarrationEnabled reports whether narration is configured
func (c *Config) NarrationEnabled() bool {
	return c.Narration.APIKey != ""
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
