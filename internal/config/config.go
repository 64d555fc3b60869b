package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port               int           `yaml:"port"`
	CORSOrigins        []string      `yaml:"cors_origins"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

// SolverConfig holds stake solver defaults
type SolverConfig struct {
	DefaultMode   string  `yaml:"default_mode"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"` // 0 derives the cap from the odds
}

// RedisConfig holds the optional response cache; an empty URL disables it
type RedisConfig struct {
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Solver  SolverConfig  `yaml:"solver"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:               8085,
			CORSOrigins:        []string{"http://localhost:3000", "http://localhost:3001"},
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			SessionIdleTimeout: 5 * time.Minute,
		},
		Solver: SolverConfig{
			DefaultMode:   string(calculator.ModeSymmetric),
			Tolerance: calculator.DefaultTolerance,
		},
		Redis: RedisConfig{
			CacheTTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads defaults, then the YAML file named by ARB_CONFIG if set, then
// environment overrides
func Load() (*Config, error) {
	c := defaultConfig()

	if path := os.Getenv("ARB_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	c.Server.Port = getEnvInt("ARB_SERVICE_PORT", c.Server.Port)
	c.Server.CORSOrigins = getEnvList("CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.SessionIdleTimeout = getEnvDuration("ARB_SESSION_IDLE_TIMEOUT", c.Server.SessionIdleTimeout)
	c.Solver.DefaultMode = getEnv("ARB_DEFAULT_MODE", c.Solver.DefaultMode)
	c.Solver.Tolerance = getEnvFloat("ARB_TOLERANCE", c.Solver.Tolerance)
	c.Solver.MaxIterations = getEnvInt("ARB_MAX_ITERATIONS", c.Solver.MaxIterations)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Redis.CacheTTL = getEnvDuration("ARB_CACHE_TTL", c.Redis.CacheTTL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Pretty = getEnvBool("LOG_PRETTY", c.Logging.Pretty)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configuration the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := calculator.ParseMode(c.Solver.DefaultMode); err != nil {
		return fmt.Errorf("invalid default mode: %w", err)
	}
	if !(c.Solver.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %v", c.Solver.Tolerance)
	}
	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("max iterations must not be negative, got %d", c.Solver.MaxIterations)
	}
	if c.Redis.URL != "" && c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive when Redis is enabled, got %s", c.Redis.CacheTTL)
	}
	if c.Server.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session idle timeout must be positive, got %s", c.Server.SessionIdleTimeout)
	}
	return nil
}

// SolverOptions returns the configured solver options
func (c *Config) SolverOptions() calculator.Options {
	return calculator.Options{
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
	}
}

// Mode returns the configured default mode; Validate guarantees it parses
func (c *Config) Mode() calculator.Mode {
	return calculator.Mode(c.Solver.DefaultMode)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
