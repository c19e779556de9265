package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"haircast-core/internal/bridge"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/inference"
)

// HTTPConfig is the listener configuration.
type HTTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout"`  // seconds
}

// Addr returns the listen address.
func (c *HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BridgeConfig is the YAML-facing bridge configuration.
type BridgeConfig struct {
	Path         string            `yaml:"path"`
	OpenTimeout  int               `yaml:"open_timeout"`  // seconds
	WriteTimeout int               `yaml:"write_timeout"` // seconds
	ReadLimit    int64             `yaml:"read_limit"`    // bytes
	MaxFPS       int               `yaml:"max_fps"`
	Auth         bridge.AuthConfig `yaml:"auth"`
}

func (c *BridgeConfig) toBridge() *bridge.Config {
	return &bridge.Config{
		Path:         c.Path,
		OpenTimeout:  time.Duration(c.OpenTimeout) * time.Second,
		WriteTimeout: time.Duration(c.WriteTimeout) * time.Second,
		ReadLimit:    c.ReadLimit,
		MaxFPS:       c.MaxFPS,
		Auth:         c.Auth,
	}
}

// InferenceConfig is the YAML-facing inference client configuration.
type InferenceConfig struct {
	Address       string `yaml:"address"`
	OpenTimeout   int    `yaml:"open_timeout"`   // seconds
	MaxRetries    int    `yaml:"max_retries"`
	RetryBackoff  int    `yaml:"retry_backoff"`  // milliseconds
	QueueCapacity int    `yaml:"queue_capacity"` // frames per session
	RecvBuffer    int    `yaml:"recv_buffer"`    // frames per session
}

func (c *InferenceConfig) toInference() *inference.Config {
	return &inference.Config{
		Address:       c.Address,
		OpenTimeout:   time.Duration(c.OpenTimeout) * time.Second,
		MaxRetries:    c.MaxRetries,
		RetryBackoff:  time.Duration(c.RetryBackoff) * time.Millisecond,
		QueueCapacity: c.QueueCapacity,
		RecvBuffer:    c.RecvBuffer,
	}
}

// SessionConfig controls registry eviction.
type SessionConfig struct {
	MaxIdle       int `yaml:"max_idle"`       // seconds
	SweepInterval int `yaml:"sweep_interval"` // seconds
}

// HealthConfig controls the health checkers.
type HealthConfig struct {
	CheckTimeout int `yaml:"check_timeout"` // seconds
}

// Config is the full gateway configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       corelog.Config  `yaml:"log"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Inference InferenceConfig `yaml:"inference"`
	Session   SessionConfig   `yaml:"session"`
	Health    HealthConfig    `yaml:"health"`
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         8090,
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
		},
		Log: corelog.Config{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Bridge: BridgeConfig{
			Path:         "/haircast/v1/stream",
			OpenTimeout:  5,
			WriteTimeout: 5,
			ReadLimit:    4 << 20,
		},
		Inference: InferenceConfig{
			Address:       "localhost:50051",
			OpenTimeout:   5,
			MaxRetries:    3,
			RetryBackoff:  200,
			QueueCapacity: 5,
			RecvBuffer:    16,
		},
		Session: SessionConfig{
			MaxIdle:       300,
			SweepInterval: 30,
		},
		Health: HealthConfig{
			CheckTimeout: 2,
		},
	}
}

// LoadConfig reads the YAML config file, applies environment
// overrides, and validates. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Run with defaults; common in containers that configure
		// everything through the environment.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides lets deployment environments override the file.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("HAIRCAST_HTTP_HOST"); v != "" {
		config.HTTP.Host = v
	}
	if v := os.Getenv("HAIRCAST_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.HTTP.Port = port
		}
	}
	if v := os.Getenv("HAIRCAST_INFERENCE_ADDR"); v != "" {
		config.Inference.Address = v
	}
	if v := os.Getenv("HAIRCAST_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("HAIRCAST_AUTH_SECRET"); v != "" {
		config.Bridge.Auth.Enabled = true
		config.Bridge.Auth.Secret = v
	}
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.Inference.Address == "" {
		return fmt.Errorf("inference address is required")
	}
	if c.Bridge.Auth.Enabled && c.Bridge.Auth.Secret == "" {
		return fmt.Errorf("auth enabled without a secret")
	}
	if c.Session.MaxIdle < 0 || c.Session.SweepInterval < 0 {
		return fmt.Errorf("session durations must be non-negative")
	}
	return nil
}
