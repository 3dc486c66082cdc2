package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Room     RoomConfig     `yaml:"room"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig configures the HTTP/WebSocket listener.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig configures the save-snapshot store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RoomConfig configures room lifecycle behavior.
type RoomConfig struct {
	Capacity              int `yaml:"capacity"`                // max members per room
	CodeLength            int `yaml:"code_length"`             // room code length
	IdleTimeout           int `yaml:"idle_timeout"`            // waiting-room reap timeout (minutes)
	ShutdownTimeout       int `yaml:"shutdown_timeout"`        // max wait for sessions to finish (seconds)
	ShutdownCheckInterval int `yaml:"shutdown_check_interval"` // active-session poll interval (seconds)
	CleanupDelay          int `yaml:"cleanup_delay"`           // delay before final close (seconds)
}

// SecurityConfig configures connection admission.
type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // empty = allow all
}

// IdleTimeoutDuration returns the waiting-room reap timeout.
func (c *RoomConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(c.IdleTimeout) * time.Minute
}

// ShutdownTimeoutDuration returns the graceful-shutdown wait budget.
func (c *RoomConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// ShutdownCheckIntervalDuration returns the active-session poll interval.
func (c *RoomConfig) ShutdownCheckIntervalDuration() time.Duration {
	return time.Duration(c.ShutdownCheckInterval) * time.Second
}

// CleanupDelayDuration returns the delay before the final close.
func (c *RoomConfig) CleanupDelayDuration() time.Duration {
	return time.Duration(c.CleanupDelay) * time.Second
}

// Load reads and parses a config file, filling defaults for missing keys.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1024
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Room.Capacity == 0 {
		cfg.Room.Capacity = 4
	}
	if cfg.Room.CodeLength == 0 {
		cfg.Room.CodeLength = 6
	}
	if cfg.Room.IdleTimeout == 0 {
		cfg.Room.IdleTimeout = 30
	}
	if cfg.Room.ShutdownTimeout == 0 {
		cfg.Room.ShutdownTimeout = 300
	}
	if cfg.Room.ShutdownCheckInterval == 0 {
		cfg.Room.ShutdownCheckInterval = 5
	}
	if cfg.Room.CleanupDelay == 0 {
		cfg.Room.CleanupDelay = 3
	}
}
