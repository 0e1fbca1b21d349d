// Package config loads the process configuration: an optional YAML file
// with environment-variable overrides and sensible defaults for local
// development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file consulted by LoadOrDefault.
var DefaultPath = filepath.Join("config", "insights.yaml")

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

// MongoConfig holds the document-store connection settings.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// RateLimitConfig holds the per-client request allowance.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5000,
			Mode: "development",
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "insights",
			Collection: "insights",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}

// LoadFromPath reads and validates a YAML configuration file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("config: server port is required")
	}
	return cfg, nil
}

// LoadOrDefault loads DefaultPath when present, falls back to the built-in
// defaults otherwise, and applies environment overrides in both cases.
func LoadOrDefault() *Config {
	cfg, err := LoadFromPath(DefaultPath)
	if err != nil {
		cfg = Default()
	}
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("MONGO_COLLECTION"); v != "" {
		c.Mongo.Collection = v
	}
}
