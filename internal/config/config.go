// Package config provides layered YAML configuration for schemecore
// deployments: persistence backend selection, archive backend selection,
// and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete deployment configuration.
type Config struct {
	Persistence PersistenceConfig `yaml:"persistence"`
	Archive     ArchiveConfig     `yaml:"archive"`
	Log         LogConfig         `yaml:"log"`
}

// PersistenceConfig selects and parameterizes the workspace store.
type PersistenceConfig struct {
	// Driver is one of memory, sqlite, postgres.
	Driver string `yaml:"driver"`
	// Path is the database file when driver=sqlite.
	Path string `yaml:"path"`
	// DSN is the connection string when driver=postgres.
	DSN string `yaml:"dsn"`
}

// ArchiveConfig selects and parameterizes the report archive.
type ArchiveConfig struct {
	// Driver is one of fs, s3, memory.
	Driver string `yaml:"driver"`
	// Root is the directory root when driver=fs.
	Root string `yaml:"root"`
	// Bucket is the bucket name when driver=s3.
	Bucket string `yaml:"bucket"`
	// Region is the bucket region when driver=s3.
	Region string `yaml:"region"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with development defaults.
func DefaultConfig() *Config {
	return &Config{
		Persistence: PersistenceConfig{
			Driver: "sqlite",
			Path:   "schemecore.db",
		},
		Archive: ArchiveConfig{
			Driver: "fs",
			Root:   "./archive",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validDrivers = map[string]bool{"memory": true, "sqlite": true, "postgres": true}
var validArchiveDrivers = map[string]bool{"fs": true, "s3": true, "memory": true}
var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if !validDrivers[c.Persistence.Driver] {
		return fmt.Errorf("persistence.driver %q is not one of memory, sqlite, postgres", c.Persistence.Driver)
	}
	if c.Persistence.Driver == "postgres" && c.Persistence.DSN == "" {
		return fmt.Errorf("persistence.dsn is required for the postgres driver")
	}
	if !validArchiveDrivers[c.Archive.Driver] {
		return fmt.Errorf("archive.driver %q is not one of fs, s3, memory", c.Archive.Driver)
	}
	if c.Archive.Driver == "s3" && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required for the s3 driver")
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
