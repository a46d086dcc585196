// Package config handles rotz configuration via YAML files and environment variables.
//
// Configuration Precedence (highest to lowest):
//  1. Command-line flags (--database, --backend, --verbose)
//  2. Environment variables (ROTZ_*)
//  3. Config file (config.yaml)
//  4. Built-in defaults
//
// Example Usage:
//
//	cfg, err := config.LoadFromFile(config.FindConfigFile())
//	if err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
//	fmt.Printf("Database: %s (%s)\n", cfg.Database.ResolvedPath(), cfg.Database.Backend)
//
// Environment Variables (all use ROTZ_ prefix):
//
// Database:
//   - ROTZ_DATABASE="rotz.badger"
//   - ROTZ_BACKEND="badger" or "bolt"
//   - ROTZ_SYNC_WRITES=true
//   - ROTZ_READ_ONLY=true
//
// Logging:
//   - ROTZ_LOG_LEVEL="info"
//   - ROTZ_LOG_FORMAT="text" or "json"
//   - ROTZ_LOG_OUTPUT="stderr"
//   - ROTZ_VERBOSE=true
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Storage backends understood by the database layer.
const (
	BackendBadger = "badger"
	BackendBolt   = "bolt"
)

// Default database locations, one per backend.
const (
	DefaultBadgerPath = "rotz.badger"
	DefaultBoltPath   = "rotz.bolt"
)

// Config holds all rotz configuration.
//
// Configuration is organized into logical sections:
//   - Database: where the catalogue lives and how it is stored
//   - Logging: diagnostics routed to stderr (never command output)
//
// Example:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig

	// Verbose reports per-item misses (unknown tags, unresolved symbols) and forces
	// debug logging.
	// Env: ROTZ_VERBOSE
	Verbose bool
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	// Path is the badger directory or bolt file. Empty means the backend's default.
	// Env: ROTZ_DATABASE
	Path string
	// Backend is "badger" (default) or "bolt".
	// Env: ROTZ_BACKEND
	Backend string
	// SyncWrites fsyncs every commit.
	// Env: ROTZ_SYNC_WRITES
	SyncWrites bool
	// ReadOnly opens the database without write access. Mutating commands fail.
	// Env: ROTZ_READ_ONLY
	ReadOnly bool
	// InMemory keeps the catalogue in RAM (badger only). Nothing is persisted.
	InMemory bool
}

// ResolvedPath returns Path, or the default location for the configured backend.
func (d *DatabaseConfig) ResolvedPath() string {
	if d.Path != "" {
		return d.Path
	}
	if d.Backend == BackendBolt {
		return DefaultBoltPath
	}
	return DefaultBadgerPath
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level (debug, info, warn, error)
	Level string
	// Format (text, json)
	Format string
	// Output (stderr, stdout, or a file path)
	Output string
}

// LoadDefaults returns a Config with built-in defaults.
func LoadDefaults() *Config {
	config := &Config{}

	config.Database.Path = ""
	config.Database.Backend = BackendBadger
	config.Database.SyncWrites = false
	config.Database.ReadOnly = false

	config.Logging.Level = "warn"
	config.Logging.Format = "text"
	config.Logging.Output = "stderr"

	config.Verbose = false
	return config
}

// LoadFromEnv returns defaults overridden by ROTZ_* environment variables.
func LoadFromEnv() *Config {
	config := LoadDefaults()
	applyEnvVars(config)
	return config
}

func applyEnvVars(config *Config) {
	config.Database.Path = getEnv("ROTZ_DATABASE", config.Database.Path)
	config.Database.Backend = strings.ToLower(getEnv("ROTZ_BACKEND", config.Database.Backend))
	config.Database.SyncWrites = getEnvBool("ROTZ_SYNC_WRITES", config.Database.SyncWrites)
	config.Database.ReadOnly = getEnvBool("ROTZ_READ_ONLY", config.Database.ReadOnly)

	config.Logging.Level = strings.ToLower(getEnv("ROTZ_LOG_LEVEL", config.Logging.Level))
	config.Logging.Format = strings.ToLower(getEnv("ROTZ_LOG_FORMAT", config.Logging.Format))
	config.Logging.Output = getEnv("ROTZ_LOG_OUTPUT", config.Logging.Output)

	config.Verbose = getEnvBool("ROTZ_VERBOSE", config.Verbose)
}

// Validate checks the configuration for values the database and logger cannot use.
//
// Returns nil if configuration is valid, or an error describing the problem.
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case BackendBadger, BackendBolt:
	default:
		return fmt.Errorf("invalid backend: %q (want %q or %q)", c.Database.Backend, BackendBadger, BackendBolt)
	}
	if c.Database.InMemory && c.Database.Backend != BackendBadger {
		return fmt.Errorf("in-memory mode requires the %s backend", BackendBadger)
	}
	if c.Database.InMemory && c.Database.ReadOnly {
		return fmt.Errorf("in-memory database cannot be read-only")
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	if c.Logging.Output == "" {
		return fmt.Errorf("log output must not be empty")
	}
	return nil
}

// String returns a one-line summary suitable for logging.
//
// Example:
//
//	log.Debugf("config: %s", cfg)
//	// Output: Config{Backend: badger, Database: rotz.badger, SyncWrites: false, ReadOnly: false, Log: warn/text}
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Backend: %s, Database: %s, SyncWrites: %v, ReadOnly: %v, Log: %s/%s}",
		c.Database.Backend,
		c.Database.ResolvedPath(),
		c.Database.SyncWrites,
		c.Database.ReadOnly,
		c.Logging.Level, c.Logging.Format,
	)
}

// YAMLConfig represents the YAML configuration file structure.
type YAMLConfig struct {
	Database struct {
		Path       string `yaml:"path"`
		Backend    string `yaml:"backend"`
		SyncWrites bool   `yaml:"sync_writes"`
		ReadOnly   bool   `yaml:"read_only"`
		InMemory   bool   `yaml:"in_memory"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`

	Verbose bool `yaml:"verbose"`
}

// LoadFromFile loads configuration with precedence defaults -> config file -> env vars.
//
// A missing file is not an error; defaults and environment are used instead.
// An empty configPath skips the file.
func LoadFromFile(configPath string) (*Config, error) {
	// Step 1: Start with built-in defaults
	config := LoadDefaults()

	// Step 2: Overlay the YAML file, if any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			var yamlCfg YAMLConfig
			if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			applyYAML(config, &yamlCfg)
		}
	}

	// Step 3: Apply environment variable overrides (higher priority than config file)
	applyEnvVars(config)
	return config, nil
}

func applyYAML(config *Config, yamlCfg *YAMLConfig) {
	if yamlCfg.Database.Path != "" {
		config.Database.Path = yamlCfg.Database.Path
	}
	if yamlCfg.Database.Backend != "" {
		config.Database.Backend = strings.ToLower(yamlCfg.Database.Backend)
	}
	if yamlCfg.Database.SyncWrites {
		config.Database.SyncWrites = true
	}
	if yamlCfg.Database.ReadOnly {
		config.Database.ReadOnly = true
	}
	if yamlCfg.Database.InMemory {
		config.Database.InMemory = true
	}

	if yamlCfg.Logging.Level != "" {
		config.Logging.Level = strings.ToLower(yamlCfg.Logging.Level)
	}
	if yamlCfg.Logging.Format != "" {
		config.Logging.Format = strings.ToLower(yamlCfg.Logging.Format)
	}
	if yamlCfg.Logging.Output != "" {
		config.Logging.Output = yamlCfg.Logging.Output
	}
	if yamlCfg.Verbose {
		config.Verbose = true
	}
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path to the first config file found, or empty string if none found.
// Search order:
//  1. ~/.rotz/config.yaml
//  2. ./rotz.yaml
//  3. ~/.config/rotz/config.yaml (XDG)
func FindConfigFile() string {
	var candidates []string

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		candidates = append(candidates, filepath.Join(home, ".rotz", "config.yaml"))
	}
	candidates = append(candidates, "rotz.yaml")
	if homeErr == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "rotz", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}
