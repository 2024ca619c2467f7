// Package config loads passguard configuration. Values are layered:
// built-in defaults, then the config file, then PASSGUARD_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the vault directory.
const FileName = "config.yaml"

// Config holds all passguard settings.
type Config struct {
	// VaultPath is the vault directory. Defaults to ~/.passguard.
	VaultPath string `yaml:"vault_path"`

	// DigestMode selects the master-password digest for new accounts:
	// "legacy" or "argon2id".
	DigestMode string `yaml:"digest_mode"`

	// MaxAttempts is the number of failed logins before the session is
	// disabled.
	MaxAttempts int `yaml:"max_attempts"`

	// BreachAPIKey authenticates breach-database lookups.
	BreachAPIKey string `yaml:"breach_api_key"`

	// GenerateMode is the default secret generation mode:
	// "phrase", "charset-full", or "charset-alnum".
	GenerateMode string `yaml:"generate_mode"`

	// GenerateLength is the default length (characters or words).
	GenerateLength int `yaml:"generate_length"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		VaultPath:      filepath.Join(home, ".passguard"),
		DigestMode:     "legacy",
		MaxAttempts:    3,
		GenerateMode:   "charset-full",
		GenerateLength: 24,
	}
}

// Load builds the effective configuration: defaults, overlaid with the
// config file if present, overlaid with environment variables.
func Load() (*Config, error) {
	cfg := Default()

	// PASSGUARD_HOME relocates the vault directory, and with it the
	// config file.
	if v := os.Getenv("PASSGUARD_HOME"); v != "" {
		cfg.VaultPath = v
	}

	path := filepath.Join(cfg.VaultPath, FileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file: defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays PASSGUARD_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PASSGUARD_HOME"); v != "" {
		cfg.VaultPath = v
	}
	if v := os.Getenv("PASSGUARD_DIGEST_MODE"); v != "" {
		cfg.DigestMode = v
	}
	if v := os.Getenv("PASSGUARD_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAttempts = n
		}
	}
	if v := os.Getenv("PASSGUARD_BREACH_API_KEY"); v != "" {
		cfg.BreachAPIKey = v
	}
	if v := os.Getenv("PASSGUARD_GENERATE_MODE"); v != "" {
		cfg.GenerateMode = v
	}
	if v := os.Getenv("PASSGUARD_GENERATE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GenerateLength = n
		}
	}
}

func (c *Config) validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("config: vault_path must not be empty")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	switch c.DigestMode {
	case "legacy", "argon2id":
	default:
		return fmt.Errorf("config: unknown digest_mode %q", c.DigestMode)
	}
	switch c.GenerateMode {
	case "phrase", "charset-full", "charset-alnum":
	default:
		return fmt.Errorf("config: unknown generate_mode %q", c.GenerateMode)
	}
	if c.GenerateLength < 0 {
		return fmt.Errorf("config: generate_length must not be negative, got %d", c.GenerateLength)
	}
	return nil
}
