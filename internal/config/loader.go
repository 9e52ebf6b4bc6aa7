package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'applyrank config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads config or exits with error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// Write marshals the configuration to a TOML file, creating parent
// directories as needed. Used by 'config init'.
func (c *Config) Write(path string) error {
	expandedPath, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(expandedPath, data, 0644)
}

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields.
func (c *Config) expandPaths() error {
	var err error

	c.Pool.CSV, err = expandPath(c.Pool.CSV)
	if err != nil {
		return err
	}

	c.Pool.INI, err = expandPath(c.Pool.INI)
	if err != nil {
		return err
	}

	c.Pool.ArchiveDB, err = expandPath(c.Pool.ArchiveDB)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Pool.CSV == "" {
		errs = append(errs, errors.New("pool.csv is required"))
	}

	if c.Formula.AcceptCount < 1 {
		errs = append(errs, errors.New("formula.accept_count must be at least 1"))
	}

	if len(c.Identities) == 0 {
		errs = append(errs, errors.New("at least one reviewer identity is required"))
	}

	for label, value := range c.Labels {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			errs = append(errs, fmt.Errorf("labels.%s must be a finite number", label))
		}
	}

	for category, table := range c.Ratings {
		if len(table) == 0 {
			errs = append(errs, fmt.Errorf("ratings.%s has no entries", category))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
