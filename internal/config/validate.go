package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcess(); err != nil {
		return err
	}
	if err := c.validateSweep(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.BaseDir == "" {
		return errors.New("paths.base_dir must be set")
	}
	if c.Paths.ServicesDir == "" {
		return errors.New("paths.services_dir must be set")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateProcess() error {
	if c.Process.Terminate && c.Process.Name == "" {
		return errors.New("process.name must be set when process.terminate is true")
	}
	if c.Process.GracePeriodSeconds < 0 {
		return errors.New("process.grace_period_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateSweep() error {
	if err := validatePattern("sweep.state_pattern", c.Sweep.StatePattern); err != nil {
		return err
	}
	if err := validatePattern("sweep.service_pattern", c.Sweep.ServicePattern); err != nil {
		return err
	}
	if c.Sweep.MinAgeSeconds < 0 {
		return errors.New("sweep.min_age_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validatePattern(key, pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return fmt.Errorf("%s is not a valid glob pattern: %w", key, err)
	}
	return nil
}
