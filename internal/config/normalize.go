package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeProcess()
	c.normalizeSweep()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		c.Paths.BaseDir = defaultBaseDir()
	}
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ServicesDir) == "" {
		c.Paths.ServicesDir = filepath.Join(c.Paths.BaseDir, filepath.FromSlash(defaultServicesSubdir))
	}
	if c.Paths.ServicesDir, err = expandPath(c.Paths.ServicesDir); err != nil {
		return fmt.Errorf("paths.services_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProcess() {
	c.Process.Name = strings.TrimSpace(c.Process.Name)
}

func (c *Config) normalizeSweep() {
	c.Sweep.StatePattern = strings.TrimSpace(c.Sweep.StatePattern)
	if c.Sweep.StatePattern == "" {
		c.Sweep.StatePattern = defaultStatePattern
	}
	c.Sweep.ServicePattern = strings.TrimSpace(c.Sweep.ServicePattern)
	if c.Sweep.ServicePattern == "" {
		c.Sweep.ServicePattern = defaultServicePattern
	}
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = filepath.Join(c.Paths.StateDir, defaultJournalFile)
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
