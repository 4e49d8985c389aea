package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"iox2sweep/internal/config"
	"iox2sweep/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, opts...)
	// Keep structured log output out of test stdout assertions.
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "iox2sweep", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	payload := struct {
		Paths struct {
			BaseDir     string `toml:"base_dir"`
			ServicesDir string `toml:"services_dir"`
			StateDir    string `toml:"state_dir"`
		} `toml:"paths"`
		Process struct {
			Name               string `toml:"name"`
			Terminate          bool   `toml:"terminate"`
			GracePeriodSeconds int    `toml:"grace_period_seconds"`
		} `toml:"process"`
		Sweep struct {
			MinAgeSeconds int `toml:"min_age_seconds"`
		} `toml:"sweep"`
		Journal struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"journal"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}{}
	payload.Paths.BaseDir = cfg.Paths.BaseDir
	payload.Paths.ServicesDir = cfg.Paths.ServicesDir
	payload.Paths.StateDir = cfg.Paths.StateDir
	payload.Process.Name = cfg.Process.Name
	payload.Process.Terminate = cfg.Process.Terminate
	payload.Process.GracePeriodSeconds = cfg.Process.GracePeriodSeconds
	payload.Sweep.MinAgeSeconds = cfg.Sweep.MinAgeSeconds
	payload.Journal.Enabled = cfg.Journal.Enabled
	payload.Journal.Path = cfg.Journal.Path
	payload.Logging.Format = cfg.Logging.Format
	payload.Logging.Level = cfg.Logging.Level

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
