package testsupport

import (
	"path/filepath"
	"testing"

	"iox2sweep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Process termination is disabled so tests never touch live processes;
// tests exercising termination opt back in with WithProcessTermination.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = filepath.Join(base, "scratch")
	cfg.Paths.ServicesDir = filepath.Join(base, "scratch", "iceoryx2", "services")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Journal.Path = filepath.Join(base, "state", "journal.db")
	cfg.Process.Terminate = false

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithProcessTermination enables termination of the named process.
func WithProcessTermination(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Process.Terminate = true
		cfg.Process.Name = name
	}
}

// WithMinAge sets the minimum artifact age guard in seconds.
func WithMinAge(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sweep.MinAgeSeconds = seconds
	}
}

// WithJournalDisabled turns off run recording.
func WithJournalDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Journal.Enabled = false
	}
}
