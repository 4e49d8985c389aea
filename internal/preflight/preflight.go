package preflight

import (
	"path/filepath"

	"iox2sweep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Missing marks a directory that does not exist. Swept directories may
	// legitimately be absent, so this is distinct from a failure.
	Missing bool
	Detail  string
}

// RunAll executes the directory checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Base directory", cfg.Paths.BaseDir),
		CheckDirectoryAccess("Services directory", cfg.Paths.ServicesDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if cfg.Journal.Enabled {
		journalDir := filepath.Dir(cfg.Journal.Path)
		if journalDir != cfg.Paths.StateDir {
			results = append(results, CheckDirectoryAccess("Journal directory", journalDir))
		}
	}

	return results
}
