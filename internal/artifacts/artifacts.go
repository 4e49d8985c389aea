package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"iox2sweep/internal/config"
)

// Kind identifies the class of a runtime artifact.
type Kind string

const (
	// KindShmState marks shared-memory state files from the base directory.
	KindShmState Kind = "shm_state"
	// KindService marks service descriptor files from the services directory.
	KindService Kind = "service"
)

// Label returns a display form of the kind for tables and reports.
func (k Kind) Label() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(k), "_", " "))
}

// Artifact is a single stale file discovered in a swept directory.
type Artifact struct {
	Path    string
	Kind    Kind
	Size    int64
	ModTime time.Time
}

// Target specifies a directory and filename pattern to scan.
type Target struct {
	Dir     string
	Pattern string
	Kind    Kind
}

// Targets derives the scan targets from configuration: state files in the
// base directory, service descriptors in the services directory.
func Targets(cfg *config.Config) []Target {
	return []Target{
		{Dir: cfg.Paths.BaseDir, Pattern: cfg.Sweep.StatePattern, Kind: KindShmState},
		{Dir: cfg.Paths.ServicesDir, Pattern: cfg.Sweep.ServicePattern, Kind: KindService},
	}
}

// Scan returns the artifacts in target.Dir whose names match target.Pattern.
// A missing directory yields no artifacts and no error.
func Scan(target Target) ([]Artifact, error) {
	dir := strings.TrimSpace(target.Dir)
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var found []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(target.Pattern, entry.Name())
		if err != nil || !matched {
			continue
		}
		artifact := Artifact{
			Path: filepath.Join(dir, entry.Name()),
			Kind: target.Kind,
		}
		if info, err := entry.Info(); err == nil {
			artifact.Size = info.Size()
			artifact.ModTime = info.ModTime()
		}
		found = append(found, artifact)
	}
	return found, nil
}

// ScanAll scans every target in order and returns the combined results.
func ScanAll(targets []Target) ([]Artifact, error) {
	var all []Artifact
	for _, target := range targets {
		found, err := Scan(target)
		if err != nil {
			return nil, err
		}
		all = append(all, found...)
	}
	return all, nil
}

// TotalSize sums the sizes of the provided artifacts.
func TotalSize(items []Artifact) int64 {
	var total int64
	for _, item := range items {
		total += item.Size
	}
	return total
}
