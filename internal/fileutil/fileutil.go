package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// ForceRemove deletes path, treating an already-missing file as success.
// On permission errors it widens the file mode once and retries, which
// handles state files the middleware left behind with read-only bits.
func ForceRemove(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if !errors.Is(err, fs.ErrPermission) {
		return err
	}
	if chmodErr := os.Chmod(path, 0o600); chmodErr != nil {
		return err
	}
	err = os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether path refers to an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
