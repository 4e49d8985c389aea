//go:build windows

package preflight

import "os"

func accessCheck(path string) error {
	if _, err := os.ReadDir(path); err != nil {
		return err
	}
	probe, err := os.CreateTemp(path, ".iox2sweep-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
