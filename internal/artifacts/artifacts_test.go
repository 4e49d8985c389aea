package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"

	"iox2sweep/internal/artifacts"
	"iox2sweep/internal/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanMatchesPatternOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "iox2_a1b2.shm_state"))
	writeFile(t, filepath.Join(dir, "iox2_c3d4.shm_state"))
	writeFile(t, filepath.Join(dir, "iox2_e5f6.service"))
	writeFile(t, filepath.Join(dir, "unrelated.txt"))
	if err := os.Mkdir(filepath.Join(dir, "iox2_dir.shm_state"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := artifacts.Scan(artifacts.Target{
		Dir:     dir,
		Pattern: "iox2_*.shm_state",
		Kind:    artifacts.KindShmState,
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %+v", len(found), found)
	}
	for _, artifact := range found {
		if artifact.Kind != artifacts.KindShmState {
			t.Fatalf("unexpected kind: %q", artifact.Kind)
		}
		if artifact.Size != 1 {
			t.Fatalf("expected size 1, got %d", artifact.Size)
		}
		if artifact.ModTime.IsZero() {
			t.Fatal("expected mod time to be populated")
		}
	}
}

func TestScanMissingDirYieldsNothing(t *testing.T) {
	found, err := artifacts.Scan(artifacts.Target{
		Dir:     filepath.Join(t.TempDir(), "never-created"),
		Pattern: "iox2_*.shm_state",
		Kind:    artifacts.KindShmState,
	})
	if err != nil {
		t.Fatalf("expected missing dir to scan clean, got %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(found))
	}
}

func TestScanAllCombinesTargets(t *testing.T) {
	base := t.TempDir()
	services := filepath.Join(base, "iceoryx2", "services")
	writeFile(t, filepath.Join(base, "iox2_a1b2.shm_state"))
	writeFile(t, filepath.Join(services, "iox2_e5f6.service"))
	writeFile(t, filepath.Join(services, "other.conf"))

	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.ServicesDir = services

	found, err := artifacts.ScanAll(artifacts.Targets(&cfg))
	if err != nil {
		t.Fatalf("ScanAll returned error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %+v", len(found), found)
	}
	if found[0].Kind != artifacts.KindShmState {
		t.Fatalf("expected state artifact first, got %q", found[0].Kind)
	}
	if found[1].Kind != artifacts.KindService {
		t.Fatalf("expected service artifact second, got %q", found[1].Kind)
	}
	if artifacts.TotalSize(found) != 2 {
		t.Fatalf("unexpected total size: %d", artifacts.TotalSize(found))
	}
}

func TestKindLabel(t *testing.T) {
	if got := artifacts.KindShmState.Label(); got != "Shm State" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := artifacts.KindService.Label(); got != "Service" {
		t.Fatalf("unexpected label: %q", got)
	}
}
