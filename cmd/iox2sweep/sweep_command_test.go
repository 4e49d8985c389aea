package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"iox2sweep/internal/testsupport"
)

func TestSweepRemovesArtifacts(t *testing.T) {
	env := setupCLITestEnv(t)

	stateFile := filepath.Join(env.cfg.Paths.BaseDir, "iox2_1234.shm_state")
	serviceFile := filepath.Join(env.cfg.Paths.ServicesDir, "iox2_1234.service")
	bystander := filepath.Join(env.cfg.Paths.BaseDir, "keep.txt")
	testsupport.WriteArtifact(t, stateFile, 64)
	testsupport.WriteArtifact(t, serviceFile, 32)
	testsupport.WriteArtifact(t, bystander, 16)

	out, _, err := runCLI(t, []string{"sweep"}, env.configPath)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	requireContains(t, out, "Process check skipped")
	requireContains(t, out, "Removed 2 artifacts")

	if _, err := os.Stat(stateFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("state artifact should be gone")
	}
	if _, err := os.Stat(serviceFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("service artifact should be gone")
	}
	if _, err := os.Stat(bystander); err != nil {
		t.Fatalf("bystander file should survive: %v", err)
	}
}

func TestSweepNothingToDo(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"sweep"}, env.configPath)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	requireContains(t, out, "No stale artifacts found")
}

func TestSweepDryRunLeavesFiles(t *testing.T) {
	env := setupCLITestEnv(t)

	stateFile := filepath.Join(env.cfg.Paths.BaseDir, "iox2_dry.shm_state")
	testsupport.WriteArtifact(t, stateFile, 64)

	out, _, err := runCLI(t, []string{"sweep", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("sweep --dry-run: %v", err)
	}
	requireContains(t, out, "Dry run: nothing will be deleted")
	requireContains(t, out, "Would remove 1 artifact")
	requireContains(t, out, stateFile)

	if _, err := os.Stat(stateFile); err != nil {
		t.Fatalf("dry run must not delete files: %v", err)
	}
}

func TestSweepJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)

	stateFile := filepath.Join(env.cfg.Paths.BaseDir, "iox2_json.shm_state")
	testsupport.WriteArtifact(t, stateFile, 64)

	out, _, err := runCLI(t, []string{"sweep", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sweep --json: %v", err)
	}

	var view sweepReportView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode report: %v\noutput: %s", err, out)
	}
	if view.RunID == "" {
		t.Fatal("expected run id in report")
	}
	if view.Removed != 1 {
		t.Fatalf("expected 1 removed, got %d", view.Removed)
	}
	if view.BytesRemoved != 64 {
		t.Fatalf("expected 64 bytes removed, got %d", view.BytesRemoved)
	}
	if len(view.Artifacts) != 1 || view.Artifacts[0].Path != stateFile {
		t.Fatalf("unexpected artifacts in report: %+v", view.Artifacts)
	}
	if !view.Process.Skipped {
		t.Fatal("expected process stage to be skipped")
	}
}

func TestSweepSucceedsPastDeleteFailures(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, directory permissions are bypassed")
	}
	env := setupCLITestEnv(t)

	okFile := filepath.Join(env.cfg.Paths.BaseDir, "iox2_ok.shm_state")
	lockedFile := filepath.Join(env.cfg.Paths.ServicesDir, "iox2_locked.service")
	testsupport.WriteArtifact(t, okFile, 64)
	testsupport.WriteArtifact(t, lockedFile, 32)
	if err := os.Chmod(env.cfg.Paths.ServicesDir, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(env.cfg.Paths.ServicesDir, 0o755) })

	out, _, err := runCLI(t, []string{"sweep"}, env.configPath)
	if err != nil {
		t.Fatalf("individual delete failures must not fail the command: %v", err)
	}
	requireContains(t, out, "Removed 1 artifact")
	requireContains(t, out, "Warning: could not remove "+lockedFile)
}

func TestSweepFailsWhenLockHeld(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.MkdirAll(env.cfg.Paths.StateDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := flock.New(env.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	_, _, err = runCLI(t, []string{"sweep"}, env.configPath)
	if err == nil {
		t.Fatal("expected error while lock is held")
	}
	requireContains(t, err.Error(), "already in progress")
}

func TestSweepRecordsJournalRun(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteArtifact(t, filepath.Join(env.cfg.Paths.BaseDir, "iox2_rec.shm_state"), 64)
	if _, _, err := runCLI(t, []string{"sweep"}, env.configPath); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	store := testsupport.MustOpenJournal(t, env.cfg)
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Removed != 1 {
		t.Fatalf("expected 1 removal recorded, got %d", runs[0].Removed)
	}
}
