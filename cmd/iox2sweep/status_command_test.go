package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"iox2sweep/internal/testsupport"
)

func TestStatusListsArtifacts(t *testing.T) {
	env := setupCLITestEnv(t)

	stateFile := filepath.Join(env.cfg.Paths.BaseDir, "iox2_st.shm_state")
	testsupport.WriteArtifact(t, stateFile, 64)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Directories ==")
	requireContains(t, out, "== Process ==")
	requireContains(t, out, "== Stale Artifacts ==")
	requireContains(t, out, "iox2_st.shm_state")
	requireContains(t, out, "Shm State")
	requireContains(t, out, "Total: 1 artifact")

	if _, err := os.Stat(stateFile); err != nil {
		t.Fatalf("status must not delete anything: %v", err)
	}
}

func TestStatusWithNothingPresent(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No artifacts present")
	requireContains(t, out, "not running")
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteArtifact(t, filepath.Join(env.cfg.Paths.BaseDir, "iox2_js.shm_state"), 64)
	testsupport.WriteArtifact(t, filepath.Join(env.cfg.Paths.ServicesDir, "iox2_js.service"), 32)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}

	var view statusView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode status: %v\noutput: %s", err, out)
	}
	if view.ConfigPath != env.configPath {
		t.Fatalf("expected config path %s, got %s", env.configPath, view.ConfigPath)
	}
	if len(view.Directories) != 3 {
		t.Fatalf("expected 3 directory checks, got %d", len(view.Directories))
	}
	if view.Process.Name != env.cfg.Process.Name {
		t.Fatalf("unexpected process name %q", view.Process.Name)
	}
	if len(view.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(view.Artifacts))
	}
	if view.TotalSize != 96 {
		t.Fatalf("expected total size 96, got %d", view.TotalSize)
	}
}
