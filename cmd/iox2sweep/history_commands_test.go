package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"iox2sweep/internal/testsupport"
)

func TestHistoryListsRecordedRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteArtifact(t, filepath.Join(env.cfg.Paths.BaseDir, "iox2_h1.shm_state"), 64)
	if _, _, err := runCLI(t, []string{"sweep"}, env.configPath); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if _, _, err := runCLI(t, []string{"sweep", "--dry-run"}, env.configPath); err != nil {
		t.Fatalf("dry-run sweep: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "sweep")
	requireContains(t, out, "dry run")
}

func TestHistoryShowByPrefix(t *testing.T) {
	env := setupCLITestEnv(t)

	stateFile := filepath.Join(env.cfg.Paths.BaseDir, "iox2_h2.shm_state")
	testsupport.WriteArtifact(t, stateFile, 64)
	if _, _, err := runCLI(t, []string{"sweep"}, env.configPath); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var views []runView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode history: %v\noutput: %s", err, out)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 run, got %d", len(views))
	}

	out, _, err = runCLI(t, []string{"history", "show", views[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, views[0].ID)
	requireContains(t, out, stateFile)
	requireContains(t, out, "removed")
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No sweep runs recorded yet")
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history", "show", "ffffffff"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown run id")
	}
	requireContains(t, err.Error(), "no run found")
}

func TestHistoryRequiresJournal(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithJournalDisabled())

	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when journal is disabled")
	}
	requireContains(t, err.Error(), "disabled")
}
