package main

import (
	"time"

	"iox2sweep/internal/procterm"
	"iox2sweep/internal/sweep"
)

type procView struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
}

type processView struct {
	Skipped   bool       `json:"skipped"`
	Matched   []procView `json:"matched"`
	Forced    []procView `json:"forced,omitempty"`
	Survivors []procView `json:"survivors,omitempty"`
}

type outcomeView struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type sweepReportView struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	DurationMS   int64         `json:"duration_ms"`
	DryRun       bool          `json:"dry_run"`
	Process      processView   `json:"process"`
	Artifacts    []outcomeView `json:"artifacts"`
	Removed      int           `json:"removed"`
	Planned      int           `json:"planned"`
	Failed       int           `json:"failed"`
	Skipped      int           `json:"skipped"`
	BytesRemoved int64         `json:"bytes_removed"`
}

func buildSweepReportView(report *sweep.Report) sweepReportView {
	view := sweepReportView{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt.UTC(),
		FinishedAt: report.FinishedAt.UTC(),
		DurationMS: report.Duration().Milliseconds(),
		DryRun:     report.DryRun,
		Process: processView{
			Skipped:   report.ProcessSkipped,
			Matched:   buildProcViews(report.Process.Matched),
			Forced:    buildProcViews(report.Process.Forced),
			Survivors: buildProcViews(report.Process.Survivors),
		},
		Artifacts:    make([]outcomeView, 0, len(report.Outcomes)),
		Removed:      report.Removed(),
		Planned:      report.Planned(),
		Failed:       report.Failed(),
		Skipped:      report.Skipped(),
		BytesRemoved: report.BytesRemoved(),
	}
	for _, outcome := range report.Outcomes {
		view.Artifacts = append(view.Artifacts, outcomeView{
			Path:   outcome.Artifact.Path,
			Kind:   string(outcome.Artifact.Kind),
			Size:   outcome.Artifact.Size,
			Status: string(outcome.Status),
			Detail: outcome.Detail,
		})
	}
	return view
}

func buildProcViews(procs []procterm.Proc) []procView {
	views := make([]procView, 0, len(procs))
	for _, proc := range procs {
		views = append(views, procView{PID: proc.PID, Name: proc.Name})
	}
	return views
}
