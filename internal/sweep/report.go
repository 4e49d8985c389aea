package sweep

import (
	"time"

	"iox2sweep/internal/artifacts"
	"iox2sweep/internal/journal"
	"iox2sweep/internal/procterm"
)

// OutcomeStatus classifies what happened to one artifact.
type OutcomeStatus string

const (
	// OutcomeRemoved means the artifact is gone, whether this run deleted
	// it or it vanished underneath us.
	OutcomeRemoved OutcomeStatus = "removed"
	// OutcomeFailed means deletion was attempted and failed.
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeSkipped means the artifact was deliberately left in place.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomePlanned means a dry run would have removed the artifact.
	OutcomePlanned OutcomeStatus = "planned"
)

// Outcome records the result for a single artifact.
type Outcome struct {
	Artifact artifacts.Artifact
	Status   OutcomeStatus
	Detail   string
}

// Report summarizes one sweep run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	// ProcessSkipped is set when termination was disabled by config or
	// the --skip-process flag.
	ProcessSkipped bool
	Process        procterm.Result

	Outcomes []Outcome
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) countStatus(status OutcomeStatus) int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			count++
		}
	}
	return count
}

// Removed counts artifacts that are gone.
func (r *Report) Removed() int { return r.countStatus(OutcomeRemoved) }

// Failed counts artifacts whose deletion failed.
func (r *Report) Failed() int { return r.countStatus(OutcomeFailed) }

// Skipped counts artifacts deliberately left in place.
func (r *Report) Skipped() int { return r.countStatus(OutcomeSkipped) }

// Planned counts artifacts a dry run would have removed.
func (r *Report) Planned() int { return r.countStatus(OutcomePlanned) }

// BytesRemoved sums the sizes of removed artifacts. For dry runs it sums
// the planned removals instead.
func (r *Report) BytesRemoved() int64 {
	target := OutcomeRemoved
	if r.DryRun {
		target = OutcomePlanned
	}
	var total int64
	for _, outcome := range r.Outcomes {
		if outcome.Status == target {
			total += outcome.Artifact.Size
		}
	}
	return total
}

// JournalRun converts the report into its journal row form.
func (r *Report) JournalRun() journal.Run {
	run := journal.Run{
		ID:                r.RunID,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		DryRun:            r.DryRun,
		ProcessesMatched:  len(r.Process.Matched),
		ProcessesForced:   len(r.Process.Forced),
		ProcessesSurvived: len(r.Process.Survivors),
		Removed:           r.Removed(),
		Failed:            r.Failed(),
		Skipped:           r.Skipped(),
		BytesRemoved:      r.BytesRemoved(),
	}
	if r.DryRun {
		run.Removed = r.Planned()
	}
	run.Removals = make([]journal.Removal, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		run.Removals = append(run.Removals, journal.Removal{
			Path:   outcome.Artifact.Path,
			Kind:   string(outcome.Artifact.Kind),
			Size:   outcome.Artifact.Size,
			Status: journalStatus(outcome.Status),
			Detail: outcome.Detail,
		})
	}
	return run
}

func journalStatus(status OutcomeStatus) string {
	switch status {
	case OutcomeRemoved:
		return journal.RemovalRemoved
	case OutcomeFailed:
		return journal.RemovalFailed
	case OutcomePlanned:
		return journal.RemovalPlanned
	default:
		return journal.RemovalSkipped
	}
}
