package journal

import "time"

// Removal statuses recorded per artifact.
const (
	RemovalRemoved = "removed"
	RemovalFailed  = "failed"
	RemovalSkipped = "skipped"
	RemovalPlanned = "planned"
)

// Run is one recorded sweep.
type Run struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	DryRun            bool
	ProcessesMatched  int
	ProcessesForced   int
	ProcessesSurvived int
	Removed           int
	Failed            int
	Skipped           int
	BytesRemoved      int64

	// Removals is populated by GetRun only; ListRuns leaves it nil.
	Removals []Removal
}

// Removal captures the outcome for a single artifact within a run.
type Removal struct {
	Path   string
	Kind   string
	Size   int64
	Status string
	Detail string
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
