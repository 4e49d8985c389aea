package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"iox2sweep/internal/artifacts"
	"iox2sweep/internal/config"
	"iox2sweep/internal/fileutil"
	"iox2sweep/internal/journal"
	"iox2sweep/internal/logging"
	"iox2sweep/internal/procterm"
)

// ErrSweepInProgress indicates another sweep holds the lock.
var ErrSweepInProgress = errors.New("another sweep is already in progress")

// Terminator locates and stops processes by name.
type Terminator interface {
	Find(ctx context.Context, name string) ([]procterm.Proc, error)
	TerminateAll(ctx context.Context, name string, grace time.Duration) (procterm.Result, error)
}

// Recorder persists run history. *journal.Store satisfies it; nil disables
// recording.
type Recorder interface {
	RecordRun(ctx context.Context, run journal.Run) error
}

// Options control a single run.
type Options struct {
	DryRun      bool
	SkipProcess bool
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithTerminator overrides the process terminator (primarily for tests).
func WithTerminator(t Terminator) Option {
	return func(s *Sweeper) {
		if t != nil {
			s.terminator = t
		}
	}
}

// Sweeper executes cleanup passes over the configured directories.
type Sweeper struct {
	cfg        *config.Config
	logger     *slog.Logger
	recorder   Recorder
	terminator Terminator
}

// New constructs a Sweeper bound to the supplied configuration.
func New(cfg *config.Config, recorder Recorder, logger *slog.Logger, opts ...Option) *Sweeper {
	sweepLogger := logger
	if sweepLogger == nil {
		sweepLogger = logging.NewNop()
	}
	s := &Sweeper{
		cfg:        cfg,
		logger:     logging.WithComponent(sweepLogger, "sweep"),
		recorder:   recorder,
		terminator: systemTerminator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one sweep pass. When the context is canceled mid-run the
// remaining artifacts are marked skipped, the partial result is still
// journaled, and the context error is returned alongside the report.
func (s *Sweeper) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := s.cfg.EnsureStateDir(); err != nil {
		return nil, err
	}
	lock := flock.New(s.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !locked {
		return nil, ErrSweepInProgress
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logging.WarnWithContext(s.logger, "failed to release sweep lock", "lock_release_failed",
				logging.String("path", s.cfg.LockPath()),
				logging.Error(unlockErr),
				logging.String(logging.FieldImpact, "next sweep may fail to acquire the lock"),
			)
		}
	}()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}
	logger := s.logger.With(logging.String(logging.FieldRunID, report.RunID))
	logger.Info("sweep started",
		logging.Bool("dry_run", opts.DryRun),
		logging.String("base_dir", s.cfg.Paths.BaseDir),
		logging.String("services_dir", s.cfg.Paths.ServicesDir),
		logging.String(logging.FieldEventType, "sweep_started"),
	)

	s.handleProcess(ctx, logger, report, opts)

	found, err := artifacts.ScanAll(artifacts.Targets(s.cfg))
	if err != nil {
		return nil, err
	}

	s.removeArtifacts(ctx, logger, report, found, opts)

	report.FinishedAt = time.Now()
	logger.Info("sweep finished",
		logging.Int("removed", report.Removed()),
		logging.Int("planned", report.Planned()),
		logging.Int("failed", report.Failed()),
		logging.Int("skipped", report.Skipped()),
		logging.Int64("bytes_removed", report.BytesRemoved()),
		logging.Duration("duration", report.Duration()),
		logging.String(logging.FieldEventType, "sweep_finished"),
	)

	s.record(ctx, logger, report)
	return report, ctx.Err()
}

func (s *Sweeper) handleProcess(ctx context.Context, logger *slog.Logger, report *Report, opts Options) {
	if opts.SkipProcess || !s.cfg.Process.Terminate {
		report.ProcessSkipped = true
		reason := "terminate disabled in config"
		if opts.SkipProcess {
			reason = "skip requested"
		}
		logger.Debug("process termination skipped", logging.String("reason", reason))
		return
	}

	name := s.cfg.Process.Name
	if opts.DryRun {
		procs, err := s.terminator.Find(ctx, name)
		if err != nil {
			logging.WarnWithContext(logger, "process lookup failed; continuing", "process_lookup_failed",
				logging.String("process", name),
				logging.Error(err),
				logging.String(logging.FieldImpact, "report may undercount running processes"),
			)
			return
		}
		report.Process = procterm.Result{Matched: procs}
		for _, proc := range procs {
			logger.Info("would terminate process",
				logging.String("process", proc.Name),
				logging.Int("pid", int(proc.PID)),
			)
		}
		return
	}

	grace := time.Duration(s.cfg.Process.GracePeriodSeconds) * time.Second
	result, err := s.terminator.TerminateAll(ctx, name, grace)
	if err != nil {
		logging.WarnWithContext(logger, "process termination failed; sweeping anyway", "process_terminate_failed",
			logging.String("process", name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "stop the process manually and re-run"),
			logging.String(logging.FieldImpact, "a live process may recreate artifacts after the sweep"),
		)
		return
	}
	report.Process = result
	if len(result.Matched) == 0 {
		logger.Debug("process not running", logging.String("process", name))
		return
	}
	logger.Info("processes terminated",
		logging.String("process", name),
		logging.Int("matched", len(result.Matched)),
		logging.Int("forced", len(result.Forced)),
		logging.String(logging.FieldEventType, "process_terminated"),
	)
	if len(result.Survivors) > 0 {
		logging.WarnWithContext(logger, "processes survived hard kill", "process_survived",
			logging.String("process", name),
			logging.Int("survivors", len(result.Survivors)),
			logging.String(logging.FieldErrorHint, "inspect the survivors with iox2sweep status"),
			logging.String(logging.FieldImpact, "a live process may recreate artifacts after the sweep"),
		)
	}
}

func (s *Sweeper) removeArtifacts(ctx context.Context, logger *slog.Logger, report *Report, found []artifacts.Artifact, opts Options) {
	minAge := time.Duration(s.cfg.Sweep.MinAgeSeconds) * time.Second
	cutoff := time.Now().Add(-minAge)

	for _, artifact := range found {
		if ctx.Err() != nil {
			report.Outcomes = append(report.Outcomes, Outcome{
				Artifact: artifact,
				Status:   OutcomeSkipped,
				Detail:   "sweep interrupted",
			})
			continue
		}
		if minAge > 0 && artifact.ModTime.After(cutoff) {
			report.Outcomes = append(report.Outcomes, Outcome{
				Artifact: artifact,
				Status:   OutcomeSkipped,
				Detail:   "modified too recently",
			})
			logger.Debug("artifact skipped",
				logging.String("path", artifact.Path),
				logging.Duration("min_age", minAge),
			)
			continue
		}
		if opts.DryRun {
			report.Outcomes = append(report.Outcomes, Outcome{Artifact: artifact, Status: OutcomePlanned})
			logger.Info("would remove artifact",
				logging.String("path", artifact.Path),
				logging.String("kind", string(artifact.Kind)),
			)
			continue
		}
		if err := fileutil.ForceRemove(artifact.Path); err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{
				Artifact: artifact,
				Status:   OutcomeFailed,
				Detail:   err.Error(),
			})
			logging.ErrorWithContext(logger, "artifact removal failed; continuing", "artifact_remove_failed",
				logging.String("path", artifact.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check file and directory permissions"),
				logging.String(logging.FieldImpact, "stale artifact remains on disk"),
			)
			continue
		}
		report.Outcomes = append(report.Outcomes, Outcome{Artifact: artifact, Status: OutcomeRemoved})
		logger.Info("artifact removed",
			logging.String("path", artifact.Path),
			logging.String("kind", string(artifact.Kind)),
			logging.Int64("size", artifact.Size),
			logging.String(logging.FieldEventType, "artifact_removed"),
		)
	}
}

func (s *Sweeper) record(ctx context.Context, logger *slog.Logger, report *Report) {
	if s.recorder == nil {
		return
	}
	// Interrupted runs are journaled too, so the write must not inherit
	// a canceled context.
	recordCtx := context.WithoutCancel(ctx)
	if err := s.recorder.RecordRun(recordCtx, report.JournalRun()); err != nil {
		logging.WarnWithContext(logger, "journal write failed; run not recorded", "journal_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check journal path and permissions"),
			logging.String(logging.FieldImpact, "run will be missing from history output"),
		)
	}
}

// systemTerminator adapts package procterm to the Terminator interface.
type systemTerminator struct{}

func (systemTerminator) Find(ctx context.Context, name string) ([]procterm.Proc, error) {
	return procterm.Find(ctx, name)
}

func (systemTerminator) TerminateAll(ctx context.Context, name string, grace time.Duration) (procterm.Result, error) {
	return procterm.TerminateAll(ctx, name, grace)
}
