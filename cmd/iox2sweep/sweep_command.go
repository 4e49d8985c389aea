package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"iox2sweep/internal/config"
	"iox2sweep/internal/journal"
	"iox2sweep/internal/logging"
	"iox2sweep/internal/sweep"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var skipProcess bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Terminate the middleware process and remove stale artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var recorder sweep.Recorder
			if cfg.Journal.Enabled {
				store, err := journal.Open(cfg)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: sweep journal unavailable: %v\n", err)
				} else {
					defer store.Close()
					recorder = store
				}
			}

			sweeper := sweep.New(cfg, recorder, logger)
			report, runErr := sweeper.Run(signalCtx, sweep.Options{
				DryRun:      dryRun,
				SkipProcess: skipProcess,
			})
			if report == nil {
				return runErr
			}

			if jsonOut {
				if err := writeJSON(cmd, buildSweepReportView(report)); err != nil {
					return err
				}
			} else {
				printSweepReport(cmd.OutOrStdout(), cfg, report)
			}

			// Individual delete failures are reported above but do not fail
			// the command; an interrupted run still exits non-zero.
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without deleting anything")
	cmd.Flags().BoolVar(&skipProcess, "skip-process", false, "Leave the middleware process alone")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the sweep report as JSON")
	return cmd
}

func printSweepReport(out io.Writer, cfg *config.Config, report *sweep.Report) {
	if report.DryRun {
		fmt.Fprintln(out, "Dry run: nothing will be deleted")
	}
	printProcessSummary(out, cfg, report)

	switch {
	case report.DryRun && report.Planned() == 0:
		fmt.Fprintln(out, "No stale artifacts found")
	case report.DryRun:
		fmt.Fprintf(out, "Would remove %s (%s):\n",
			countNoun(report.Planned(), "artifact"),
			humanize.Bytes(uint64(report.BytesRemoved())))
		for _, outcome := range report.Outcomes {
			if outcome.Status == sweep.OutcomePlanned {
				fmt.Fprintf(out, "  %s\n", outcome.Artifact.Path)
			}
		}
	case report.Removed() == 0 && report.Failed() == 0:
		fmt.Fprintln(out, "No stale artifacts found")
	default:
		fmt.Fprintf(out, "Removed %s (%s reclaimed)\n",
			countNoun(report.Removed(), "artifact"),
			humanize.Bytes(uint64(report.BytesRemoved())))
	}

	for _, outcome := range report.Outcomes {
		switch outcome.Status {
		case sweep.OutcomeFailed:
			fmt.Fprintf(out, "Warning: could not remove %s: %s\n", outcome.Artifact.Path, outcome.Detail)
		case sweep.OutcomeSkipped:
			fmt.Fprintf(out, "Skipped %s: %s\n", outcome.Artifact.Path, outcome.Detail)
		}
	}

	fmt.Fprintf(out, "Run %s finished in %s\n", shortRunID(report.RunID), report.Duration().Round(time.Millisecond))
}

func printProcessSummary(out io.Writer, cfg *config.Config, report *sweep.Report) {
	matched := len(report.Process.Matched)
	switch {
	case report.ProcessSkipped:
		fmt.Fprintln(out, "Process check skipped")
	case matched == 0:
		fmt.Fprintf(out, "%s not running\n", cfg.Process.Name)
	case report.DryRun:
		fmt.Fprintf(out, "Would terminate %s (%s)\n", countNoun(matched, "process"), cfg.Process.Name)
	default:
		fmt.Fprintf(out, "Terminated %s (%s)\n", countNoun(matched, "process"), cfg.Process.Name)
		if forced := len(report.Process.Forced); forced > 0 {
			fmt.Fprintf(out, "  %s needed a hard kill\n", countNoun(forced, "process"))
		}
		for _, proc := range report.Process.Survivors {
			fmt.Fprintf(out, "Warning: pid %d is still running\n", proc.PID)
		}
	}
}
