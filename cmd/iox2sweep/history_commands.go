package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"iox2sweep/internal/artifacts"
	"iox2sweep/internal/journal"
)

type removalView struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type runView struct {
	ID                string        `json:"id"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        time.Time     `json:"finished_at"`
	DurationMS        int64         `json:"duration_ms"`
	DryRun            bool          `json:"dry_run"`
	ProcessesMatched  int           `json:"processes_matched"`
	ProcessesForced   int           `json:"processes_forced"`
	ProcessesSurvived int           `json:"processes_survived"`
	Removed           int           `json:"removed"`
	Failed            int           `json:"failed"`
	Skipped           int           `json:"skipped"`
	BytesRemoved      int64         `json:"bytes_removed"`
	Removals          []removalView `json:"removals,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sweep runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openJournal(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, buildRunView(run))
				}
				return writeJSON(cmd, views)
			}

			stdout := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(stdout, "No sweep runs recorded yet")
				return nil
			}
			table := renderTable(
				[]string{"Run", "When", "Mode", "Removed", "Failed", "Skipped", "Reclaimed"},
				buildHistoryRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			)
			fmt.Fprintln(stdout, table)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit history as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run and its removals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openJournal(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id := strings.TrimSpace(args[0])
			run, err := store.GetRun(cmd.Context(), id)
			if errors.Is(err, journal.ErrAmbiguousRun) {
				return fmt.Errorf("run id %q matches more than one run, add more characters", id)
			}
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no run found matching %q", id)
			}

			if jsonOut {
				return writeJSON(cmd, buildRunView(*run))
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Run:       %s\n", run.ID)
			fmt.Fprintf(stdout, "Started:   %s\n", formatTimestamp(run.StartedAt))
			fmt.Fprintf(stdout, "Duration:  %s\n", run.Duration().Round(time.Millisecond))
			fmt.Fprintf(stdout, "Dry run:   %s\n", yesNo(run.DryRun))
			fmt.Fprintf(stdout, "Processes: %d matched, %d forced, %d survived\n",
				run.ProcessesMatched, run.ProcessesForced, run.ProcessesSurvived)
			fmt.Fprintf(stdout, "Artifacts: %d removed, %d failed, %d skipped (%s)\n",
				run.Removed, run.Failed, run.Skipped, humanize.Bytes(uint64(run.BytesRemoved)))

			if len(run.Removals) == 0 {
				fmt.Fprintln(stdout, "No artifacts were touched")
				return nil
			}
			fmt.Fprintln(stdout)
			table := renderTable(
				[]string{"Status", "Kind", "Size", "Path", "Detail"},
				buildRemovalRows(run.Removals),
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			)
			fmt.Fprintln(stdout, table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run as JSON")
	return cmd
}

func openJournal(ctx *commandContext) (*journal.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Journal.Enabled {
		return nil, errors.New("the sweep journal is disabled in configuration")
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}

func buildHistoryRows(runs []journal.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := "sweep"
		if run.DryRun {
			mode = "dry run"
		}
		rows = append(rows, []string{
			shortRunID(run.ID),
			humanize.Time(run.StartedAt),
			mode,
			fmt.Sprintf("%d", run.Removed),
			fmt.Sprintf("%d", run.Failed),
			fmt.Sprintf("%d", run.Skipped),
			humanize.Bytes(uint64(run.BytesRemoved)),
		})
	}
	return rows
}

func buildRemovalRows(removals []journal.Removal) [][]string {
	rows := make([][]string, 0, len(removals))
	for _, removal := range removals {
		rows = append(rows, []string{
			removal.Status,
			artifacts.Kind(removal.Kind).Label(),
			humanize.Bytes(uint64(removal.Size)),
			removal.Path,
			removal.Detail,
		})
	}
	return rows
}

func buildRunView(run journal.Run) runView {
	view := runView{
		ID:                run.ID,
		StartedAt:         run.StartedAt.UTC(),
		FinishedAt:        run.FinishedAt.UTC(),
		DurationMS:        run.Duration().Milliseconds(),
		DryRun:            run.DryRun,
		ProcessesMatched:  run.ProcessesMatched,
		ProcessesForced:   run.ProcessesForced,
		ProcessesSurvived: run.ProcessesSurvived,
		Removed:           run.Removed,
		Failed:            run.Failed,
		Skipped:           run.Skipped,
		BytesRemoved:      run.BytesRemoved,
	}
	for _, removal := range run.Removals {
		view.Removals = append(view.Removals, removalView{
			Path:   removal.Path,
			Kind:   removal.Kind,
			Size:   removal.Size,
			Status: removal.Status,
			Detail: removal.Detail,
		})
	}
	return view
}
