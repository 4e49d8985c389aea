package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"iox2sweep/internal/artifacts"
	"iox2sweep/internal/preflight"
	"iox2sweep/internal/procterm"
)

type statusDirView struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Missing bool   `json:"missing"`
	Detail  string `json:"detail"`
}

type statusProcessView struct {
	Name      string     `json:"name"`
	Running   bool       `json:"running"`
	Processes []procView `json:"processes,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type statusArtifactView struct {
	Path    string    `json:"path"`
	Kind    string    `json:"kind"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

type statusView struct {
	ConfigPath  string               `json:"config_path"`
	Directories []statusDirView      `json:"directories"`
	Process     statusProcessView    `json:"process"`
	Artifacts   []statusArtifactView `json:"artifacts"`
	TotalSize   int64                `json:"total_size"`
	ScanError   string               `json:"scan_error,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show directory, process, and artifact status without deleting anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			checks := preflight.RunAll(cfg)
			procs, procErr := procterm.Find(cmd.Context(), cfg.Process.Name)
			found, scanErr := artifacts.ScanAll(artifacts.Targets(cfg))

			if jsonOut {
				return writeJSON(cmd, buildStatusView(ctx, cfg.Process.Name, checks, procs, procErr, found, scanErr))
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, configStatusLine(ctx, colorize))
			for _, check := range checks {
				fmt.Fprintln(stdout, directoryStatusLine(check, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Process", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, processStatusLine(cfg.Process.Name, procs, procErr, colorize))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Stale Artifacts", colorize) {
				fmt.Fprintln(stdout, line)
			}
			switch {
			case scanErr != nil:
				fmt.Fprintln(stdout, renderStatusLine("Scan", statusError, scanErr.Error(), colorize))
			case len(found) == 0:
				fmt.Fprintln(stdout, "No artifacts present")
			default:
				table := renderTable(
					[]string{"Path", "Kind", "Size", "Modified"},
					buildArtifactRows(found),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				fmt.Fprintf(stdout, "Total: %s (%s)\n",
					countNoun(len(found), "artifact"),
					humanize.Bytes(uint64(artifacts.TotalSize(found))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit status as JSON")
	return cmd
}

func configStatusLine(ctx *commandContext, colorize bool) string {
	detail := ctx.configPath
	if !ctx.configExists {
		detail += " (not found, using defaults)"
	}
	return renderStatusLine("Config", statusInfo, detail, colorize)
}

func directoryStatusLine(check preflight.Result, colorize bool) string {
	switch {
	case check.Passed:
		return renderStatusLine(check.Name, statusOK, check.Detail, colorize)
	case check.Missing:
		return renderStatusLine(check.Name, statusInfo, check.Detail, colorize)
	default:
		return renderStatusLine(check.Name, statusError, check.Detail, colorize)
	}
}

func processStatusLine(name string, procs []procterm.Proc, procErr error, colorize bool) string {
	if procErr != nil {
		return renderStatusLine("Process", statusWarn, fmt.Sprintf("check failed: %v", procErr), colorize)
	}
	if len(procs) == 0 {
		return renderStatusLine("Process", statusOK, fmt.Sprintf("%s not running", name), colorize)
	}
	pids := make([]string, 0, len(procs))
	for _, proc := range procs {
		pids = append(pids, fmt.Sprintf("%d", proc.PID))
	}
	// A live middleware process means artifacts may still be in use.
	message := fmt.Sprintf("%s running (pid %s); a sweep would terminate it", name, strings.Join(pids, ", "))
	return renderStatusLine("Process", statusWarn, message, colorize)
}

func buildArtifactRows(found []artifacts.Artifact) [][]string {
	rows := make([][]string, 0, len(found))
	for _, artifact := range found {
		rows = append(rows, []string{
			artifact.Path,
			artifact.Kind.Label(),
			humanize.Bytes(uint64(artifact.Size)),
			formatTimestamp(artifact.ModTime),
		})
	}
	return rows
}

func buildStatusView(ctx *commandContext, processName string, checks []preflight.Result, procs []procterm.Proc, procErr error, found []artifacts.Artifact, scanErr error) statusView {
	view := statusView{
		ConfigPath:  ctx.configPath,
		Directories: make([]statusDirView, 0, len(checks)),
		Process: statusProcessView{
			Name:      processName,
			Running:   len(procs) > 0,
			Processes: buildProcViews(procs),
		},
		Artifacts: make([]statusArtifactView, 0, len(found)),
		TotalSize: artifacts.TotalSize(found),
	}
	for _, check := range checks {
		view.Directories = append(view.Directories, statusDirView{
			Name:    check.Name,
			Passed:  check.Passed,
			Missing: check.Missing,
			Detail:  check.Detail,
		})
	}
	if procErr != nil {
		view.Process.Error = procErr.Error()
	}
	for _, artifact := range found {
		view.Artifacts = append(view.Artifacts, statusArtifactView{
			Path:    artifact.Path,
			Kind:    string(artifact.Kind),
			Size:    artifact.Size,
			ModTime: artifact.ModTime.UTC(),
		})
	}
	if scanErr != nil {
		view.ScanError = scanErr.Error()
	}
	return view
}
