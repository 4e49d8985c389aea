package procterm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

const (
	pollInterval  = 100 * time.Millisecond
	killSettleMax = 500 * time.Millisecond
)

// Proc identifies a matched process.
type Proc struct {
	PID  int32
	Name string
}

// Result summarizes one termination pass.
type Result struct {
	// Matched lists every live process whose name matched the target.
	Matched []Proc
	// Forced lists processes that ignored the polite terminate and needed
	// a hard kill.
	Forced []Proc
	// Survivors lists processes still running after the full ladder.
	Survivors []Proc
}

// MatchesName reports whether a process name refers to the target binary.
// Comparison is case-insensitive and a trailing .exe on either side is
// ignored.
func MatchesName(procName, target string) bool {
	procName = normalizeName(procName)
	target = normalizeName(target)
	if procName == "" || target == "" {
		return false
	}
	return procName == target
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".exe")
}

// Find returns the live processes matching name, excluding the current
// process.
func Find(ctx context.Context, name string) ([]Proc, error) {
	matched, err := findHandles(ctx, name)
	if err != nil {
		return nil, err
	}
	return toProcs(ctx, matched), nil
}

// TerminateAll terminates every process matching name. Matches receive a
// polite terminate, get up to grace to exit, and are hard-killed after
// that. Individual failures never abort the pass.
func TerminateAll(ctx context.Context, name string, grace time.Duration) (Result, error) {
	matched, err := findHandles(ctx, name)
	if err != nil {
		return Result{}, err
	}
	result := Result{Matched: toProcs(ctx, matched)}
	if len(matched) == 0 {
		return result, nil
	}

	for _, p := range matched {
		_ = p.TerminateWithContext(ctx)
	}
	remaining := waitGone(ctx, matched, time.Now().Add(grace))
	if len(remaining) == 0 {
		return result, nil
	}

	result.Forced = toProcs(ctx, remaining)
	for _, p := range remaining {
		_ = p.KillWithContext(ctx)
	}
	survivors := waitGone(ctx, remaining, time.Now().Add(killSettleMax))
	result.Survivors = toProcs(ctx, survivors)
	return result, nil
}

func findHandles(ctx context.Context, name string) ([]*process.Process, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	self := int32(os.Getpid())
	var matched []*process.Process
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		procName, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if MatchesName(procName, name) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func waitGone(ctx context.Context, procs []*process.Process, deadline time.Time) []*process.Process {
	remaining := stillRunning(ctx, procs)
	for len(remaining) > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return remaining
		case <-time.After(pollInterval):
		}
		remaining = stillRunning(ctx, remaining)
	}
	return remaining
}

func stillRunning(ctx context.Context, procs []*process.Process) []*process.Process {
	var alive []*process.Process
	for _, p := range procs {
		running, err := p.IsRunningWithContext(ctx)
		if err != nil || !running {
			continue
		}
		alive = append(alive, p)
	}
	return alive
}

func toProcs(ctx context.Context, procs []*process.Process) []Proc {
	out := make([]Proc, 0, len(procs))
	for _, p := range procs {
		name, _ := p.NameWithContext(ctx)
		out = append(out, Proc{PID: p.Pid, Name: name})
	}
	return out
}
