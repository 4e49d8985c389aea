package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"iox2sweep/internal/config"
)

// ErrAmbiguousRun indicates a run id prefix matched more than one run.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// Store manages sweep history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at the configured
// path and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	return OpenPath(cfg.Journal.Path)
}

// OpenPath initializes or connects to a journal database at an explicit path.
func OpenPath(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the journal database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// RecordRun persists a run and its removals in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO sweep_runs (
            id, started_at, finished_at, dry_run,
            processes_matched, processes_forced, processes_survived,
            removed, failed, skipped, bytes_removed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(run.DryRun),
		run.ProcessesMatched,
		run.ProcessesForced,
		run.ProcessesSurvived,
		run.Removed,
		run.Failed,
		run.Skipped,
		run.BytesRemoved,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, removal := range run.Removals {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO sweep_removals (run_id, path, kind, size, status, detail)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			removal.Path,
			removal.Kind,
			removal.Size,
			removal.Status,
			nullableString(removal.Detail),
		)
		if err != nil {
			return fmt.Errorf("insert removal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, dry_run,
    processes_matched, processes_forced, processes_survived,
    removed, failed, skipped, bytes_removed`

// ListRuns returns the most recent runs, newest first. A limit of 0 or
// less returns every run. Removals are not loaded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM sweep_runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one run with its removals. The id may be a unique prefix
// of the full run id. Returns nil when no run matches.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("run id is empty")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM sweep_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		run, err = s.findByPrefix(ctx, id)
		if err != nil || run.ID == "" {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	removals, err := s.loadRemovals(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Removals = removals
	return &run, nil
}

func (s *Store) findByPrefix(ctx context.Context, prefix string) (Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM sweep_runs WHERE id LIKE ? || '%' LIMIT 2`,
		prefix,
	)
	if err != nil {
		return Run{}, fmt.Errorf("find run by prefix: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate prefix matches: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, nil
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %q", ErrAmbiguousRun, prefix)
	}
}

func (s *Store) loadRemovals(ctx context.Context, runID string) ([]Removal, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT path, kind, size, status, detail FROM sweep_removals WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load removals: %w", err)
	}
	defer rows.Close()

	var removals []Removal
	for rows.Next() {
		var removal Removal
		var detail sql.NullString
		if err := rows.Scan(&removal.Path, &removal.Kind, &removal.Size, &removal.Status, &detail); err != nil {
			return nil, fmt.Errorf("scan removal: %w", err)
		}
		removal.Detail = detail.String
		removals = append(removals, removal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate removals: %w", err)
	}
	return removals, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var startedAt, finishedAt string
	var dryRun int
	err := row.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&dryRun,
		&run.ProcessesMatched,
		&run.ProcessesForced,
		&run.ProcessesSurvived,
		&run.Removed,
		&run.Failed,
		&run.Skipped,
		&run.BytesRemoved,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	return run, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
