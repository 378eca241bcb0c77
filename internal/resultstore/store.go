package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ggnmatch/internal/matching"
)

// ErrNoActiveRun is returned by Write and FinishRun before BeginRun.
var ErrNoActiveRun = errors.New("no active run")

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string

	mu    sync.Mutex
	runID string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure results dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

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

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun starts a new run for the catalog at source and makes it the
// target of subsequent writes.
func (s *Store) BeginRun(ctx context.Context, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		id, source, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	s.mu.Lock()
	s.runID = id
	s.mu.Unlock()
	return id, nil
}

// ActiveRun returns the id of the run receiving writes, if any.
func (s *Store) ActiveRun() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Write stores one result under the active run. It satisfies matching.Sink.
func (s *Store) Write(ctx context.Context, result matching.Result) error {
	runID := s.ActiveRun()
	if runID == "" {
		return ErrNoActiveRun
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (
            run_id, catalog_row, game, external_id, query, kind,
            group_id, platform, reason, group_url, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		result.Entry.Row,
		result.Entry.Name,
		result.Entry.ExternalID,
		nullableString(result.Query),
		string(result.Outcome.Kind),
		nullableString(result.Outcome.GroupID),
		nullableString(result.Outcome.Platform),
		nullableString(result.Outcome.Reason),
		nullableString(result.GroupURL),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// FinishRun records the summary of the active run and detaches it.
func (s *Store) FinishRun(ctx context.Context, summary matching.Summary) error {
	runID := s.ActiveRun()
	if runID == "" {
		return ErrNoActiveRun
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET finished_at = ?, processed = ?, skipped = ?, transport_failed = ?,
             high_confidence = ?, preferred_platform = ?, no_match = ?, waited_ms = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.Processed,
		summary.Skipped,
		summary.TransportFailed,
		summary.ByKind[matching.KindHighConfidence],
		summary.ByKind[matching.KindPreferredPlatform],
		summary.ByKind[matching.KindNoMatch],
		summary.Waited.Milliseconds(),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	s.mu.Lock()
	s.runID = ""
	s.mu.Unlock()
	return nil
}

// Runs returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY rowid DESC`
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

// GetRun fetches a run by id. It returns nil when no such run exists.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Results returns the results of a run in the order they were written.
func (s *Store) Results(ctx context.Context, runID string) ([]StoredResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
