package resultstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ggnmatch/internal/matching"
)

const runColumns = "id, source, started_at, finished_at, processed, skipped, transport_failed, high_confidence, preferred_platform, no_match, waited_ms"

const resultColumns = "id, run_id, catalog_row, game, external_id, query, kind, group_id, platform, reason, group_url, created_at"

type scanner interface{ Scan(dest ...any) error }

func scanRun(row scanner) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		waitedMS    int64
	)
	if err := row.Scan(
		&run.ID,
		&run.Source,
		&startedRaw,
		&finishedRaw,
		&run.Processed,
		&run.Skipped,
		&run.TransportFailed,
		&run.HighConfidence,
		&run.PreferredPlatform,
		&run.NoMatch,
		&waitedMS,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Waited = time.Duration(waitedMS) * time.Millisecond
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func scanResult(row scanner) (StoredResult, error) {
	var (
		result     StoredResult
		kind       string
		query      sql.NullString
		groupID    sql.NullString
		platform   sql.NullString
		reason     sql.NullString
		groupURL   sql.NullString
		createdRaw string
	)
	if err := row.Scan(
		&result.ID,
		&result.RunID,
		&result.Entry.Row,
		&result.Entry.Name,
		&result.Entry.ExternalID,
		&query,
		&kind,
		&groupID,
		&platform,
		&reason,
		&groupURL,
		&createdRaw,
	); err != nil {
		return StoredResult{}, fmt.Errorf("scan result: %w", err)
	}
	result.Query = query.String
	result.GroupURL = groupURL.String
	result.Outcome = matching.Outcome{
		Kind:     matching.Kind(kind),
		GroupID:  groupID.String,
		Platform: platform.String,
		Reason:   reason.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		result.CreatedAt = created
	}
	return result, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
