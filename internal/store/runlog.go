package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AppendRunLog records one diagnostic entry for a run. The run log is
// append-only observability data; no core decision reads it.
func (s *Store) AppendRunLog(ctx context.Context, entry RunLogEntry) error {
	loggedAt := entry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_log (run_id, logged_at, level, message, movie, theatre)
         VALUES (?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		formatTime(loggedAt),
		entry.Level,
		entry.Message,
		nullableString(entry.Movie),
		nullableString(entry.Theatre),
	)
	if err != nil {
		return fmt.Errorf("append run log: %w", err)
	}
	return nil
}

// RecentRunLogs returns the newest run-log entries, optionally filtered to a
// single run, newest first.
func (s *Store) RecentRunLogs(ctx context.Context, runID string, limit int) ([]RunLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows *sql.Rows
		err  error
	)
	if runID == "" {
		rows, err = s.db.QueryContext(
			ctx,
			`SELECT id, run_id, logged_at, level, message, movie, theatre
             FROM run_log ORDER BY id DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.QueryContext(
			ctx,
			`SELECT id, run_id, logged_at, level, message, movie, theatre
             FROM run_log WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
			runID,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("query run log: %w", err)
	}
	defer rows.Close()

	var entries []RunLogEntry
	for rows.Next() {
		var (
			entry     RunLogEntry
			loggedRaw string
			movie     sql.NullString
			theatre   sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &loggedRaw, &entry.Level, &entry.Message, &movie, &theatre); err != nil {
			return nil, fmt.Errorf("scan run log entry: %w", err)
		}
		if logged, err := parseTimeString(loggedRaw); err == nil {
			entry.LoggedAt = logged
		}
		entry.Movie = movie.String
		entry.Theatre = theatre.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
