package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats returns aggregate counts for status output.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(1) FROM theatres`, &stats.Theatres},
		{`SELECT COUNT(1) FROM movies`, &stats.Movies},
		{`SELECT COUNT(1) FROM showtimes`, &stats.Showtimes},
		{`SELECT COUNT(1) FROM showtimes WHERE notified = 1`, &stats.NotifiedShowtimes},
		{`SELECT COUNT(1) FROM watchlist`, &stats.WatchlistEntries},
	}
	for _, count := range counts {
		if err := s.db.QueryRowContext(ctx, count.query).Scan(count.dest); err != nil {
			return Stats{}, fmt.Errorf("store stats: %w", err)
		}
	}

	cursor, err := s.CommandCursor(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.CommandCursor = cursor

	var lastCheckedRaw sql.NullString
	row := s.db.QueryRowContext(ctx, `SELECT MAX(last_checked_at) FROM movies`)
	if err := row.Scan(&lastCheckedRaw); err != nil {
		return Stats{}, fmt.Errorf("store stats: %w", err)
	}
	if lastCheckedRaw.Valid {
		if checked, err := parseTimeString(lastCheckedRaw.String); err == nil {
			stats.LastMovieCheckedAt = checked
		}
	}
	return stats, nil
}
