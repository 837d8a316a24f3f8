package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AddWatchlistEntry adds a movie name to the watchlist. Returns false without
// error when the name is already present; membership is case-insensitive.
func (s *Store) AddWatchlistEntry(ctx context.Context, movieName string) (bool, error) {
	movieName = strings.TrimSpace(movieName)
	if movieName == "" {
		return false, errors.New("movie name is required")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO watchlist (movie_name, added_at) VALUES (?, ?)`,
		movieName,
		formatTime(time.Now()),
	)
	if err != nil {
		return false, fmt.Errorf("add watchlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RemoveWatchlistEntry removes a movie name from the watchlist. Returns false
// without error when the name was not present; matching is case-insensitive.
func (s *Store) RemoveWatchlistEntry(ctx context.Context, movieName string) (bool, error) {
	movieName = strings.TrimSpace(movieName)
	if movieName == "" {
		return false, errors.New("movie name is required")
	}

	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM watchlist WHERE movie_name = ? COLLATE NOCASE`,
		movieName,
	)
	if err != nil {
		return false, fmt.Errorf("remove watchlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Watchlist returns tracked movie names in insertion order.
func (s *Store) Watchlist(ctx context.Context) ([]WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie_name, added_at FROM watchlist ORDER BY added_at, movie_name`)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []WatchlistEntry
	for rows.Next() {
		var (
			entry    WatchlistEntry
			addedRaw string
		)
		if err := rows.Scan(&entry.MovieName, &addedRaw); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		if added, err := parseTimeString(addedRaw); err == nil {
			entry.AddedAt = added
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
