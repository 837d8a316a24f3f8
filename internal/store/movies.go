package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertMovie inserts or refreshes a movie keyed on its catalog slug. The
// local id and last-checked timestamp survive re-fetches; catalog metadata is
// refreshed every time.
func (s *Store) UpsertMovie(ctx context.Context, movie Movie) (*Movie, error) {
	if movie.Slug == "" {
		return nil, errors.New("movie slug is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO movies (catalog_id, name, slug, release_date, rating, run_time_minutes, genre)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (slug) DO UPDATE SET
             catalog_id = excluded.catalog_id,
             name = excluded.name,
             release_date = excluded.release_date,
             rating = excluded.rating,
             run_time_minutes = excluded.run_time_minutes,
             genre = excluded.genre`,
		movie.CatalogID,
		movie.Name,
		movie.Slug,
		nullableString(movie.ReleaseDate),
		nullableString(movie.Rating),
		movie.RunTimeMinutes,
		nullableString(movie.Genre),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert movie: %w", err)
	}
	return s.MovieBySlug(ctx, movie.Slug)
}

// MovieBySlug returns the movie with the given slug, or nil when absent.
func (s *Store) MovieBySlug(ctx context.Context, slug string) (*Movie, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, catalog_id, name, slug, release_date, rating, run_time_minutes, genre, last_checked_at
         FROM movies WHERE slug = ?`,
		slug,
	)
	return scanMovie(row)
}

// TouchMovieChecked bumps a movie's last-checked timestamp. This runs on every
// showtime fetch regardless of whether new showtimes were found.
func (s *Store) TouchMovieChecked(ctx context.Context, movieID int64, checkedAt time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE movies SET last_checked_at = ? WHERE id = ?`,
		formatTime(checkedAt),
		movieID,
	)
	if err != nil {
		return fmt.Errorf("touch movie checked: %w", err)
	}
	return nil
}

func scanMovie(scanner interface{ Scan(dest ...any) error }) (*Movie, error) {
	var (
		movie          Movie
		releaseDate    sql.NullString
		rating         sql.NullString
		runTimeMinutes sql.NullInt64
		genre          sql.NullString
		lastCheckedRaw sql.NullString
	)
	err := scanner.Scan(
		&movie.ID,
		&movie.CatalogID,
		&movie.Name,
		&movie.Slug,
		&releaseDate,
		&rating,
		&runTimeMinutes,
		&genre,
		&lastCheckedRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	movie.ReleaseDate = releaseDate.String
	movie.Rating = rating.String
	movie.RunTimeMinutes = int(runTimeMinutes.Int64)
	movie.Genre = genre.String
	if lastCheckedRaw.Valid {
		if checked, err := parseTimeString(lastCheckedRaw.String); err == nil {
			movie.LastCheckedAt = checked
		}
	}
	return &movie, nil
}
