package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertTheatre inserts or refreshes a theatre keyed on its catalog slug.
// Catalog identifiers are stable, so the external id doubles as the local
// primary key.
func (s *Store) UpsertTheatre(ctx context.Context, theatre Theatre) (*Theatre, error) {
	if theatre.Slug == "" {
		return nil, errors.New("theatre slug is required")
	}
	if theatre.ID == 0 {
		return nil, errors.New("theatre id is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO theatres (id, name, slug, location_text) VALUES (?, ?, ?, ?)
         ON CONFLICT (slug) DO UPDATE SET name = excluded.name, location_text = excluded.location_text`,
		theatre.ID,
		theatre.Name,
		theatre.Slug,
		nullableString(theatre.LocationText),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert theatre: %w", err)
	}
	return s.TheatreBySlug(ctx, theatre.Slug)
}

// TheatreBySlug returns the theatre with the given slug, or nil when absent.
func (s *Store) TheatreBySlug(ctx context.Context, slug string) (*Theatre, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, slug, location_text FROM theatres WHERE slug = ?`, slug)
	return scanTheatre(row)
}

// TheatreByName returns a theatre whose name matches case-insensitively, or nil.
func (s *Store) TheatreByName(ctx context.Context, name string) (*Theatre, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, slug, location_text FROM theatres WHERE name = ? COLLATE NOCASE LIMIT 1`,
		name,
	)
	return scanTheatre(row)
}

// ListTheatres returns all cached theatres ordered by name.
func (s *Store) ListTheatres(ctx context.Context) ([]Theatre, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, location_text FROM theatres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list theatres: %w", err)
	}
	defer rows.Close()

	var theatres []Theatre
	for rows.Next() {
		theatre, err := scanTheatre(rows)
		if err != nil {
			return nil, err
		}
		theatres = append(theatres, *theatre)
	}
	return theatres, rows.Err()
}

func scanTheatre(scanner interface{ Scan(dest ...any) error }) (*Theatre, error) {
	var (
		theatre      Theatre
		locationText sql.NullString
	)
	err := scanner.Scan(&theatre.ID, &theatre.Name, &theatre.Slug, &locationText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan theatre: %w", err)
	}
	theatre.LocationText = locationText.String
	return &theatre, nil
}
