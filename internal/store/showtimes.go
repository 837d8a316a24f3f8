package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertShowtime is the atomic unit of new-showtime detection. A candidate is
// looked up by its natural key (movie, theatre, UTC start, auditorium): when
// present, every mutable field is refreshed in place and IsNew is false; when
// absent, a row is inserted with first_seen_at set once and notified unset,
// and IsNew is true. There is no separate diff pass.
func (s *Store) UpsertShowtime(ctx context.Context, candidate ShowtimeCandidate) (UpsertResult, error) {
	if candidate.MovieID == 0 || candidate.TheatreID == 0 {
		return UpsertResult{}, errors.New("showtime candidate requires movie and theatre ids")
	}
	if candidate.StartUTC.IsZero() {
		return UpsertResult{}, errors.New("showtime candidate requires a UTC start time")
	}

	attributesJSON, err := marshalAttributes(candidate.Attributes)
	if err != nil {
		return UpsertResult{}, err
	}

	startKey := formatTime(candidate.StartUTC)

	var existingID int64
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id FROM showtimes WHERE movie_id = ? AND theatre_id = ? AND start_utc = ? AND auditorium = ?`,
		candidate.MovieID,
		candidate.TheatreID,
		startKey,
		candidate.Auditorium,
	)
	err = row.Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(
			ctx,
			`INSERT INTO showtimes (
                movie_id, theatre_id, start_utc, start_local, auditorium,
                sold_out, almost_sold_out, attributes_json, ticket_url,
                first_seen_at, notified
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
			candidate.MovieID,
			candidate.TheatreID,
			startKey,
			candidate.StartLocal.Format(localTimeLayout),
			candidate.Auditorium,
			boolToInt(candidate.SoldOut),
			boolToInt(candidate.AlmostSoldOut),
			nullableString(attributesJSON),
			nullableString(candidate.TicketURL),
			formatTime(time.Now()),
		)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("insert showtime: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return UpsertResult{}, fmt.Errorf("last insert id: %w", err)
		}
		return UpsertResult{ID: id, IsNew: true}, nil
	case err != nil:
		return UpsertResult{}, fmt.Errorf("lookup showtime: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE showtimes
         SET start_local = ?, sold_out = ?, almost_sold_out = ?, attributes_json = ?, ticket_url = ?
         WHERE id = ?`,
		candidate.StartLocal.Format(localTimeLayout),
		boolToInt(candidate.SoldOut),
		boolToInt(candidate.AlmostSoldOut),
		nullableString(attributesJSON),
		nullableString(candidate.TicketURL),
		existingID,
	)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("refresh showtime: %w", err)
	}
	return UpsertResult{ID: existingID, IsNew: false}, nil
}

// MarkNotified flips the notified flag for the given showtimes. The flag only
// ever moves from unset to set.
func (s *Store) MarkNotified(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := makePlaceholders(len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx, `UPDATE showtimes SET notified = 1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// ShowtimeByID fetches a single showtime, or nil when absent.
func (s *Store) ShowtimeByID(ctx context.Context, id int64) (*Showtime, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+showtimeColumns+` FROM showtimes WHERE id = ?`, id)
	showtime, err := scanShowtime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return showtime, nil
}

// ShowtimesForMovie returns every recorded showing of a movie ordered by UTC start.
func (s *Store) ShowtimesForMovie(ctx context.Context, movieID int64) ([]Showtime, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+showtimeColumns+` FROM showtimes WHERE movie_id = ? ORDER BY start_utc`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []Showtime
	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		showtimes = append(showtimes, *showtime)
	}
	return showtimes, rows.Err()
}

const showtimeColumns = "id, movie_id, theatre_id, start_utc, start_local, auditorium, sold_out, almost_sold_out, attributes_json, ticket_url, first_seen_at, notified"

// localTimeLayout stores the theatre-local wall clock without a zone; the
// catalog reports local times as naive timestamps.
const localTimeLayout = "2006-01-02T15:04:05"

func scanShowtime(scanner interface{ Scan(dest ...any) error }) (*Showtime, error) {
	var (
		showtime      Showtime
		startRaw      string
		startLocalRaw string
		soldOut       int
		almostSoldOut int
		attributes    sql.NullString
		ticketURL     sql.NullString
		firstSeenRaw  string
		notified      int
	)
	err := scanner.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.TheatreID,
		&startRaw,
		&startLocalRaw,
		&showtime.Auditorium,
		&soldOut,
		&almostSoldOut,
		&attributes,
		&ticketURL,
		&firstSeenRaw,
		&notified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan showtime: %w", err)
	}

	showtime.SoldOut = soldOut != 0
	showtime.AlmostSoldOut = almostSoldOut != 0
	showtime.Notified = notified != 0
	showtime.TicketURL = ticketURL.String
	if start, err := parseTimeString(startRaw); err == nil {
		showtime.StartUTC = start
	}
	if local, err := time.Parse(localTimeLayout, startLocalRaw); err == nil {
		showtime.StartLocal = local
	}
	if firstSeen, err := parseTimeString(firstSeenRaw); err == nil {
		showtime.FirstSeenAt = firstSeen
	}
	if attributes.Valid && strings.TrimSpace(attributes.String) != "" {
		if err := json.Unmarshal([]byte(attributes.String), &showtime.Attributes); err != nil {
			return nil, fmt.Errorf("decode showtime attributes: %w", err)
		}
	}
	return &showtime, nil
}

func marshalAttributes(attributes []Attribute) (string, error) {
	if len(attributes) == 0 {
		return "", nil
	}
	data, err := json.Marshal(attributes)
	if err != nil {
		return "", fmt.Errorf("encode showtime attributes: %w", err)
	}
	return string(data), nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
