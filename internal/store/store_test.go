package store_test

import (
	"context"
	"testing"
	"time"

	"marquee/internal/store"
	"marquee/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	theatre, err := st.UpsertTheatre(ctx, store.Theatre{ID: 610, Name: "Empire 25", Slug: "amc-empire-25", LocationText: "New York, NY"})
	if err != nil {
		t.Fatalf("UpsertTheatre: %v", err)
	}
	if theatre.ID != 610 {
		t.Fatalf("expected catalog id reused as primary key, got %d", theatre.ID)
	}

	fetched, err := st.TheatreBySlug(ctx, "amc-empire-25")
	if err != nil {
		t.Fatalf("TheatreBySlug: %v", err)
	}
	if fetched == nil || fetched.Name != "Empire 25" {
		t.Fatalf("unexpected theatre: %#v", fetched)
	}
}

func TestUpsertTheatreRefreshesBySlug(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.SeedTheatre(t, st, 610, "Empire 25", "amc-empire-25")

	updated, err := st.UpsertTheatre(ctx, store.Theatre{ID: 610, Name: "AMC Empire 25", Slug: "amc-empire-25", LocationText: "42nd St"})
	if err != nil {
		t.Fatalf("UpsertTheatre: %v", err)
	}
	if updated.Name != "AMC Empire 25" || updated.LocationText != "42nd St" {
		t.Fatalf("expected refreshed fields, got %#v", updated)
	}

	theatres, err := st.ListTheatres(ctx)
	if err != nil {
		t.Fatalf("ListTheatres: %v", err)
	}
	if len(theatres) != 1 {
		t.Fatalf("expected one theatre row, got %d", len(theatres))
	}
}

func TestUpsertMoviePreservesLocalID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.SeedMovie(t, st, 12345, "Tron: Ares", "tron-ares")

	second, err := st.UpsertMovie(ctx, store.Movie{CatalogID: 12345, Name: "Tron: Ares", Slug: "tron-ares", Rating: "PG-13", RunTimeMinutes: 119})
	if err != nil {
		t.Fatalf("UpsertMovie: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected stable local id %d, got %d", first.ID, second.ID)
	}
	if second.Rating != "PG-13" || second.RunTimeMinutes != 119 {
		t.Fatalf("expected refreshed metadata, got %#v", second)
	}
}

func TestTouchMovieChecked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	movie := testsupport.SeedMovie(t, st, 1, "Minions", "minions")
	if !movie.LastCheckedAt.IsZero() {
		t.Fatalf("fresh movie should have zero last-checked, got %v", movie.LastCheckedAt)
	}

	checkedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := st.TouchMovieChecked(ctx, movie.ID, checkedAt); err != nil {
		t.Fatalf("TouchMovieChecked: %v", err)
	}
	fetched, err := st.MovieBySlug(ctx, "minions")
	if err != nil {
		t.Fatalf("MovieBySlug: %v", err)
	}
	if !fetched.LastCheckedAt.Equal(checkedAt) {
		t.Fatalf("expected last-checked %v, got %v", checkedAt, fetched.LastCheckedAt)
	}
}

func showtimeCandidate(movieID, theatreID int64, start time.Time) store.ShowtimeCandidate {
	return store.ShowtimeCandidate{
		MovieID:    movieID,
		TheatreID:  theatreID,
		StartUTC:   start,
		StartLocal: start.Add(-5 * time.Hour),
		Auditorium: 7,
		Attributes: []store.Attribute{{Code: "imax", Name: "IMAX"}},
		TicketURL:  "https://tickets.example/1",
	}
}

func TestUpsertShowtimeIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	theatre := testsupport.SeedTheatre(t, st, 610, "Empire 25", "amc-empire-25")
	movie := testsupport.SeedMovie(t, st, 1, "Tron: Ares", "tron-ares")
	start := time.Date(2026, 9, 4, 23, 30, 0, 0, time.UTC)

	first, err := st.UpsertShowtime(ctx, showtimeCandidate(movie.ID, theatre.ID, start))
	if err != nil {
		t.Fatalf("UpsertShowtime: %v", err)
	}
	if !first.IsNew {
		t.Fatal("first upsert should report a new showtime")
	}

	row, err := st.ShowtimeByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("ShowtimeByID: %v", err)
	}
	firstSeen := row.FirstSeenAt

	candidate := showtimeCandidate(movie.ID, theatre.ID, start)
	candidate.AlmostSoldOut = true
	second, err := st.UpsertShowtime(ctx, candidate)
	if err != nil {
		t.Fatalf("UpsertShowtime (repeat): %v", err)
	}
	if second.IsNew {
		t.Fatal("repeated upsert should not report a new showtime")
	}
	if second.ID != first.ID {
		t.Fatalf("expected one stored row, got ids %d and %d", first.ID, second.ID)
	}

	row, err = st.ShowtimeByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("ShowtimeByID (repeat): %v", err)
	}
	if !row.FirstSeenAt.Equal(firstSeen) {
		t.Fatalf("first_seen_at changed across upserts: %v vs %v", firstSeen, row.FirstSeenAt)
	}
	if !row.AlmostSoldOut {
		t.Fatal("mutable fields should refresh on re-fetch")
	}
}

func TestUpsertShowtimeNaturalKeyUniqueness(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	theatre := testsupport.SeedTheatre(t, st, 610, "Empire 25", "amc-empire-25")
	movie := testsupport.SeedMovie(t, st, 1, "Tron: Ares", "tron-ares")
	start := time.Date(2026, 9, 4, 23, 30, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := st.UpsertShowtime(ctx, showtimeCandidate(movie.ID, theatre.ID, start)); err != nil {
			t.Fatalf("UpsertShowtime %d: %v", i, err)
		}
	}
	// A different auditorium is a different showing.
	other := showtimeCandidate(movie.ID, theatre.ID, start)
	other.Auditorium = 2
	if _, err := st.UpsertShowtime(ctx, other); err != nil {
		t.Fatalf("UpsertShowtime (auditorium 2): %v", err)
	}

	rows, err := st.ShowtimesForMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("ShowtimesForMovie: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for 2 distinct natural keys, got %d", len(rows))
	}
}

func TestMarkNotifiedIsMonotonic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	theatre := testsupport.SeedTheatre(t, st, 610, "Empire 25", "amc-empire-25")
	movie := testsupport.SeedMovie(t, st, 1, "Tron: Ares", "tron-ares")
	start := time.Date(2026, 9, 4, 23, 30, 0, 0, time.UTC)

	res, err := st.UpsertShowtime(ctx, showtimeCandidate(movie.ID, theatre.ID, start))
	if err != nil {
		t.Fatalf("UpsertShowtime: %v", err)
	}
	if err := st.MarkNotified(ctx, res.ID); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}

	// Re-fetching the same showing must not reset the flag.
	if _, err := st.UpsertShowtime(ctx, showtimeCandidate(movie.ID, theatre.ID, start)); err != nil {
		t.Fatalf("UpsertShowtime (refresh): %v", err)
	}
	row, err := st.ShowtimeByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("ShowtimeByID: %v", err)
	}
	if !row.Notified {
		t.Fatal("notified flag must never flip back to false")
	}
}

func TestWatchlistCaseInsensitive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	added, err := st.AddWatchlistEntry(ctx, "Tron: Ares")
	if err != nil {
		t.Fatalf("AddWatchlistEntry: %v", err)
	}
	if !added {
		t.Fatal("expected first add to insert")
	}

	added, err = st.AddWatchlistEntry(ctx, "TRON: ARES")
	if err != nil {
		t.Fatalf("AddWatchlistEntry (duplicate): %v", err)
	}
	if added {
		t.Fatal("case-variant add must not create a duplicate")
	}

	removed, err := st.RemoveWatchlistEntry(ctx, "tron: ares")
	if err != nil {
		t.Fatalf("RemoveWatchlistEntry: %v", err)
	}
	if !removed {
		t.Fatal("case-variant remove should match the stored entry")
	}

	entries, err := st.Watchlist(ctx)
	if err != nil {
		t.Fatalf("Watchlist: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty watchlist, got %#v", entries)
	}
}

func TestCommandCursorIsMonotonic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cursor, err := st.CommandCursor(ctx)
	if err != nil {
		t.Fatalf("CommandCursor: %v", err)
	}
	if cursor != 0 {
		t.Fatalf("fresh cursor should be 0, got %d", cursor)
	}

	if err := st.SetCommandCursor(ctx, 7); err != nil {
		t.Fatalf("SetCommandCursor: %v", err)
	}
	if err := st.SetCommandCursor(ctx, 5); err != nil {
		t.Fatalf("SetCommandCursor (regression): %v", err)
	}
	cursor, err = st.CommandCursor(ctx)
	if err != nil {
		t.Fatalf("CommandCursor: %v", err)
	}
	if cursor != 7 {
		t.Fatalf("cursor regressed: got %d, want 7", cursor)
	}
}

func TestRunLogRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, entry := range []store.RunLogEntry{
		{RunID: "run-a", Level: "info", Message: "checking", Movie: "Tron: Ares"},
		{RunID: "run-a", Level: "warn", Message: "no matches", Movie: "Minions"},
		{RunID: "run-b", Level: "info", Message: "checking"},
	} {
		if err := st.AppendRunLog(ctx, entry); err != nil {
			t.Fatalf("AppendRunLog: %v", err)
		}
	}

	entries, err := st.RecentRunLogs(ctx, "run-a", 10)
	if err != nil {
		t.Fatalf("RecentRunLogs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for run-a, got %d", len(entries))
	}
	if entries[0].Message != "no matches" {
		t.Fatalf("expected newest-first ordering, got %q first", entries[0].Message)
	}

	all, err := st.RecentRunLogs(ctx, "", 2)
	if err != nil {
		t.Fatalf("RecentRunLogs (all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected limit to apply, got %d entries", len(all))
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	theatre := testsupport.SeedTheatre(t, st, 610, "Empire 25", "amc-empire-25")
	movie := testsupport.SeedMovie(t, st, 1, "Tron: Ares", "tron-ares")
	res, err := st.UpsertShowtime(ctx, showtimeCandidate(movie.ID, theatre.ID, time.Date(2026, 9, 4, 23, 30, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("UpsertShowtime: %v", err)
	}
	if err := st.MarkNotified(ctx, res.ID); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}
	if _, err := st.AddWatchlistEntry(ctx, "Tron: Ares"); err != nil {
		t.Fatalf("AddWatchlistEntry: %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Theatres != 1 || stats.Movies != 1 || stats.Showtimes != 1 || stats.NotifiedShowtimes != 1 || stats.WatchlistEntries != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}
