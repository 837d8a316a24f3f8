// Package store persists marquee state in SQLite: cached catalog theatres and
// movies, the durable showtime ledger, the user watchlist, the inbound command
// cursor, and the append-only run log.
//
// The showtime table is the record of "have we already told the user about
// this specific showing". Rows are identified by the natural key
// (movie, theatre, UTC start, auditorium) and accumulate without expiry;
// UpsertShowtime on that key is the single source of newness decisions.
// Each statement is independently atomic. A crash mid-run leaves some movies
// checked and others not, and the next run resumes from exactly that point.
package store
