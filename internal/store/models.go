package store

import "time"

// Theatre is a cached catalog theatre. The catalog's stable identifier is
// reused as the local primary key; slug is the upsert natural key.
type Theatre struct {
	ID           int64
	Name         string
	Slug         string
	LocationText string
}

// Movie is a cached catalog title. ID is local; slug is the upsert natural key.
type Movie struct {
	ID             int64
	CatalogID      int64
	Name           string
	Slug           string
	ReleaseDate    string
	Rating         string
	RunTimeMinutes int
	Genre          string
	LastCheckedAt  time.Time
}

// Attribute is one display attribute of a showing, in catalog order.
type Attribute struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Showtime is the durable ledger entry for one specific showing. The tuple
// (MovieID, TheatreID, StartUTC, Auditorium) is unique; FirstSeenAt is set on
// first insert and never changes.
type Showtime struct {
	ID            int64
	MovieID       int64
	TheatreID     int64
	StartUTC      time.Time
	StartLocal    time.Time
	Auditorium    int
	SoldOut       bool
	AlmostSoldOut bool
	Attributes    []Attribute
	TicketURL     string
	FirstSeenAt   time.Time
	Notified      bool
}

// ShowtimeCandidate carries the freshly fetched fields evaluated by
// UpsertShowtime. All fields except the natural key are refreshed on every
// re-fetch.
type ShowtimeCandidate struct {
	MovieID       int64
	TheatreID     int64
	StartUTC      time.Time
	StartLocal    time.Time
	Auditorium    int
	SoldOut       bool
	AlmostSoldOut bool
	Attributes    []Attribute
	TicketURL     string
}

// UpsertResult reports the outcome of a showtime upsert.
type UpsertResult struct {
	ID    int64
	IsNew bool
}

// WatchlistEntry is one tracked movie name.
type WatchlistEntry struct {
	MovieName string
	AddedAt   time.Time
}

// RunLogEntry is one append-only diagnostic record, grouped by run.
type RunLogEntry struct {
	ID       int64
	RunID    string
	LoggedAt time.Time
	Level    string
	Message  string
	Movie    string
	Theatre  string
}

// Stats aggregates store counts for status output.
type Stats struct {
	Theatres           int
	Movies             int
	Showtimes          int
	NotifiedShowtimes  int
	WatchlistEntries   int
	CommandCursor      int64
	LastMovieCheckedAt time.Time
}
